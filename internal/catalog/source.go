package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"novelhub/internal/novel"
	"novelhub/pkg/models"
)

// Source loads a collection. Every call retrieves it afresh.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.Novel, error)
}

// FileSource reads a collection document from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(ctx context.Context) ([]models.Novel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	novels, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return novels, nil
}

// HTTPSource fetches a collection document with a single GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string { return s.URL }

func (s HTTPSource) Load(ctx context.Context) ([]models.Novel, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &HTTPStatusError{URL: s.URL, StatusCode: resp.StatusCode}
	}

	novels, err := Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.URL, err)
	}
	return novels, nil
}

// DBSource lists the SQLite catalog in id order.
type DBSource struct {
	Repo *novel.Repo
}

func (s DBSource) Name() string { return "sqlite" }

func (s DBSource) Load(ctx context.Context) ([]models.Novel, error) {
	if s.Repo == nil {
		return nil, fmt.Errorf("sqlite source: catalog database not configured")
	}
	return s.Repo.List(ctx, novel.ListQuery{})
}

// Open picks a Source for location: http(s) URLs, "sqlite:" for the catalog
// database, and a file path otherwise.
func Open(location string, repo *novel.Repo, client *http.Client) (Source, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, fmt.Errorf("empty collection location")
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return HTTPSource{URL: location, Client: client}, nil
	case location == "sqlite:" || location == "sqlite":
		if repo == nil {
			return nil, fmt.Errorf("location %q needs the catalog database", location)
		}
		return DBSource{Repo: repo}, nil
	default:
		return FileSource{Path: location}, nil
	}
}
