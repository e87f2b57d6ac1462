package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"novelhub/pkg/models"
)

// Index maps a sanitized novel name to its page URL. It is what the offline
// pipeline writes after discovery and reads back in the later steps.
type Index map[string]string

func NewIndex(entries []Entry) Index {
	idx := make(Index, len(entries))
	for _, e := range entries {
		idx[e.Sanitized] = e.URL
	}
	return idx
}

func ReadIndex(path string) (Index, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}

func (idx Index) names() []string {
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func archiveName(name string) string {
	if strings.HasSuffix(name, ".html") {
		return name
	}
	return name + ".html"
}

// Archive downloads every page in idx into dir, one file per novel. It
// returns how many pages were saved; failures are logged.
func (s *Scraper) Archive(ctx context.Context, idx Index, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create archive dir: %w", err)
	}

	saved := 0
	for i, name := range idx.names() {
		if i > 0 {
			if err := s.pause(ctx); err != nil {
				return saved, err
			}
		}

		u := idx[name]
		body, err := s.get(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return saved, ctx.Err()
			}
			s.log.Error().Err(err).Str("url", u).Msg("archive download failed")
			continue
		}

		path := filepath.Join(dir, archiveName(name))
		if err := os.WriteFile(path, body, 0o644); err != nil {
			s.log.Error().Err(err).Str("file", path).Msg("archive write failed")
			continue
		}
		saved++
		s.log.Info().Int("n", saved).Str("novel", name).Msg("archived")
	}
	return saved, nil
}

// ParseDir builds records from the pages archived in dir, numbering them in
// file name order. URLs come from idx.
func (s *Scraper) ParseDir(ctx context.Context, dir string, idx Index) ([]models.Novel, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []models.Novel
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".html") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := strings.TrimSuffix(f.Name(), ".html")
		u, ok := idx[name]
		if !ok {
			u, ok = idx[f.Name()]
		}
		if !ok {
			s.log.Warn().Str("novel", name).Msg("no url recorded")
		}

		b, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, err
		}
		d, err := ParseNovel(bytes.NewReader(b))
		if err != nil {
			s.log.Error().Err(err).Str("file", f.Name()).Msg("unreadable page")
			continue
		}

		n := s.record(ctx, Entry{ID: len(out) + 1, Sanitized: name, URL: u}, d)
		out = append(out, n)
		s.log.Info().Int("id", n.ID).Str("title", n.Title).Msg("processed")
	}
	return out, nil
}
