package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"novelhub/pkg/models"
)

const maxPageBytes = 8 << 20

// ErrNoListing means the first listing page could not be reached.
var ErrNoListing = errors.New("first listing page unavailable")

type Config struct {
	WebsiteBaseURL string // listing pages live here
	NovelBaseURL   string // novel pages and relative images live here
	MediaDir       string // downloaded covers; empty skips image downloads

	Workers  int
	PauseMin time.Duration
	PauseMax time.Duration
}

// Entry is a novel discovered on a listing page.
type Entry struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Sanitized string `json:"sanitized"`
	URL       string `json:"url"`
}

type Scraper struct {
	cfg    Config
	client *http.Client
	log    zerolog.Logger

	mu  sync.Mutex
	rnd *rand.Rand

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(cfg Config, client *http.Client, log zerolog.Logger) *Scraper {
	if client == nil {
		client = NewClient(0, defaultRetryMax)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Scraper{
		cfg:    cfg,
		client: client,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:  sleepCtx,
	}
}

// Crawl discovers every novel and fetches their pages with a bounded number
// of workers. Pages that fail are logged and skipped. The result is in id
// order.
func (s *Scraper) Crawl(ctx context.Context) ([]models.Novel, error) {
	entries, err := s.Discover(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("novels", len(entries)).Msg("discovered")

	results := make([]*models.Novel, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for i, e := range entries {
		g.Go(func() error {
			n, err := s.FetchNovel(gctx, e)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.log.Warn().Err(err).Str("url", e.URL).Msg("skipping novel")
				return nil
			}
			results[i] = &n
			s.log.Info().Int("id", n.ID).Str("title", n.Title).Msg("processed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Novel, 0, len(results))
	for _, n := range results {
		if n != nil {
			out = append(out, *n)
		}
	}
	return out, nil
}

// Discover walks index.html, index2.html, ... until a listing page is
// missing and returns the novels in the order they appear, numbered from 1.
func (s *Scraper) Discover(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	for n := 1; ; n++ {
		u := IndexURL(s.cfg.WebsiteBaseURL, n)

		ok, err := s.exists(ctx, u)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !ok {
			if n == 1 {
				return nil, fmt.Errorf("%w: %s", ErrNoListing, u)
			}
			s.log.Info().Str("url", u).Msg("no more listing pages")
			break
		}

		if n > 1 {
			if err := s.pause(ctx); err != nil {
				return nil, err
			}
		}

		s.log.Info().Int("page", n).Str("url", u).Msg("fetching listing page")
		body, err := s.get(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Error().Err(err).Str("url", u).Msg("listing page failed")
			continue
		}

		links, mismatch, err := ParseIndex(bytes.NewReader(body))
		if err != nil {
			s.log.Error().Err(err).Str("url", u).Msg("listing page unreadable")
			continue
		}
		if mismatch {
			s.log.Warn().Str("url", u).Msg("title and link counts differ")
		}

		for _, l := range links {
			name := ExtractFilename(l.Href)
			entries = append(entries, Entry{
				ID:        len(entries) + 1,
				Title:     l.Title,
				Sanitized: SanitizeFilename(name),
				URL:       s.cfg.NovelBaseURL + name,
			})
		}
	}
	return entries, nil
}

// FetchNovel downloads and parses one novel page, then its cover.
func (s *Scraper) FetchNovel(ctx context.Context, e Entry) (models.Novel, error) {
	ok, err := s.exists(ctx, e.URL)
	if err != nil {
		return models.Novel{}, err
	}
	if !ok {
		return models.Novel{}, fmt.Errorf("novel page %s does not exist", e.URL)
	}

	body, err := s.get(ctx, e.URL)
	if err != nil {
		return models.Novel{}, err
	}
	d, err := ParseNovel(bytes.NewReader(body))
	if err != nil {
		return models.Novel{}, err
	}
	return s.record(ctx, e, d), nil
}

func (s *Scraper) record(ctx context.Context, e Entry, d Details) models.Novel {
	return models.Novel{
		ID:         e.ID,
		Title:      d.Title,
		Image:      s.downloadImage(ctx, d.ImageURL, e.Sanitized),
		Status:     d.Status,
		Genres:     models.Genres(d.Genres),
		NumVolumes: d.NumVolumes,
		Synopsis:   d.Synopsis,
		URL:        e.URL,
	}
}

// exists reports whether a HEAD request for u answers 200.
func (s *Scraper) exists(ctx context.Context, u string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return false, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Str("url", u).Msg("head failed")
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

func (s *Scraper) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", u, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	return b, nil
}

func (s *Scraper) pause(ctx context.Context) error {
	d := s.cfg.PauseMin
	if span := s.cfg.PauseMax - s.cfg.PauseMin; span > 0 {
		s.mu.Lock()
		d += time.Duration(s.rnd.Int63n(int64(span)))
		s.mu.Unlock()
	}
	if d <= 0 {
		return ctx.Err()
	}
	return s.sleep(ctx, d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
