package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// downloadImage saves the cover at src as <MediaDir>/<name>.png and returns
// that path, or NotFound when there is nothing to save.
func (s *Scraper) downloadImage(ctx context.Context, src, name string) string {
	if s.cfg.MediaDir == "" || src == "" || src == NotFound {
		return NotFound
	}
	u := ResolveImageURL(s.cfg.NovelBaseURL, src)

	ok, err := s.exists(ctx, u)
	if err != nil || !ok {
		s.log.Warn().Str("url", u).Msg("image does not exist")
		return NotFound
	}

	b, err := s.get(ctx, u)
	if err != nil || len(b) == 0 {
		s.log.Warn().Err(err).Str("url", u).Msg("image download failed")
		return NotFound
	}

	path, err := saveImage(s.cfg.MediaDir, name, b)
	if err != nil {
		s.log.Error().Err(err).Str("url", u).Msg("image save failed")
		return NotFound
	}
	return path
}

func saveImage(dir, name string, b []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	path := filepath.Join(dir, name+".png")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return filepath.ToSlash(path), nil
}
