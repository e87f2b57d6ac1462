package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"novelhub/internal/catalog"
	"novelhub/internal/logging"
	"novelhub/internal/novel"
	"novelhub/internal/scraper"
	"novelhub/pkg/models"
)

type scrapeOptions struct {
	output       string
	mediaDir     string
	workers      int
	merge        bool
	toDB         bool
	offlineDir   string
	indexFile    string
	skipDownload bool
	noImages     bool
}

func newScrapeCmd(a *app) *cobra.Command {
	var o scrapeOptions

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Rebuild the collection document from the source site",
		Long: `scrape walks the site's listing pages, reads every novel page, downloads
the covers and writes the collection document.

With --offline-dir the pages are first archived to disk and parsed from
there; --skip-download reparses an existing archive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.scrape(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "collection document to write (default from config)")
	f.StringVar(&o.mediaDir, "media-dir", "", "directory for downloaded covers (default from config)")
	f.IntVar(&o.workers, "workers", 0, "concurrent novel page fetches (default from config)")
	f.BoolVar(&o.merge, "merge", false, "keep ids of records already in the output document")
	f.BoolVar(&o.toDB, "db", false, "also upsert the records into the catalog database")
	f.StringVar(&o.offlineDir, "offline-dir", "", "archive novel pages here and parse them from disk")
	f.StringVar(&o.indexFile, "index-file", "", "name -> URL index for the offline pipeline (default <offline-dir>/all_novels.json)")
	f.BoolVar(&o.skipDownload, "skip-download", false, "with --offline-dir, parse the existing archive only")
	f.BoolVar(&o.noImages, "no-images", false, "do not download covers")
	return cmd
}

func (a *app) scrape(cmd *cobra.Command, o scrapeOptions) error {
	sc := a.cfg.Scraper
	if o.output == "" {
		o.output = sc.Output
	}
	if o.mediaDir == "" {
		o.mediaDir = sc.MediaDir
	}
	if o.noImages {
		o.mediaDir = ""
	}
	if o.workers <= 0 {
		o.workers = sc.Workers
	}
	if o.skipDownload && o.offlineDir == "" {
		return errors.New("--skip-download needs --offline-dir")
	}

	s := scraper.New(scraper.Config{
		WebsiteBaseURL: sc.WebsiteBaseURL,
		NovelBaseURL:   sc.NovelBaseURL,
		MediaDir:       o.mediaDir,
		Workers:        o.workers,
		PauseMin:       sc.PauseMin,
		PauseMax:       sc.PauseMax,
	}, scraper.NewClient(sc.Timeout, sc.RetryMax), logging.Component(a.logs.Logger, "scraper"))

	ctx := cmd.Context()

	var (
		novels []models.Novel
		err    error
	)
	if o.offlineDir != "" {
		novels, err = a.scrapeOffline(ctx, s, o)
	} else {
		novels, err = s.Crawl(ctx)
	}
	if err != nil {
		return err
	}

	if o.merge {
		existing, err := catalog.FileSource{Path: o.output}.Load(ctx)
		switch {
		case err == nil:
			novels = scraper.Merge(existing, novels)
		case errors.Is(err, fs.ErrNotExist):
			a.log.Info().Str("file", o.output).Msg("nothing to merge with")
		default:
			return fmt.Errorf("merge: %w", err)
		}
	}

	if err := scraper.Save(o.output, novels); err != nil {
		return err
	}
	a.log.Info().Str("file", o.output).Int("novels", len(novels)).Msg("saved collection")

	if o.toDB {
		db, err := a.openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := novel.NewRepo(db).Upsert(ctx, novels); err != nil {
			return fmt.Errorf("save to catalog: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "scraped %d novels into %s\n", len(novels), o.output)
	return nil
}

func (a *app) scrapeOffline(ctx context.Context, s *scraper.Scraper, o scrapeOptions) ([]models.Novel, error) {
	if o.indexFile == "" {
		o.indexFile = filepath.Join(o.offlineDir, "all_novels.json")
	}

	var (
		idx scraper.Index
		err error
	)
	if o.skipDownload {
		if idx, err = scraper.ReadIndex(o.indexFile); err != nil {
			return nil, err
		}
	} else {
		entries, err := s.Discover(ctx)
		if err != nil {
			return nil, err
		}
		idx = scraper.NewIndex(entries)
		if err := scraper.Save(o.indexFile, idx); err != nil {
			return nil, err
		}
		a.log.Info().Str("file", o.indexFile).Int("novels", len(idx)).Msg("saved index")

		saved, err := s.Archive(ctx, idx, o.offlineDir)
		if err != nil {
			return nil, err
		}
		a.log.Info().Int("pages", saved).Str("dir", o.offlineDir).Msg("archived pages")
	}
	return s.ParseDir(ctx, o.offlineDir, idx)
}
