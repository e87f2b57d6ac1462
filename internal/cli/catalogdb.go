package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"novelhub/internal/catalog"
	"novelhub/internal/novel"
	"novelhub/internal/scraper"
	"novelhub/pkg/models"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json|file.csv|url>...",
		Short: "Load collection documents into the catalog database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			repo := novel.NewRepo(db)

			total := 0
			for _, loc := range args {
				novels, err := a.readCollection(cmd, loc)
				if err != nil {
					return err
				}
				if err := repo.Upsert(ctx, novels); err != nil {
					return fmt.Errorf("import %s: %w", loc, err)
				}
				a.log.Info().Str("source", loc).Int("novels", len(novels)).Msg("imported")
				total += len(novels)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d novels into %s\n", total, a.cfg.Database.Path)
			return nil
		},
	}
}

// readCollection reads a CSV file by extension and anything else through a
// catalog.Source.
func (a *app) readCollection(cmd *cobra.Command, loc string) ([]models.Novel, error) {
	if strings.EqualFold(filepath.Ext(loc), ".csv") {
		f, err := os.Open(loc)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		novels, err := catalog.ReadCSV(bufio.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", loc, err)
		}
		return novels, nil
	}
	return a.load(cmd.Context(), loc)
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
		from   string
		q      novel.ListQuery
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as a JSON collection document or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if format != "json" && format != "csv" {
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			}

			novels, err := a.load(cmd.Context(), from)
			if err != nil {
				return err
			}
			novels = novel.Filter(novels, q)

			switch {
			case format == "json" && out != "":
				err = scraper.Save(out, novels)
			case format == "json":
				err = writeJSON(cmd.OutOrStdout(), novels)
			case out != "":
				err = writeCSVFile(out, novels)
			default:
				err = catalog.WriteCSV(cmd.OutOrStdout(), novels)
			}
			if err != nil {
				return err
			}

			if out != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d novels to %s\n", len(novels), out)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "json", "json or csv")
	f.StringVarP(&out, "out", "o", "", "output file (default stdout)")
	f.StringVar(&from, "from", "sqlite:", "collection to export: file, URL or sqlite:")
	f.StringVarP(&q.Q, "query", "q", "", "only titles containing this text")
	f.StringVar(&q.Status, "status", "", "only this status")
	return cmd
}

func writeCSVFile(path string, novels []models.Novel) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := catalog.WriteCSV(f, novels); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
