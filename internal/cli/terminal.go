package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"novelhub/internal/catalog"
	"novelhub/internal/novel"
	"novelhub/internal/render"
	"novelhub/pkg/models"
)

func newListCmd(a *app) *cobra.Command {
	var (
		from   string
		q      novel.ListQuery
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the collection as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from == "" {
				from = a.cfg.Data.LinkedSource
			}
			novels, err := a.load(cmd.Context(), from)
			if err != nil {
				return err
			}
			novels = novel.Filter(novels, q)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), novels)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Table(novels))
			fmt.Fprintf(cmd.OutOrStdout(), "%d novels\n", len(novels))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&from, "from", "", "collection: file, URL or sqlite: (default the linked list source)")
	f.StringVarP(&q.Q, "query", "q", "", "only titles containing this text")
	f.StringVar(&q.Status, "status", "", "only this status")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var (
		from string
		id   string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print one novel the way the detail view shows it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from == "" {
				from = a.cfg.Data.DetailSource
			}
			novels, err := a.load(cmd.Context(), from)
			if err != nil {
				return err
			}

			var (
				n     models.Novel
				found bool
			)
			if parsed, ok := catalog.ParseID(id); ok {
				n, found = catalog.Find(novels, parsed)
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "Novel not found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.DetailText(render.Detail(n)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "collection: file, URL or sqlite: (default the detail source)")
	cmd.Flags().StringVar(&id, "id", "", "record id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
