package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/bookmark"
)

func newSemsearchCmd(app *App) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "semsearch <query text>",
		Short: "Rank bookmarks by embedding cosine similarity to the query text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			text := strings.Join(args, " ")
			results, err := app.svc.SemanticSearch(ctx, text, limit)
			if err != nil {
				return err
			}

			if jsonOut {
				bookmarks := make([]*bookmark.Bookmark, len(results))
				for i, r := range results {
					bookmarks[i] = r.Bookmark
				}
				return app.printer.PrintJSON(bookmarks)
			}

			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%.4f  %d: %s\n", r.Similarity, r.Bookmark.ID, r.Bookmark.Title)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d result(s)\n", len(results))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of results to return (0 = default)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as a JSON array")
	return cmd
}
