package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/bookmark"
)

type addFlags struct {
	url        string
	title      string
	tags       string
	comments   string
	embeddable bool
	edit       bool
}

func newAddCmd(app *App) *cobra.Command {
	f := &addFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new bookmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			b := &bookmark.Bookmark{
				URL:         f.url,
				Title:       f.title,
				Description: f.comments,
				Tags:        tagSet(f.tags),
				Embeddable:  f.embeddable,
			}

			if f.edit {
				edited, err := editTemplate(ctx, app, bookmark.FromBookmark(b))
				if err != nil {
					return err
				}
				b = templateToBookmark(edited, b)
			}

			if err := app.svc.Add(ctx, b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added bookmark %d\n", b.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.url, "url", "", "URL, shell:: command, file path, or snippet body")
	cmd.Flags().StringVar(&f.title, "title", "", "Title")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&f.comments, "comments", "", "Description / comments")
	cmd.Flags().BoolVar(&f.embeddable, "embeddable", false, "Compute and store a semantic embedding for this bookmark")
	cmd.Flags().BoolVar(&f.edit, "edit", false, "Open $EDITOR with the bookmark template before saving")
	return cmd
}
