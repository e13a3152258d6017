package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

type updateFlags struct {
	url        string
	title      string
	tags       string
	comments   string
	embeddable bool
	force      bool
}

func newUpdateCmd(app *App) *cobra.Command {
	f := &updateFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing bookmark's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := app.svc.Repo.GetByID(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("url") {
				b.URL = f.url
			}
			if cmd.Flags().Changed("title") {
				b.Title = f.title
			}
			if cmd.Flags().Changed("tags") {
				b.Tags = tagSet(f.tags)
			}
			if cmd.Flags().Changed("comments") {
				b.Description = f.comments
			}
			if cmd.Flags().Changed("embeddable") {
				b.SetEmbeddable(f.embeddable)
			}

			if err := app.svc.Update(ctx, b, f.force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated bookmark %d\n", b.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.url, "url", "", "New URL / content")
	cmd.Flags().StringVar(&f.title, "title", "", "New title")
	cmd.Flags().StringVar(&f.tags, "tags", "", "New comma-separated tags (replaces the existing set)")
	cmd.Flags().StringVar(&f.comments, "comments", "", "New description / comments")
	cmd.Flags().BoolVar(&f.embeddable, "embeddable", false, "New embeddable flag")
	cmd.Flags().BoolVar(&f.force, "force", false, "Force recomputation of the embedding even if content is unchanged")
	return cmd
}
