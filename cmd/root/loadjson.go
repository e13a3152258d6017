package root

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/bookmark"
)

type jsonBookmarkInput struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// newLoadJSONCmd implements JSON bookmark file import: a JSON array of
// {url, title, description, tags}, added one at a time through
// the service layer so validation and embedding computation run normally.
func newLoadJSONCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load-json <file>",
		Short: "Import bookmarks from a JSON array file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var entries []jsonBookmarkInput
			if err := json.Unmarshal(data, &entries); err != nil {
				return newUsageError(fmt.Errorf("parsing %s: %w", args[0], err))
			}

			added := 0
			for _, e := range entries {
				tags := bookmark.TagSet{}
				for _, t := range e.Tags {
					if parsed, err := bookmark.NewTag(t); err == nil {
						tags.Add(parsed)
					}
				}
				b := &bookmark.Bookmark{URL: e.URL, Title: e.Title, Description: e.Description, Tags: tags}
				if err := app.svc.Add(ctx, b); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipping %q: %v\n", e.URL, err)
					continue
				}
				added++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d bookmark(s)\n", added, len(entries))
			return nil
		},
	}
}
