package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/bookmark"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a single bookmark's full detail",
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

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:          %d\n", b.ID)
			fmt.Fprintf(out, "title:       %s\n", b.Title)
			fmt.Fprintf(out, "url:         %s\n", b.URL)
			fmt.Fprintf(out, "description: %s\n", b.Description)
			fmt.Fprintf(out, "tags:        %s\n", joinTags(b.Tags))
			fmt.Fprintf(out, "access:      %d\n", b.AccessCount)
			fmt.Fprintf(out, "updated:     %s\n", b.UpdatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "embeddable:  %t\n", b.Embeddable)
			if b.Provenance != nil {
				fmt.Fprintf(out, "imported from: %s\n", b.Provenance.Path)
			}
			return nil
		},
	}
}

func joinTags(tags bookmark.TagSet) string {
	sorted := tags.Sorted()
	strs := make([]string, len(sorted))
	for i, t := range sorted {
		strs[i] = string(t)
	}
	return strings.Join(strs, ",")
}
