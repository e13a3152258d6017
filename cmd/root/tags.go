package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tags [tag]",
		Short: "List all tags, or tags co-occurring with the given tag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			var tag string
			if len(args) == 1 {
				tag = args[0]
			}

			counts, err := app.svc.RelatedTags(ctx, tag)
			if err != nil {
				return err
			}
			for _, tc := range counts {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %d\n", tc.Tag, tc.Count)
			}
			return nil
		},
	}
}
