package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackfillCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Compute missing embeddings for embeddable bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}
			count, err := app.svc.Backfill(ctx, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backfilled %d embedding(s)\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Recompute embeddings for every embeddable bookmark except _imported_ ones")
	return cmd
}
