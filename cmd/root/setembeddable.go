package root

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSetEmbeddableCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-embeddable <id> <true|false>",
		Short: "Set a bookmark's embeddable flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v, err := strconv.ParseBool(args[1])
			if err != nil {
				return newUsageError(fmt.Errorf("invalid boolean %q: %w", args[1], err))
			}

			b, err := app.svc.Repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			b.SetEmbeddable(v)
			if err := app.svc.Update(ctx, b, false); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bookmark %d embeddable=%t\n", b.ID, b.Embeddable)
			return nil
		},
	}
}
