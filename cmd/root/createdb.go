package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCreateDBCmd implements create-db: App.Open already creates the
// database file and runs migrations if it doesn't exist, so this command
// just forces that to happen and reports where it landed.
func newCreateDBCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create-db",
		Short: "Create the SQLite catalog and its schema if it doesn't exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog ready at %s\n", app.cfg.ResolvedDBUrl(app.flags.dbPath))
			return nil
		},
	}
}
