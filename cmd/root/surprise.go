package root

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSurpriseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "surprise [n]",
		Short: "Print n random bookmarks (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			n := 1
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return newUsageError(err)
				}
				n = v
			}

			results, err := app.svc.Surprise(ctx, n)
			if err != nil {
				return err
			}
			for _, b := range results {
				app.printer.PrintBookmark(b, true, true)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d result(s)\n", len(results))
			return nil
		},
	}
}
