package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/bookmark"
)

func newEditCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Open a bookmark in $EDITOR and persist the edited result",
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
			existing, err := app.svc.Repo.GetByID(ctx, id)
			if err != nil {
				return err
			}

			edited, err := editTemplate(ctx, app, bookmark.FromBookmark(existing))
			if err != nil {
				return err
			}

			b := templateToBookmark(edited, existing)
			if err := app.svc.Update(ctx, b, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated bookmark %d\n", b.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Force recomputation of the embedding even if content is unchanged")
	return cmd
}
