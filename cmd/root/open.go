package root

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"charm.land/glamour/v2"
	"github.com/spf13/cobra"
)

func newOpenCmd(app *App) *cobra.Command {
	var noEdit bool
	var asFile bool

	cmd := &cobra.Command{
		Use:   "open <id|path> [-- script_args...]",
		Short: "Resolve and execute the action for a bookmark",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if asFile {
				return viewFile(cmd, args[0])
			}

			if err := app.Open(ctx); err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			scriptArgs := args[1:]
			if idx := cmd.ArgsLenAtDash(); idx >= 0 {
				scriptArgs = args[idx:]
			}

			return app.svc.Open(ctx, id, noEdit, scriptArgs)
		},
	}

	cmd.Flags().BoolVar(&noEdit, "no-edit", false, "Skip the interactive edit-before-run step for shell bookmarks")
	cmd.Flags().BoolVar(&asFile, "file", false, "Treat the argument as a raw file path to view instead of a bookmark id")
	return cmd
}

// viewFile implements --file: bypasses the catalog entirely and renders the
// given path directly, without interpolation (markdown gets glamour's
// terminal rendering, everything else prints raw).
func viewFile(cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if filepath.Ext(path) == ".md" {
		rendered, err := glamour.Render(string(content), "dark")
		if err == nil {
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), string(content))
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, newUsageError(err)
	}
	return id, nil
}
