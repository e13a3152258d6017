package root

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/fileimport"
)

// resolveUnderBase joins each relative arg onto base (a [base_paths]
// config entry); an arg with no paths defaults to importing base itself.
func resolveUnderBase(base string, args []string) []string {
	if len(args) == 0 {
		return []string{base}
	}
	out := make([]string, len(args))
	for i, a := range args {
		if filepath.IsAbs(a) {
			out[i] = a
		} else {
			out[i] = filepath.Join(base, a)
		}
	}
	return out
}

type importFilesFlags struct {
	update        bool
	deleteMissing bool
	dryRun        bool
	verbose       bool
	basePath      string
}

// newImportFilesCmd implements the file-ingest command: BuildPlan computes
// the (add, update, delete) set against the catalog,
// ApplyPlan commits it unless --dry-run is set. A duplicate-name collision
// without --update surfaces as *fileimport.DuplicateNameError, mapped by
// ExitCode to exit status 73.
func newImportFilesCmd(app *App) *cobra.Command {
	f := &importFilesFlags{}
	cmd := &cobra.Command{
		Use:   "import-files <path>...",
		Short: "Import bookmarks from frontmatter-tagged files under one or more paths",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			opts := fileimport.Options{
				Update:        f.update,
				DeleteMissing: f.deleteMissing,
				DryRun:        f.dryRun,
				Verbose:       f.verbose,
				BasePath:      f.basePath,
			}

			if len(args) == 0 && f.basePath == "" {
				return newUsageError(fmt.Errorf("import-files requires at least one path or --base-path"))
			}

			roots := args
			if f.basePath != "" {
				base, ok := app.cfg.BasePaths[f.basePath]
				if !ok {
					return newUsageError(fmt.Errorf("unknown base path %q (not found in [base_paths])", f.basePath))
				}
				roots = resolveUnderBase(base, args)
			}

			plan, err := fileimport.BuildPlan(ctx, app.svc.Repo, roots, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "plan: %d to add, %d to update, %d to delete, %d skipped\n",
				len(plan.ToAdd), len(plan.ToUpdate), len(plan.ToDelete), len(plan.Skipped))
			if f.verbose {
				for _, s := range plan.Skipped {
					fmt.Fprintf(out, "skipped %s: %s\n", s.Path, s.Reason)
				}
			}

			if f.dryRun {
				return nil
			}

			update := func(ctx context.Context, b *bookmark.Bookmark) error {
				return app.svc.Update(ctx, b, false)
			}
			if err := fileimport.ApplyPlan(ctx, plan, app.svc.Add, update, app.svc.Delete); err != nil {
				return err
			}
			fmt.Fprintln(out, "import complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&f.update, "update", false, "Update existing bookmarks instead of failing on a duplicate name")
	cmd.Flags().BoolVar(&f.deleteMissing, "delete-missing", false, "Delete previously imported bookmarks whose source file no longer exists")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Compute the plan without applying it")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "Print the reason each skipped file was skipped")
	cmd.Flags().StringVar(&f.basePath, "base-path", "", "Named base path from the config file's [base_paths] table")
	return cmd
}
