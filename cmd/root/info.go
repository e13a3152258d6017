package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/embedding"
)

// newInfoCmd prints resolved config paths, the active embedder kind, and
// catalog size diagnostics, useful for confirming a BKMR_DB_URL override
// or the --openai toggle took effect.
func newInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print resolved configuration and catalog diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:        %s\n", app.cfg.Path())
			fmt.Fprintf(out, "database:      %s\n", app.cfg.ResolvedDBUrl(app.flags.dbPath))
			fmt.Fprintf(out, "embedder:      %s\n", embedderName(app.svc.Embedder.Kind()))

			all, err := app.svc.Repo.GetAll(ctx)
			if err != nil {
				return err
			}
			withoutEmbeddings, err := app.svc.Repo.GetWithoutEmbeddings(ctx)
			if err != nil {
				return err
			}

			imported := 0
			for _, b := range all {
				if b.Tags.IsImported() {
					imported++
				}
			}

			fmt.Fprintf(out, "bookmarks:     %d\n", len(all))
			fmt.Fprintf(out, "missing embed: %d\n", len(withoutEmbeddings))
			fmt.Fprintf(out, "imported:      %d\n", imported)
			return nil
		},
	}
}

func embedderName(k embedding.Kind) string {
	switch k {
	case embedding.KindRemote:
		return "remote"
	default:
		return "dummy"
	}
}
