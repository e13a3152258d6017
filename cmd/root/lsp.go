package root

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/lsp"
)

// completionDeadline bounds how long a single LSP completion request may run
// before the server cancels it.
const completionDeadline = 2 * time.Second

// newLSPCmd runs a Content-Length-framed JSON-RPC server over stdio, wired
// to the same BookmarkService every other command uses.
func newLSPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the bkmr language server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}

			if exe, err := os.Executable(); err == nil {
				lsp.ProbeBinary(exe)
			}

			transport := lsp.NewTransport(os.Stdin, os.Stdout)
			server := lsp.NewServer(transport, app.svc, app.svc.Engine.Render, completionDeadline)
			return server.Serve(ctx)
		},
	}
}
