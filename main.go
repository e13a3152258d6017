// Command bkmr is the entrypoint for both the CLI and the LSP snippet
// server; all behavior lives in cmd/root.
package main

import (
	"context"
	"os"

	"github.com/sysid/bkmr/cmd/root"
)

func main() {
	ctx := context.Background()
	if err := root.Execute(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]...); err != nil {
		os.Exit(root.ExitCode(err))
	}
}
