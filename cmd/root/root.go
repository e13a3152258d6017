// Package root implements bkmr's CLI surface: one cobra command per
// subcommand, wired through App to the repository, search, template,
// embedding, and action layers. One file per subcommand, a package-level
// NewRootCmd/Execute pair, and PersistentPreRunE for logging setup.
package root

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/config"
	"github.com/sysid/bkmr/pkg/logging"
	"github.com/sysid/bkmr/pkg/paths"
	"github.com/sysid/bkmr/pkg/version"
)

// NewRootCmd builds bkmr's root cobra command and all of its
// subcommands, wired to a freshly constructed App.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}
	app := newApp(flags)
	var logFile io.Closer
	var generatedConfigPath string

	cmd := &cobra.Command{
		Use:   "bkmr",
		Short: "bkmr - a unified, tagged, full-text and semantically searchable bookmark and snippet store",
		Long: `bkmr unifies URLs, code snippets, shell scripts, markdown notes, and
environment blocks into a single tagged, full-text-searchable, and
semantically-searchable catalog.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lf, err := setupLogging(flags.debugCount)
			if err != nil {
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: levelFor(flags.debugCount),
				})))
			}
			logFile = lf

			if flags.generateConfig {
				path, err := writeDefaultConfig(flags.configPath)
				if err != nil {
					return err
				}
				generatedConfigPath = path
			}
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if generatedConfigPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote default config to %s\n", generatedConfigPath)
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config.toml (default: $HOME/.config/bkmr/config.toml)")
	cmd.PersistentFlags().CountVarP(&flags.debugCount, "debug", "d", "Enable debug logging (repeatable for more verbosity)")
	cmd.PersistentFlags().BoolVar(&flags.openai, "openai", false, "Use the remote embedder instead of the no-op dummy embedder")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&flags.generateConfig, "generate-config", false, "Write a default config.toml and exit")
	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "Path to the SQLite catalog (overrides BKMR_DB_URL and config db_url)")

	cmd.AddCommand(
		newSearchCmd(app),
		newSemsearchCmd(app),
		newOpenCmd(app),
		newAddCmd(app),
		newDeleteCmd(app),
		newUpdateCmd(app),
		newEditCmd(app),
		newShowCmd(app),
		newSurpriseCmd(app),
		newTagsCmd(app),
		newCreateDBCmd(app),
		newSetEmbeddableCmd(app),
		newBackfillCmd(app),
		newLoadJSONCmd(app),
		newLoadTextsCmd(app),
		newImportFilesCmd(app),
		newInfoCmd(app),
		newCompletionCmd(),
		newLSPCmd(app),
		newVersionCmd(),
	)

	return cmd
}

// Execute parses args and runs the matching command, closing App's
// database connection on the way out regardless of outcome.
func Execute(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
	}
	return err
}

func levelFor(debugCount int) slog.Level {
	if debugCount > 0 {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// setupLogging sends logs to a size-rotated file under the data directory
// unless --debug is unset, in which case logging is discarded.
func setupLogging(debugCount int) (io.Closer, error) {
	if debugCount == 0 {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil, nil
	}

	path := filepath.Join(paths.GetDataDir(), "bkmr.debug.log")
	logFile, err := logging.NewRotatingFile(path)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: levelFor(debugCount)})))
	return logFile, nil
}

func writeDefaultConfig(configPath string) (string, error) {
	path := cmp.Or(strings.TrimSpace(configPath), paths.DefaultConfigPath())
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config already exists at %s", path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return "", err
	}
	if err := cfg.Save(); err != nil {
		return "", err
	}
	return path, nil
}
