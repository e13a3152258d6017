package root

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sysid/bkmr/pkg/action"
	"github.com/sysid/bkmr/pkg/config"
	"github.com/sysid/bkmr/pkg/embedding"
	"github.com/sysid/bkmr/pkg/environment"
	"github.com/sysid/bkmr/pkg/output"
	"github.com/sysid/bkmr/pkg/repository"
	"github.com/sysid/bkmr/pkg/service"
	"github.com/sysid/bkmr/pkg/templateengine"
)

// globalFlags holds the values bound to the root command's persistent
// flags.
type globalFlags struct {
	configPath     string
	dbPath         string
	debugCount     int
	openai         bool
	noColor        bool
	generateConfig bool
}

// App wires the services every subcommand needs: config, repository,
// embedder, template engine, action dependencies, and the bookmark service
// that orchestrates them. It is built once per process and opened lazily,
// since most commands need a database connection but a few (version,
// completion, --generate-config) do not.
type App struct {
	flags *globalFlags

	cfg     *config.Config
	repo    *repository.Repository
	svc     *service.BookmarkService
	printer *output.Printer
}

func newApp(flags *globalFlags) *App {
	return &App{flags: flags}
}

// Open loads the config file and opens the database, building the
// service graph. Safe to call more than once; subsequent calls are a
// no-op.
func (a *App) Open(ctx context.Context) error {
	if a.svc != nil {
		return nil
	}

	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	dbPath := cfg.ResolvedDBUrl(a.flags.dbPath)
	repo, err := repository.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	a.repo = repo

	embedder := a.buildEmbedder()
	engine := a.buildEngine()
	deps := action.NewDeps(engine.Render, func(s string) { fmt.Fprintln(os.Stdout, s) })

	a.svc = service.New(repo, embedder, engine, deps)
	a.printer = output.NewPrinter(os.Stdout, os.Stdout.Fd(), a.flags.noColor)
	return nil
}

// Close releases the database connection, if opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

func (a *App) buildEngine() *templateengine.Engine {
	env := environment.NewMultiProvider(environment.NewOsEnvProvider())
	shell := func(ctx context.Context, command string) (string, error) {
		var out bytes.Buffer
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Stdout = &out
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("shell filter: %w", err)
		}
		return strings.TrimSpace(out.String()), nil
	}
	return templateengine.NewEngine(env, shell)
}

// buildEmbedder selects the dummy or remote embedder per the --openai
// global toggle. OpenAIEmbedder is the thin HTTP adapter that plugs a
// remote model into the Embedder capability.
func (a *App) buildEmbedder() embedding.Embedder {
	if !a.flags.openai {
		return embedding.DummyEmbedder{}
	}
	return NewOpenAIEmbedder()
}
