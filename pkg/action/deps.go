package action

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"charm.land/glamour/v2"
	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/yuin/goldmark"
)

// DefaultEditor is used when $EDITOR is unset.
const DefaultEditor = "vim"

// NewDeps builds the production Deps wiring: terminal markdown rendering
// via charm.land/glamour/v2 (falling back to github.com/yuin/goldmark's
// HTML renderer when stdout is redirected), clipboard via
// github.com/atotto/clipboard, $EDITOR invocation, and OS-level URL/path
// opening.
func NewDeps(render func(ctx context.Context, text string) (string, error), stdout func(string)) *Deps {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = DefaultEditor
	}

	return &Deps{
		Render:   render,
		Editor:   editor,
		Stdout:   stdout,
		OpenPath: openPath,
		EditFile: func(ctx context.Context, path string) error {
			return runEditor(ctx, editor, path)
		},
		RunShell: func(ctx context.Context, script string, args []string, editFirst bool) error {
			return runShell(ctx, editor, script, args, editFirst)
		},
		CopyToClipboard: clipboard.WriteAll,
		RenderMarkdownTerminal: func(markdown string) (string, error) {
			return glamour.Render(markdown, "dark")
		},
		RenderMarkdownHTML: func(markdown string) (string, error) {
			var buf bytes.Buffer
			if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
				return "", err
			}
			return buf.String(), nil
		},
		StdoutIsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
		ReadFile: func(path string) (string, error) {
			b, err := os.ReadFile(path)
			return string(b), err
		},
		FileExists: func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && !info.IsDir()
		},
	}
}

func openPath(ctx context.Context, target string) error {
	opener := "xdg-open"
	if _, err := exec.LookPath("open"); err == nil {
		opener = "open"
	}
	cmd := exec.CommandContext(ctx, opener, target)
	return cmd.Run()
}

func runEditor(ctx context.Context, editor, path string) error {
	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func runShell(ctx context.Context, editor, script string, args []string, editFirst bool) error {
	if editFirst {
		tmp, err := os.CreateTemp("", "bkmr-*.sh")
		if err != nil {
			return fmt.Errorf("creating temp script: %w", err)
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.WriteString(script); err != nil {
			tmp.Close()
			return err
		}
		tmp.Close()

		if err := runEditor(ctx, editor, tmp.Name()); err != nil {
			return fmt.Errorf("editing script: %w", err)
		}
		edited, err := os.ReadFile(tmp.Name())
		if err != nil {
			return err
		}
		script = string(edited)
	}

	cmd := exec.CommandContext(ctx, "sh", append([]string{"-c", script, "--"}, args...)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
