package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/sysid/bkmr/pkg/bookmark"
)

// OpenUrlAction renders the URL via the template engine, then hands off to
// an OS-level "open", treating shell::<cmd> as a shell subprocess spawn.
// Absolute/~ paths ending in .md are opened via $EDITOR instead.
type OpenUrlAction struct {
	deps *Deps
}

func (a *OpenUrlAction) Description() string { return "open URL or path" }

func (a *OpenUrlAction) Execute(ctx context.Context, b *bookmark.Bookmark) error {
	rendered, err := a.renderOrFallback(ctx, b.URL)
	if err != nil {
		return err
	}

	if bookmark.IsShellCommand(rendered) {
		return a.deps.RunShell(ctx, bookmark.ShellCommand(rendered), nil, false)
	}
	if bookmark.IsFilesystemPath(rendered) && strings.HasSuffix(rendered, ".md") {
		return a.deps.EditFile(ctx, rendered)
	}
	return a.deps.OpenPath(ctx, rendered)
}

func (a *OpenUrlAction) renderOrFallback(ctx context.Context, text string) (string, error) {
	rendered, err := a.deps.Render(ctx, text)
	if err != nil {
		// Non-fatal for rendering actions: fall back to the original text.
		return text, nil
	}
	return rendered, nil
}

// MarkdownAction reads the URL field as a file path if it names an
// existing file, otherwise treats it as literal markdown; interpolates,
// then renders to the terminal when stdout is a tty, or to HTML when it
// is redirected (e.g. `bkmr open <id> > out.html`).
type MarkdownAction struct {
	deps *Deps
}

func (a *MarkdownAction) Description() string { return "render markdown" }

func (a *MarkdownAction) Execute(ctx context.Context, b *bookmark.Bookmark) error {
	source := b.URL
	if a.deps.FileExists(source) {
		content, err := a.deps.ReadFile(source)
		if err != nil {
			return fmt.Errorf("reading markdown file %q: %w", source, err)
		}
		source = content
	}

	rendered, err := a.deps.Render(ctx, source)
	if err != nil {
		rendered = source
	}

	render := a.deps.RenderMarkdownTerminal
	if a.deps.StdoutIsTerminal != nil && !a.deps.StdoutIsTerminal() && a.deps.RenderMarkdownHTML != nil {
		render = a.deps.RenderMarkdownHTML
	}

	out, err := render(rendered)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	a.deps.Stdout(out)
	return nil
}

// ShellAction has an interactive mode (opens the interpolated script in
// $EDITOR, then executes the saved buffer) and a direct mode (executes
// the interpolated script verbatim with script_args). Interpolation
// failure is fatal here, unlike the rendering actions.
type ShellAction struct {
	deps       *Deps
	noEdit     bool
	scriptArgs []string
}

func (a *ShellAction) Description() string { return "execute shell script" }

func (a *ShellAction) Execute(ctx context.Context, b *bookmark.Bookmark) error {
	rendered, err := a.deps.Render(ctx, b.URL)
	if err != nil {
		return fmt.Errorf("template error, refusing to execute unrendered script: %w", err)
	}
	return a.deps.RunShell(ctx, rendered, a.scriptArgs, !a.noEdit)
}

// SnippetCopyAction interpolates the content and writes it to the system
// clipboard.
type SnippetCopyAction struct {
	deps *Deps
}

func (a *SnippetCopyAction) Description() string { return "copy snippet to clipboard" }

func (a *SnippetCopyAction) Execute(ctx context.Context, b *bookmark.Bookmark) error {
	rendered, err := a.deps.Render(ctx, b.URL)
	if err != nil {
		rendered = b.URL
	}
	if err := a.deps.CopyToClipboard(rendered); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	return nil
}

// EnvAction interpolates the content and emits it to stdout as a
// shell-evaluable block, so the caller can eval "$(bkmr open <id>)".
type EnvAction struct {
	deps *Deps
}

func (a *EnvAction) Description() string { return "source environment block" }

func (a *EnvAction) Execute(ctx context.Context, b *bookmark.Bookmark) error {
	rendered, err := a.deps.Render(ctx, b.URL)
	if err != nil {
		rendered = b.URL
	}
	a.deps.Stdout(rendered)
	return nil
}

// TextViewAction is the fallback for bookmarks that are neither URL-shaped
// nor tagged with a recognized system tag: it prints the interpolated
// content as plain text.
type TextViewAction struct {
	deps *Deps
}

func (a *TextViewAction) Description() string { return "view text" }

func (a *TextViewAction) Execute(ctx context.Context, b *bookmark.Bookmark) error {
	rendered, err := a.deps.Render(ctx, b.URL)
	if err != nil {
		rendered = b.URL
	}
	a.deps.Stdout(rendered)
	return nil
}
