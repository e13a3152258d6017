// Package action implements bkmr's tag-driven action dispatch: a small
// Action interface with one concrete, tagged-variant type per system tag,
// resolved by priority order rather than a class hierarchy.
package action

import (
	"context"

	"github.com/sysid/bkmr/pkg/bookmark"
)

// Action is the capability every resolved variant exposes.
type Action interface {
	Description() string
	Execute(ctx context.Context, b *bookmark.Bookmark) error
}

// Deps bundles the side-effecting collaborators actions need, so the
// resolver and its variants take an explicit, constructable dependency set
// instead of reaching for globals.
type Deps struct {
	Render    func(ctx context.Context, text string) (string, error)
	Editor    string // $EDITOR, defaulting to vim
	OpenPath  func(ctx context.Context, target string) error
	EditFile  func(ctx context.Context, path string) error
	RunShell  func(ctx context.Context, script string, args []string, editFirst bool) error
	CopyToClipboard func(text string) error
	RenderMarkdownTerminal func(markdown string) (string, error)
	RenderMarkdownHTML     func(markdown string) (string, error)
	StdoutIsTerminal func() bool
	Stdout    func(s string)
	ReadFile  func(path string) (string, error)
	FileExists func(path string) bool
}

// Resolve inspects b's tags and returns exactly one Action, chosen by
// priority: _shell_ → ShellAction, else _snip_ → SnippetCopyAction, else
// _md_ → MarkdownAction, else _env_ → EnvAction, else URL-shaped →
// OpenUrlAction, else → TextViewAction.
func Resolve(b *bookmark.Bookmark, deps *Deps, noEdit bool, scriptArgs []string) Action {
	switch {
	case b.Tags.IsShell():
		return &ShellAction{deps: deps, noEdit: noEdit, scriptArgs: scriptArgs}
	case b.Tags.IsSnippet():
		return &SnippetCopyAction{deps: deps}
	case b.Tags.IsMarkdown():
		return &MarkdownAction{deps: deps}
	case b.Tags.IsEnv():
		return &EnvAction{deps: deps}
	case bookmark.IsHTTPURL(b.URL), bookmark.IsShellCommand(b.URL), bookmark.IsFilesystemPath(b.URL):
		return &OpenUrlAction{deps: deps}
	default:
		return &TextViewAction{deps: deps}
	}
}
