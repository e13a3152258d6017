// Package templateengine implements bkmr's sandboxed interpolation syntax:
// {{ expression }} for substitution, a closed filter registry, and a
// {% raw %}…{% endraw %} escape region. raw is the only {% %} tag it
// evaluates; any other {% … %} text is left in the output unchanged. It is
// a small hand-written evaluator sized to this closed grammar.
package templateengine

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	"github.com/sysid/bkmr/pkg/environment"
)

// ShellRunner captures the stdout of a shell command. It is a capability
// handle so the shell filter can be stubbed in tests.
type ShellRunner func(ctx context.Context, command string) (string, error)

// Engine renders bkmr's template syntax against a fixed set of globals and
// filters.
type Engine struct {
	Env      environment.Provider
	Shell    ShellRunner
	Now      func() time.Time
	Filename string // basename of the current LSP document URI, or ""
}

// NewEngine builds an Engine with the given environment provider and shell
// runner. Now defaults to time.Now; callers in tests should override it.
func NewEngine(env environment.Provider, shell ShellRunner) *Engine {
	return &Engine{Env: env, Shell: shell, Now: time.Now}
}

var rawRegion = regexp.MustCompile(`(?s)\{%\s*raw\s*%\}(.*?)\{%\s*endraw\s*%\}`)

// stripRaw removes the {% raw %}...{% endraw %} delimiters and protects
// the inner text from further evaluation by substituting it with a
// placeholder token that is restored after evaluation.
func stripRaw(input string) (stripped string, restore func(string) string) {
	var rawTexts []string
	stripped = rawRegion.ReplaceAllStringFunc(input, func(match string) string {
		sub := rawRegion.FindStringSubmatch(match)
		rawTexts = append(rawTexts, sub[1])
		return fmt.Sprintf("\x00RAW%d\x00", len(rawTexts)-1)
	})
	restore = func(rendered string) string {
		for i, text := range rawTexts {
			rendered = strings.ReplaceAll(rendered, fmt.Sprintf("\x00RAW%d\x00", i), text)
		}
		return rendered
	}
	return stripped, restore
}

var exprPattern = regexp.MustCompile(`\{\{\s*(.*?)\s*\}\}`)

// Render evaluates input, substituting {{ expr }} occurrences. expr is a
// pipeline: a base term (a global call, a bare global, or a string
// literal) optionally followed by one or more `| filter(args)` stages.
func (e *Engine) Render(ctx context.Context, input string) (string, error) {
	stripped, restore := stripRaw(input)

	var firstErr error
	out := exprPattern.ReplaceAllStringFunc(stripped, func(match string) string {
		sub := exprPattern.FindStringSubmatch(match)
		expr := sub[1]
		val, err := e.evalPipeline(ctx, expr)
		if err != nil {
			if firstErr == nil {
				firstErr = &TemplateError{Expr: expr, Err: err}
			}
			return match
		}
		return val
	})
	if firstErr != nil {
		return out, firstErr
	}
	return restore(out), nil
}

// TemplateError carries the offending expression alongside the cause.
// BookmarkID is not filled in by Render or by any caller in this module,
// so it is zero.
type TemplateError struct {
	BookmarkID int64
	Expr       string
	Err        error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template error in %q: %v", e.Expr, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

func (e *Engine) evalPipeline(ctx context.Context, expr string) (string, error) {
	stages := splitPipeline(expr)
	if len(stages) == 0 {
		return "", fmt.Errorf("empty expression")
	}

	value, err := e.evalTerm(ctx, strings.TrimSpace(stages[0]))
	if err != nil {
		return "", err
	}

	for _, stage := range stages[1:] {
		name, args := parseFilterCall(strings.TrimSpace(stage))
		value, err = e.applyFilter(ctx, name, value, args)
		if err != nil {
			return "", err
		}
	}
	return value, nil
}

func splitPipeline(expr string) []string {
	// Split on '|' that is not inside quotes.
	var stages []string
	var cur bytes.Buffer
	inQuote := false
	for _, r := range expr {
		switch {
		case r == '\'' || r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == '|' && !inQuote:
			stages = append(stages, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	stages = append(stages, cur.String())
	return stages
}

func (e *Engine) evalTerm(ctx context.Context, term string) (string, error) {
	name, args := parseFilterCall(term)
	switch name {
	case "current_date":
		return e.Now().Format("2006-01-02"), nil
	case "filename":
		return e.Filename, nil
	case "env":
		if len(args) < 1 {
			return "", fmt.Errorf("env() requires a name argument")
		}
		def := ""
		if len(args) > 1 {
			def = args[1]
		}
		if v, ok := e.Env.Get(ctx, args[0]); ok {
			return v, nil
		}
		return def, nil
	default:
		// A bare string literal term (e.g. the initial pipeline stage of
		// "some text" | shell).
		return unquote(term), nil
	}
}

func (e *Engine) applyFilter(ctx context.Context, name, value string, args []string) (string, error) {
	switch name {
	case "strftime":
		if len(args) < 1 {
			return "", fmt.Errorf("strftime() requires a format argument")
		}
		t, err := parseDate(value)
		if err != nil {
			return "", err
		}
		return strftime.Format(args[0], t), nil
	case "subtract_days":
		n, err := intArg(args)
		if err != nil {
			return "", err
		}
		t, err := parseDate(value)
		if err != nil {
			return "", err
		}
		return t.AddDate(0, 0, -n).Format("2006-01-02"), nil
	case "add_days":
		n, err := intArg(args)
		if err != nil {
			return "", err
		}
		t, err := parseDate(value)
		if err != nil {
			return "", err
		}
		return t.AddDate(0, 0, n).Format("2006-01-02"), nil
	case "shell":
		if e.Shell == nil {
			return "", fmt.Errorf("shell filter unavailable: no shell runner configured")
		}
		return e.Shell(ctx, value)
	default:
		return "", fmt.Errorf("unknown filter %q", name)
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", s)
}

func intArg(args []string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing integer argument")
	}
	return strconv.Atoi(strings.TrimSpace(args[0]))
}

var callPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(?:\((.*)\))?$`)

func parseFilterCall(s string) (name string, args []string) {
	m := callPattern.FindStringSubmatch(s)
	if m == nil {
		return s, nil
	}
	name = m[1]
	if m[2] == "" {
		return name, nil
	}
	for _, raw := range splitArgs(m[2]) {
		args = append(args, unquote(strings.TrimSpace(raw)))
	}
	return name, args
}

func splitArgs(s string) []string {
	var parts []string
	var cur bytes.Buffer
	inQuote := rune(0)
	for _, r := range s {
		switch {
		case inQuote != 0:
			cur.WriteRune(r)
			if r == inQuote {
				inQuote = 0
			}
		case r == '\'' || r == '"':
			inQuote = r
			cur.WriteRune(r)
		case r == ',':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
