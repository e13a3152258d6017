package root

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
	"github.com/mattn/go-runewidth"

	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/config"
)

// runFuzzySearch implements --fuzzy: an interactive narrow-as-you-type
// selector over candidates scored in-process, rather than shelling out to
// the real fzf binary. The chosen bookmark's action is then resolved and
// executed as `open --no-edit` would.
func runFuzzySearch(ctx context.Context, app *App, candidates []*bookmark.Bookmark) error {
	if len(candidates) == 0 {
		fmt.Fprintln(os.Stderr, "no candidates to select from")
		return nil
	}

	selected, err := fuzzyPick(os.Stdin, os.Stderr, candidates, app.cfg.FzfOpts)
	if err != nil {
		return err
	}
	if selected == nil {
		return nil // user cancelled
	}
	return app.svc.Open(ctx, selected.ID, true, nil)
}

type fuzzyMatch struct {
	b     *bookmark.Bookmark
	score int
}

// fuzzyLabel builds the text a query is matched against: title, tags, and
// url, mirroring the fields a human scans when picking visually.
func fuzzyLabel(b *bookmark.Bookmark) string {
	return b.Title + " " + strings.Join(tagStrings(b.Tags), " ") + " " + b.URL
}

func tagStrings(tags bookmark.TagSet) []string {
	sorted := tags.Sorted()
	out := make([]string, len(sorted))
	for i, t := range sorted {
		out[i] = string(t)
	}
	return out
}

func scoreAndSort(candidates []*bookmark.Bookmark, query string) []fuzzyMatch {
	if query == "" {
		out := make([]fuzzyMatch, len(candidates))
		for i, b := range candidates {
			out[i] = fuzzyMatch{b: b, score: 0}
		}
		return out
	}

	pattern := []rune(strings.ToLower(query))
	var matches []fuzzyMatch
	for _, b := range candidates {
		chars := util.ToChars([]byte(strings.ToLower(fuzzyLabel(b))))
		result, _ := algo.FuzzyMatchV1(false, false, true, &chars, pattern, false, nil)
		if result.Start < 0 {
			continue
		}
		matches = append(matches, fuzzyMatch{b: b, score: result.Score})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	return matches
}

const fuzzyPageSize = 10

// fuzzyPick runs a raw-mode, narrow-as-you-type picker over candidates,
// rendering up to fuzzyPageSize matches to out and reading keystrokes from
// in. It returns the chosen bookmark, or nil if the user cancels (Esc or
// Ctrl-C). When in is not a terminal it does not prompt and returns the
// first candidate.
func fuzzyPick(in *os.File, out io.Writer, candidates []*bookmark.Bookmark, opts config.FzfOpts) (*bookmark.Bookmark, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		matches := scoreAndSort(candidates, "")
		if len(matches) == 0 {
			return nil, nil
		}
		return matches[0].b, nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw terminal mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	termWidth := 80
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		termWidth = w
	}

	reader := bufio.NewReader(in)
	var query []rune
	selected := 0
	matches := scoreAndSort(candidates, "")

	redraw := func() {
		fmt.Fprint(out, "\r\x1b[J")
		fmt.Fprintf(out, "> %s\r\n", string(query))
		page := matches
		if len(page) > fuzzyPageSize {
			page = page[:fuzzyPageSize]
		}
		for i, m := range page {
			marker := "  "
			if i == selected {
				marker = "> "
			}
			line := marker + truncateToWidth(fuzzyLine(m.b, opts), termWidth-1)
			fmt.Fprintf(out, "%s\r\n", line)
		}
		fmt.Fprintf(out, "\x1b[%dA\r", len(page)+1)
	}

	redraw()
	for {
		r, _, err := reader.ReadRune()
		if err != nil {
			return nil, err
		}

		switch r {
		case 3, 27: // Ctrl-C, Esc
			fmt.Fprint(out, "\r\n")
			return nil, nil
		case '\r', '\n':
			fmt.Fprint(out, "\r\n")
			if selected >= len(matches) {
				return nil, nil
			}
			return matches[selected].b, nil
		case 127, 8: // Backspace
			if len(query) > 0 {
				query = query[:len(query)-1]
				matches = scoreAndSort(candidates, string(query))
				selected = 0
			}
		case 14: // Ctrl-N, move down
			if selected < len(matches)-1 && selected < fuzzyPageSize-1 {
				selected++
			}
		case 16: // Ctrl-P, move up
			if selected > 0 {
				selected--
			}
		default:
			if r >= 0x20 {
				query = append(query, r)
				matches = scoreAndSort(candidates, string(query))
				selected = 0
			}
		}
		redraw()
	}
}

// truncateToWidth trims s to at most width terminal columns, accounting
// for double-width runes, so a long candidate line never wraps onto a
// second row and desynchronizes the raw-mode redraw's cursor-up count.
func truncateToWidth(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func fuzzyLine(b *bookmark.Bookmark, opts config.FzfOpts) string {
	line := fmt.Sprintf("%d: %s", b.ID, b.Title)
	if !opts.NoURL {
		line += "  " + b.URL
	}
	if opts.ShowTags {
		line += "  [" + strings.Join(tagStrings(b.Tags), ",") + "]"
	}
	return line
}
