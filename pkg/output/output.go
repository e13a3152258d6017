// Package output renders bookmark search results for the CLI, with
// colored and JSON renderers built on github.com/fatih/color and
// github.com/mattn/go-isatty.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sysid/bkmr/pkg/bookmark"
)

// Printer renders bookmarks to w, using color only when w is a terminal
// and the caller hasn't disabled it (--no-color).
type Printer struct {
	w       io.Writer
	color   bool
	idColor *color.Color
	tagColor *color.Color
}

// NewPrinter builds a Printer. noColor forces plain output regardless of
// whether w is a terminal.
func NewPrinter(w io.Writer, fd uintptr, noColor bool) *Printer {
	useColor := !noColor && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	return &Printer{
		w:        w,
		color:    useColor,
		idColor:  color.New(color.FgCyan, color.Bold),
		tagColor: color.New(color.FgYellow),
	}
}

// PrintBookmark writes a single human-readable bookmark line.
func (p *Printer) PrintBookmark(b *bookmark.Bookmark, showTags bool, showURL bool) {
	id := fmt.Sprintf("%d", b.ID)
	if p.color {
		id = p.idColor.Sprint(id)
	}
	line := fmt.Sprintf("%s: %s", id, b.Title)
	if showURL {
		line += "  " + b.URL
	}
	if showTags {
		tagsStr := tagsString(b.Tags)
		if p.color {
			tagsStr = p.tagColor.Sprint(tagsStr)
		}
		line += "  [" + tagsStr + "]"
	}
	fmt.Fprintln(p.w, line)
}

// PrintIDsCSV implements --np: print comma-joined ids to stdout.
func (p *Printer) PrintIDsCSV(bookmarks []*bookmark.Bookmark) {
	ids := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = fmt.Sprintf("%d", b.ID)
	}
	fmt.Fprintln(p.w, strings.Join(ids, ","))
}

// jsonBookmark is the --json wire shape.
type jsonBookmark struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	AccessCount int64    `json:"access_count"`
}

// PrintJSON implements --json: a JSON array of bookmarks.
func (p *Printer) PrintJSON(bookmarks []*bookmark.Bookmark) error {
	out := make([]jsonBookmark, len(bookmarks))
	for i, b := range bookmarks {
		tags := make([]string, 0, len(b.Tags))
		for _, t := range b.Tags.Sorted() {
			tags = append(tags, string(t))
		}
		out[i] = jsonBookmark{
			ID: b.ID, URL: b.URL, Title: b.Title, Description: b.Description,
			Tags: tags, AccessCount: b.AccessCount,
		}
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// PrintShellStubs emits a POSIX function definition per hit, so a caller
// can eval "$(bkmr search --shell-stubs ...)" and invoke scripts by
// mnemonic function name.
func (p *Printer) PrintShellStubs(bookmarks []*bookmark.Bookmark) {
	for _, b := range bookmarks {
		if !b.Tags.IsShell() {
			continue
		}
		fmt.Fprintf(p.w, "bkmr_%d() { bkmr open %d \"$@\"; }\n", b.ID, b.ID)
	}
}

func tagsString(tags bookmark.TagSet) string {
	sorted := tags.Sorted()
	strs := make([]string, len(sorted))
	for i, t := range sorted {
		strs[i] = string(t)
	}
	return strings.Join(strs, ",")
}
