package bookmark

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Template is the transient editor-form representation used by the
// add/edit flow: it serializes to, and parses from, a fixed-marker text
// document that a user edits in $EDITOR.
type Template struct {
	ID         *int64
	URL        string
	Title      string
	Tags       TagSet
	Comments   string
	Embeddable bool
}

// FromBookmark builds an editor Template from a persisted Bookmark.
func FromBookmark(b *Bookmark) *Template {
	var id *int64
	if b.ID != 0 {
		v := b.ID
		id = &v
	}
	return &Template{
		ID:         id,
		URL:        b.URL,
		Title:      b.Title,
		Tags:       b.Tags,
		Comments:   b.Description,
		Embeddable: b.Embeddable,
	}
}

const (
	markerID         = "=== ID ==="
	markerURL        = "=== URL ==="
	markerTitle      = "=== TITLE ==="
	markerTags       = "=== TAGS ==="
	markerComments   = "=== COMMENTS ==="
	markerEmbeddable = "=== EMBEDDABLE ==="
	markerEnd        = "=== END ==="
)

// Render serializes the template to the seven-section text document.
func (t *Template) Render() string {
	var b strings.Builder
	idStr := ""
	if t.ID != nil {
		idStr = strconv.FormatInt(*t.ID, 10)
	}
	fmt.Fprintf(&b, "%s\n%s\n\n", markerID, idStr)
	fmt.Fprintf(&b, "%s\n%s\n\n", markerURL, t.URL)
	fmt.Fprintf(&b, "%s\n%s\n\n", markerTitle, t.Title)
	fmt.Fprintf(&b, "%s\n%s\n\n", markerTags, t.Tags.Format())
	fmt.Fprintf(&b, "%s\n%s\n\n", markerComments, t.Comments)
	embeddable := "false"
	if t.Embeddable {
		embeddable = "true"
	}
	fmt.Fprintf(&b, "%s\n%s\n\n", markerEmbeddable, embeddable)
	b.WriteString(markerEnd + "\n")
	return b.String()
}

// only these seven markers are recognized; they must appear at the start
// of a line on their own. Anything else resembling a marker
// (e.g. inside a fenced code block) is ordinary section content.
var markerLine = regexp.MustCompile(`^=== [A-Z]+ ===\s*$`)

var markersInOrder = []string{
	markerID, markerURL, markerTitle, markerTags, markerComments, markerEmbeddable, markerEnd,
}

// ParseTemplate parses the editor document back into a Template. It
// returns an error naming the first structural problem it finds (a missing
// marker, or an unparseable field), so the caller can re-open the editor
// with an inline message.
func ParseTemplate(doc string) (*Template, error) {
	lines := strings.Split(doc, "\n")
	sections := map[string][]string{}
	var current string
	var found []string

	for _, line := range lines {
		if markerLine.MatchString(strings.TrimRight(line, "\r")) {
			marker := strings.TrimSpace(line)
			if !isKnownMarker(marker) {
				// Not one of our seven; treat as content of current section.
				if current != "" {
					sections[current] = append(sections[current], line)
				}
				continue
			}
			current = marker
			found = append(found, marker)
			continue
		}
		if current != "" {
			sections[current] = append(sections[current], line)
		}
	}

	if err := checkMarkerOrder(found); err != nil {
		return nil, err
	}
	for _, m := range markersInOrder {
		if indexOf(found, m) < 0 {
			return nil, fmt.Errorf("missing marker %q", m)
		}
	}

	t := &Template{}

	idText := trimSection(sections[markerID])
	if idText != "" {
		v, err := strconv.ParseInt(idText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ID section %q: %w", idText, err)
		}
		t.ID = &v
	}

	t.URL = trimSection(sections[markerURL])
	t.Title = trimSection(sections[markerTitle])
	t.Tags = NewTagSet(trimSection(sections[markerTags]))
	t.Comments = trimSection(sections[markerComments])

	embeddableText := strings.ToLower(trimSection(sections[markerEmbeddable]))
	switch embeddableText {
	case "true", "yes", "1":
		t.Embeddable = true
	case "false", "no", "0", "":
		t.Embeddable = false
	default:
		return nil, fmt.Errorf("invalid EMBEDDABLE value %q", embeddableText)
	}

	return t, nil
}

func isKnownMarker(s string) bool {
	for _, m := range markersInOrder {
		if m == s {
			return true
		}
	}
	return false
}

func checkMarkerOrder(found []string) error {
	if len(found) == 0 {
		return fmt.Errorf("no section markers found")
	}
	// Markers must appear in the fixed order; a repeated marker is
	// accepted. We verify that the index into markersInOrder never
	// decreases.
	last := -1
	for _, m := range found {
		idx := indexOf(markersInOrder, m)
		if idx < last {
			return fmt.Errorf("marker %q out of order", m)
		}
		last = idx
	}
	return nil
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

// trimSection joins a section's lines and trims leading/trailing blank
// lines while preserving internal newlines.
func trimSection(lines []string) string {
	start := 0
	end := len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
