package lsp

import "strings"

// Position is an LSP zero-based line/character position.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is an LSP [Start, End) span.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func isWordChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// ExtractWord scans leftward from character position pos over
// [A-Za-z0-9_-], stopping at the first
// non-word rune. The result must contain at least one alphanumeric rune,
// or query is empty (a run of only hyphens/underscores doesn't count as
// a word). rng spans [pos-len(query), pos).
func ExtractWord(line string, pos int) (query string, rng Range) {
	runes := []rune(line)
	if pos > len(runes) {
		pos = len(runes)
	}
	if pos < 0 {
		pos = 0
	}

	start := pos
	for start > 0 && isWordChar(runes[start-1]) {
		start--
	}

	candidate := string(runes[start:pos])
	if !strings.ContainsFunc(candidate, isAlphanumeric) {
		return "", Range{Start: Position{Character: pos}, End: Position{Character: pos}}
	}

	return candidate, Range{
		Start: Position{Character: start},
		End:   Position{Character: pos},
	}
}
