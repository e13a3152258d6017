// Package bookmark holds bkmr's unified record type — a URL, code snippet,
// shell script, markdown note, or environment block, distinguished at
// action-dispatch time by its tag set.
package bookmark

import (
	"net/url"
	"strings"
	"time"
)

// FileProvenance identifies the source file a bookmark was imported from.
// All three fields are set together, or none are.
type FileProvenance struct {
	Path  string
	MTime int64 // epoch seconds
	Hash  string // SHA-256 hex of the file body with its frontmatter stripped
}

// Bookmark is the unified record: URL-or-content, metadata, tags, access
// stats, and an optional embedding.
type Bookmark struct {
	ID          int64
	URL         string
	Title       string
	Description string
	Tags        TagSet
	AccessCount int64
	CreatedAt   *time.Time
	UpdatedAt   time.Time

	Embedding   []float32 // nil if absent
	ContentHash []byte    // MD5 of the canonical embedding source text
	Embeddable  bool

	Provenance *FileProvenance
}

// ValidateURL enforces bkmr's URL invariant: non-empty. No other check is
// made; shell::… payloads, paths and free text are all accepted as they are.
func ValidateURL(raw string) error {
	if raw == "" {
		return errEmptyURL
	}
	return nil
}

var errEmptyURL = &urlError{"url must not be empty"}

type urlError struct{ msg string }

func (e *urlError) Error() string { return e.msg }

// IsHTTPURL reports whether raw parses as an http(s) URL, meaning it should
// be treated as a web bookmark rather than arbitrary payload.
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// IsShellCommand reports whether raw uses the shell:: pseudo-scheme.
func IsShellCommand(raw string) bool {
	return strings.HasPrefix(raw, "shell::")
}

// ShellCommand strips the shell:: prefix, returning the trailing command.
func ShellCommand(raw string) string {
	return strings.TrimPrefix(raw, "shell::")
}

// IsFilesystemPath reports whether raw is an absolute path or a
// ~-prefixed path, which bypass URL validation.
func IsFilesystemPath(raw string) bool {
	return strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "~")
}

// SetEmbeddable implements the clear-on-false rule: writing
// embeddable=false clears both embedding and content hash.
func (b *Bookmark) SetEmbeddable(v bool) {
	b.Embeddable = v
	if !v {
		b.Embedding = nil
		b.ContentHash = nil
	}
}

// RecordAccess increments the access counter and refreshes updated-at,
// never regressing it.
func (b *Bookmark) RecordAccess(now time.Time) {
	b.AccessCount++
	if now.After(b.UpdatedAt) {
		b.UpdatedAt = now
	}
}
