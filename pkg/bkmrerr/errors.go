// Package bkmrerr defines the error taxonomy bkmr's layers wrap errors in,
// so that cmd/root can map any returned error to an exit code without
// inspecting string messages.
package bkmrerr

import "errors"

// Kind classifies an error into one of the taxonomy buckets used to pick
// an exit code and a user-facing message.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindRepository
	KindTemplate
	KindEmbedding
	KindIO
	KindLSPProtocol
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRepository:
		return "repository"
	case KindTemplate:
		return "template"
	case KindEmbedding:
		return "embedding"
	case KindIO:
		return "io"
	case KindLSPProtocol:
		return "lsp_protocol"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind and optional context, so
// callers can errors.As into it to recover the kind for exit-code mapping.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a kind and an operation label describing where it
// occurred ("repository.add", "template.render", ...).
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Error; ok is false for plain errors, which callers should treat as a
// general failure.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Sentinel errors used with errors.Is for specific, named failure cases
// that callers branch on directly.
var (
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrBookmarkExists   = errors.New("bookmark with this url already exists")
	ErrDuplicateName    = errors.New("duplicate name on file import")
	ErrDummyEmbedder    = errors.New("active embedder produces no vectors")
	ErrEmptyURL         = errors.New("url must not be empty")
	ErrInvalidTag       = errors.New("tag must not contain commas or whitespace")
)
