package root

import (
	"errors"

	"github.com/sysid/bkmr/pkg/bkmrerr"
	"github.com/sysid/bkmr/pkg/fileimport"
)

// Process exit codes for the CLI.
const (
	ExitSuccess        = 0
	ExitUsage          = 64
	ExitGeneralFailure = 1
	ExitDuplicateName  = 73
)

// ExitCode maps an error returned by Execute to a process exit code. A nil
// error is not expected here; callers only consult this after confirming
// Execute failed.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var dup *fileimport.DuplicateNameError
	if errors.As(err, &dup) {
		return ExitDuplicateName
	}
	if errors.Is(err, bkmrerr.ErrDuplicateName) {
		return ExitDuplicateName
	}

	if kind, ok := bkmrerr.KindOf(err); ok && kind == bkmrerr.KindValidation {
		return ExitUsage
	}

	var usageErr usageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}

	return ExitGeneralFailure
}

// usageError marks an error as a CLI usage/validation problem (bad flags,
// malformed ids) distinct from an operational failure.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func newUsageError(err error) error {
	if err == nil {
		return nil
	}
	return usageError{err}
}
