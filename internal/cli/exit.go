package cli

import (
	"errors"
	"io/fs"

	"github.com/idelchi/dirtools/internal/filediff"
	"github.com/idelchi/dirtools/internal/foldersize"
)

// Exit codes of the dirtools binary.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitPath      = 3
	ExitCancelled = 130
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	var accessErr *foldersize.AccessError

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, foldersize.ErrCancelled):
		return ExitCancelled
	case errors.Is(err, foldersize.ErrArgument),
		errors.Is(err, foldersize.ErrInvalidUnit),
		errors.Is(err, foldersize.ErrInvalidPattern),
		errors.Is(err, filediff.ErrTypeMismatch):
		return ExitUsage
	case errors.Is(err, foldersize.ErrNotFound),
		errors.Is(err, foldersize.ErrNotDirectory),
		errors.Is(err, fs.ErrNotExist),
		errors.As(err, &accessErr):
		return ExitPath
	default:
		return ExitFailure
	}
}
