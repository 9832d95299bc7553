package foldersize

import (
	"errors"
	"fmt"
)

var (
	// ErrArgument reports malformed or missing command-line input.
	ErrArgument = errors.New("invalid argument")
	// ErrNotFound reports a root path that does not exist.
	ErrNotFound = errors.New("path does not exist")
	// ErrNotDirectory reports a root path that is not a directory.
	ErrNotDirectory = errors.New("path is not a directory")
	// ErrInvalidPattern reports an exclusion pattern that does not compile.
	ErrInvalidPattern = errors.New("invalid exclusion pattern")
	// ErrInvalidUnit reports an unknown size unit.
	ErrInvalidUnit = errors.New("invalid unit")
	// ErrCancelled reports a walk aborted through its context.
	ErrCancelled = errors.New("scan cancelled")
)

// AccessError reports a directory that could not be listed.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("accessing %q: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
