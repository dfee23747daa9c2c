package snapshot

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound            = errors.New("source path not found")
	ErrAlreadyExists       = errors.New("destination path already exists")
	ErrUnsupportedRootType = errors.New("unsupported root type")
	ErrIOFailure           = errors.New("filesystem operation failed")
	ErrMalformedDocument   = errors.New("malformed document")
)

// IOError records a failed filesystem operation. It matches ErrIOFailure with errors.Is and
// unwraps to the underlying provider error.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIOFailure
}

func newIOError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// malformed reports an invalid node at the given path relative to the document root.
func malformed(relpath, format string, args ...interface{}) error {
	return errors.WithMessagef(ErrMalformedDocument, "%s: %s", relpath, fmt.Sprintf(format, args...))
}
