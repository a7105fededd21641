package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTimestamp is returned for a file whose header has no
	// timestamp column.
	ErrMissingTimestamp = errors.New("missing timestamp column")
	// ErrEmptySource is returned for a file with a header but no usable rows.
	ErrEmptySource = errors.New("no data rows")
)

// SkipError records a candidate file that was not loaded and why.
type SkipError struct {
	Path string
	Err  error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipped %s: %v", e.Path, e.Err)
}

func (e *SkipError) Unwrap() error {
	return e.Err
}
