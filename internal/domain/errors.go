package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid marks input rejected before any store call.
	ErrInvalid = errors.New("invalid input")
	// ErrNotFound marks a write that targeted an id absent from the store.
	ErrNotFound = errors.New("not found")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}
