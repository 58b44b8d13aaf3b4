package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// NewKind tags a sentinel with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags a sentinel and keeps the underlying cause in the message.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %v", op, kind, err)
}

// Wrap tags an arbitrary error with the operation that raised it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
