package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidName = errors.New("invalid name")
	ErrInvalidText = errors.New("invalid text")
)
