package shared

import "errors"

var (
	// ErrNotFound indicates the referenced product, sale, or expense does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a natural-key collision on product insert.
	ErrDuplicate = errors.New("duplicate product code")
	// ErrInvalidFormat indicates a malformed import payload.
	ErrInvalidFormat = errors.New("invalid interchange format")
	// ErrValidation indicates rejected input fields.
	ErrValidation = errors.New("validation failed")
)
