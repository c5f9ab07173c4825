package grid

import (
	"errors"
	"fmt"
)

// Resolution errors returned by reference parsing and lookup operations
var (
	ErrInvalidColumnReference = errors.New("invalid column reference")
	ErrInvalidRowReference    = errors.New("invalid row reference")
	ErrHeaderNotFound         = errors.New("header not found")
	ErrValueNotFound          = errors.New("value not found")
	ErrNoHeaderRow            = errors.New("no header row found")
	ErrColumnEmpty            = errors.New("no data in column")
	ErrInvalidRowData         = errors.New("invalid row data")
)

// Error constructors with context
func NewInvalidColumnError(ref Value) error {
	return fmt.Errorf("%w: %v", ErrInvalidColumnReference, ref)
}

func NewInvalidRowError(ref Value) error {
	return fmt.Errorf("%w: %v", ErrInvalidRowReference, ref)
}

func NewHeaderNotFoundError(header string) error {
	return fmt.Errorf("%w: '%s'", ErrHeaderNotFound, header)
}

func NewValueNotFoundError(value Value, col int) error {
	return fmt.Errorf("%w: '%v' in column %d", ErrValueNotFound, value, col)
}

func NewColumnEmptyError(col int) error {
	return fmt.Errorf("%w %d", ErrColumnEmpty, col)
}

// Error checking helpers
func IsReferenceError(err error) bool {
	return errors.Is(err, ErrInvalidColumnReference) ||
		errors.Is(err, ErrInvalidRowReference)
}

func IsLookupError(err error) bool {
	return errors.Is(err, ErrHeaderNotFound) ||
		errors.Is(err, ErrValueNotFound) ||
		errors.Is(err, ErrNoHeaderRow) ||
		errors.Is(err, ErrColumnEmpty)
}
