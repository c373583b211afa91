package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSelection      = errors.New("date and ticket category must be selected")
	ErrInvalidQuantity       = errors.New("quantity must be a positive integer")
	ErrInsufficientInventory = errors.New("not enough tickets available")

	ErrMalformedSnapshot = errors.New("malformed inventory snapshot")
)

// SelectionError is a recoverable validation failure. It wraps one of the
// sentinel errors above and carries enough context to render a specific
// user-facing message.
type SelectionError struct {
	Field     string // offending field for missing-selection failures
	Requested int
	Available int // remaining count for insufficient-inventory failures
	err       error
}

func (e *SelectionError) Error() string {
	switch {
	case errors.Is(e.err, ErrMissingSelection):
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Field)
	case errors.Is(e.err, ErrInvalidQuantity):
		return fmt.Sprintf("%s: got %d", e.err.Error(), e.Requested)
	case errors.Is(e.err, ErrInsufficientInventory):
		return fmt.Sprintf("%s: requested %d, available %d", e.err.Error(), e.Requested, e.Available)
	}
	return e.err.Error()
}

func (e *SelectionError) Unwrap() error {
	return e.err
}

// UserMessage returns the message shown to the user, matching the wording of
// the booking screens.
func (e *SelectionError) UserMessage() string {
	switch {
	case errors.Is(e.err, ErrMissingSelection):
		return "Выберите дату и категорию билета"
	case errors.Is(e.err, ErrInvalidQuantity):
		return "Укажите количество билетов"
	case errors.Is(e.err, ErrInsufficientInventory):
		return fmt.Sprintf("Доступно: %d билетов", e.Available)
	}
	return e.err.Error()
}

func missingSelection(field string) *SelectionError {
	return &SelectionError{Field: field, err: ErrMissingSelection}
}

func invalidQuantity(requested int) *SelectionError {
	return &SelectionError{Requested: requested, err: ErrInvalidQuantity}
}

func insufficientInventory(requested, available int) *SelectionError {
	return &SelectionError{Requested: requested, Available: available, err: ErrInsufficientInventory}
}
