package devapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/booking"
	"github.com/excursio/excursio-client/internal/domain/excursion"
)

var ErrExcursionNotFound = errors.New("excursion not found")

// InsufficientError is the server-side inventory rejection. Unlike the
// client's local validation this one is authoritative: it is produced under
// the store's concurrency control.
type InsufficientError struct {
	Available int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("Доступно: %d билетов", e.Available)
}

// RequestError marks a rejection caused by the request itself (bad ids, a
// stale total) as opposed to a store failure; the handler answers it with a
// 400 while genuine store failures become a 500 without leaking their text.
type RequestError struct {
	msg string
}

func (e *RequestError) Error() string { return e.msg }

func requestErrorf(format string, args ...interface{}) *RequestError {
	return &RequestError{msg: fmt.Sprintf(format, args...)}
}

// Store is the authoritative inventory holder behind the dev API.
type Store interface {
	PutExcursion(ctx context.Context, exc *excursion.Excursion) error
	ListExcursions(ctx context.Context) ([]*excursion.Excursion, error)
	GetExcursion(ctx context.Context, id uuid.UUID) (*excursion.Excursion, error)
	// CreateBooking atomically checks and decrements the slot. Returns
	// *InsufficientError when fewer tickets remain than requested.
	CreateBooking(ctx context.Context, req booking.Request) (*booking.Booking, error)
	ListBookings(ctx context.Context, userID uuid.UUID) ([]booking.Booking, error)
}
