package booking

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle status of a booking. The client only ever submits
// Pending; the remaining states come back from the server.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusRejected  Status = "Rejected"
)

// Request is the booking payload sent to the Booking API. Total is a decimal
// string computed from the validated selection, exact in the currency's two
// decimal places.
type Request struct {
	UserID         string `json:"userId" validate:"required,uuid"`
	ExcursionID    string `json:"excursionId" validate:"required,uuid"`
	TicketCategory string `json:"ticketCategory" validate:"required"`
	DateTime       string `json:"dateTime" validate:"required,datekey"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	Status         Status `json:"status"`
	Total          string `json:"total"`
	Currency       string `json:"currency" validate:"required,currency"`
}

// Confirmation is the server's answer to a successful booking submission.
type Confirmation struct {
	BookingID uuid.UUID `json:"bookingId"`
	Status    Status    `json:"status"`
}

// Booking is a committed booking as the server stores and lists it.
type Booking struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"userId" db:"user_id"`
	ExcursionID    uuid.UUID `json:"excursionId" db:"excursion_id"`
	TicketCategory string    `json:"ticketCategory" db:"category"`
	DateTime       string    `json:"dateTime" db:"date_key"`
	Quantity       int       `json:"quantity" db:"quantity"`
	Status         Status    `json:"status" db:"status"`
	Total          string    `json:"total"`
	Currency       string    `json:"currency" db:"currency"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
