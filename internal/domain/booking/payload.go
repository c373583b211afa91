package booking

import (
	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/inventory"
)

// BuildPayload turns a validated selection into the booking request wire
// payload. Pure transformation: no I/O, no snapshot mutation.
func BuildPayload(userID, excursionID uuid.UUID, sel inventory.Selection) Request {
	return Request{
		UserID:         userID.String(),
		ExcursionID:    excursionID.String(),
		TicketCategory: sel.Category,
		DateTime:       sel.DateKey,
		Quantity:       sel.Quantity,
		Status:         StatusPending,
		Total:          inventory.FormatPrice(sel.TotalMinor()),
		Currency:       sel.Currency,
	}
}
