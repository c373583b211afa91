package excursion

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/inventory"
	"github.com/excursio/excursio-client/internal/pkg/validator"
)

// DTO is the wire shape of an excursion as served by the Booking API.
type DTO struct {
	ID                     string                `json:"id" validate:"required,uuid"`
	Title                  string                `json:"title" validate:"required"`
	Description            string                `json:"description"`
	City                   string                `json:"city"`
	AvailableTicketsByDate inventory.SnapshotDTO `json:"availableTicketsByDate"`
}

// FromDTO validates a wire excursion and normalizes its inventory snapshot.
func FromDTO(dto DTO) (*Excursion, error) {
	if details := validator.Validate(&dto); details != nil {
		return nil, fmt.Errorf("invalid excursion payload: %v", details)
	}

	id, err := uuid.Parse(dto.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid excursion id %q: %w", dto.ID, err)
	}

	inv, err := inventory.Normalize(dto.AvailableTicketsByDate)
	if err != nil {
		return nil, fmt.Errorf("excursion %s: %w", dto.ID, err)
	}

	return &Excursion{
		ID:          id,
		Title:       dto.Title,
		Description: dto.Description,
		City:        dto.City,
		Inventory:   inv,
	}, nil
}

// ToDTO renders an excursion back into its wire shape. Used by the dev API
// server, which speaks the same contract the client consumes.
func ToDTO(e *Excursion) DTO {
	snapshot := make(inventory.SnapshotDTO, len(e.Inventory))
	for dateKey, categories := range e.Inventory {
		slots := make(map[string]inventory.SlotDTO, len(categories))
		for category, slot := range categories {
			slots[category] = inventory.SlotDTO{
				Count:    slot.Count,
				Price:    jsonNumber(slot.PriceMinor),
				Currency: slot.Currency,
			}
		}
		snapshot[dateKey] = slots
	}

	return DTO{
		ID:                     e.ID.String(),
		Title:                  e.Title,
		Description:            e.Description,
		City:                   e.City,
		AvailableTicketsByDate: snapshot,
	}
}

func jsonNumber(priceMinor int64) json.Number {
	return json.Number(inventory.FormatPrice(priceMinor))
}
