package inventory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/excursio/excursio-client/internal/pkg/validator"
)

// SlotDTO is the wire shape of one inventory slot. Field matching during
// JSON decoding is case-insensitive, which absorbs the casing drift the
// backend exhibits across endpoints ("count" vs "Count" and so on).
type SlotDTO struct {
	Count    int         `json:"count" validate:"min=0"`
	Price    json.Number `json:"price"`
	Currency string      `json:"currency" validate:"required,currency"`
}

// SnapshotDTO is the wire shape of availableTicketsByDate.
type SnapshotDTO map[string]map[string]SlotDTO

// Normalize validates a wire snapshot and converts it into the canonical
// Inventory type. This is the single place raw snapshots are interpreted;
// everything past this boundary works with normalized data.
func Normalize(raw SnapshotDTO) (Inventory, error) {
	inv := make(Inventory, len(raw))

	for dateKey, categories := range raw {
		if _, err := time.Parse("2006-01-02", dateKey); err != nil {
			return nil, fmt.Errorf("%w: invalid date key %q", ErrMalformedSnapshot, dateKey)
		}

		slots := make(map[string]TicketSlot, len(categories))
		for category, dto := range categories {
			if category == "" {
				return nil, fmt.Errorf("%w: empty category under %s", ErrMalformedSnapshot, dateKey)
			}
			if details := validator.Validate(&dto); details != nil {
				return nil, fmt.Errorf("%w: slot %s/%s: %v", ErrMalformedSnapshot, dateKey, category, details)
			}

			priceMinor, err := ParsePrice(dto.Price.String())
			if err != nil {
				return nil, fmt.Errorf("%w: slot %s/%s: %v", ErrMalformedSnapshot, dateKey, category, err)
			}

			slots[category] = TicketSlot{
				Count:      dto.Count,
				PriceMinor: priceMinor,
				Currency:   dto.Currency,
			}
		}
		inv[dateKey] = slots
	}

	return inv, nil
}
