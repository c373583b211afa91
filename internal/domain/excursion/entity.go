package excursion

import (
	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/inventory"
)

// Excursion is a bookable offering with its normalized inventory snapshot.
// The snapshot is the client's possibly-stale copy: it is refreshed by
// re-fetching, never mutated locally.
type Excursion struct {
	ID          uuid.UUID
	Title       string
	Description string
	City        string
	Inventory   inventory.Inventory
}
