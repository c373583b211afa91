// Package snapshotcache holds short-lived copies of excursion inventory
// snapshots. The cache is an optimization only: bookings always invalidate
// the entry, and the staleness re-check bypasses the cache entirely.
package snapshotcache

import (
	"context"

	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/inventory"
)

// Cache stores inventory snapshots keyed by excursion id.
type Cache interface {
	Get(ctx context.Context, excursionID uuid.UUID) (inventory.Inventory, bool)
	Set(ctx context.Context, excursionID uuid.UUID, inv inventory.Inventory)
	Invalidate(ctx context.Context, excursionID uuid.UUID)
}
