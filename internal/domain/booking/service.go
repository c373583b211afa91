package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/excursio/excursio-client/internal/domain/excursion"
	"github.com/excursio/excursio-client/internal/domain/inventory"
	"github.com/excursio/excursio-client/internal/pkg/snapshotcache"
)

// Client is the outbound Booking API surface the service depends on.
// Implemented by bookingapi.Client; faked in tests.
type Client interface {
	GetExcursion(ctx context.Context, id uuid.UUID) (*excursion.Excursion, error)
	CreateBooking(ctx context.Context, req Request) (*Confirmation, error)
}

// Service orchestrates the booking flow over the API client and the snapshot
// cache. The cache is optional.
type Service struct {
	client Client
	cache  snapshotcache.Cache
}

// NewService creates a booking service.
func NewService(client Client, cache snapshotcache.Cache) *Service {
	return &Service{client: client, cache: cache}
}

// Excursion fetches the excursion and caches its inventory snapshot.
func (s *Service) Excursion(ctx context.Context, id uuid.UUID) (*excursion.Excursion, error) {
	exc, err := s.client.GetExcursion(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, id, exc.Inventory)
	}
	return exc, nil
}

// Snapshot returns the inventory snapshot for the excursion, from cache when
// fresh enough, otherwise fetched.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (inventory.Inventory, error) {
	if s.cache != nil {
		if inv, ok := s.cache.Get(ctx, id); ok {
			return inv, nil
		}
	}
	exc, err := s.Excursion(ctx, id)
	if err != nil {
		return nil, err
	}
	return exc.Inventory, nil
}

// FreshSnapshot re-fetches the snapshot, bypassing the cache. This is the
// RefreshFunc used for the staleness re-check before confirmation.
func (s *Service) FreshSnapshot(ctx context.Context, id uuid.UUID) (inventory.Inventory, error) {
	exc, err := s.Excursion(ctx, id)
	if err != nil {
		return nil, err
	}
	return exc.Inventory, nil
}

// Submit sends the confirmed selection to the Booking API. On success the
// flow completes and the cached snapshot is invalidated (it is stale now).
// On any API failure the flow returns to Selecting and the error is passed
// through for the caller to surface verbatim.
func (s *Service) Submit(ctx context.Context, userID, excursionID uuid.UUID, f *Flow) (*Confirmation, error) {
	if f.State() != StateConfirming {
		return nil, fmt.Errorf("%w: cannot submit from %s", ErrIllegalTransition, f.State())
	}

	sel, _ := f.Selection()
	req := BuildPayload(userID, excursionID, sel)

	conf, err := s.client.CreateBooking(ctx, req)
	if err != nil {
		f.reject()
		return nil, err
	}

	if err := f.markSubmitted(); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, excursionID)
	}

	log.Info().
		Str("booking_id", conf.BookingID.String()).
		Str("excursion_id", excursionID.String()).
		Str("date", sel.DateKey).
		Str("category", sel.Category).
		Int("quantity", sel.Quantity).
		Str("total", req.Total).
		Msg("booking submitted")

	return conf, nil
}
