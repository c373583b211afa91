package devapi

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/booking"
	"github.com/excursio/excursio-client/internal/domain/excursion"
	"github.com/excursio/excursio-client/internal/domain/inventory"
)

// MemoryStore is the default dev store: everything lives in process memory
// under one mutex, which is plenty for a development server and makes the
// check-and-decrement trivially atomic.
type MemoryStore struct {
	mu         sync.Mutex
	excursions map[uuid.UUID]*excursion.Excursion
	bookings   []booking.Booking
	now        func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		excursions: make(map[uuid.UUID]*excursion.Excursion),
		now:        time.Now,
	}
}

func (s *MemoryStore) PutExcursion(_ context.Context, exc *excursion.Excursion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.excursions[exc.ID] = cloneExcursion(exc)
	return nil
}

func (s *MemoryStore) ListExcursions(_ context.Context) ([]*excursion.Excursion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*excursion.Excursion, 0, len(s.excursions))
	for _, exc := range s.excursions {
		out = append(out, cloneExcursion(exc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *MemoryStore) GetExcursion(_ context.Context, id uuid.UUID) (*excursion.Excursion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exc, ok := s.excursions[id]
	if !ok {
		return nil, ErrExcursionNotFound
	}
	return cloneExcursion(exc), nil
}

func (s *MemoryStore) CreateBooking(_ context.Context, req booking.Request) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	excursionID, err := uuid.Parse(req.ExcursionID)
	if err != nil {
		return nil, requestErrorf("invalid excursion id: %v", err)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, requestErrorf("invalid user id: %v", err)
	}

	exc, ok := s.excursions[excursionID]
	if !ok {
		return nil, ErrExcursionNotFound
	}

	slot, ok := exc.Inventory.Slot(req.DateTime, req.TicketCategory)
	if !ok {
		return nil, &InsufficientError{Available: 0}
	}
	if slot.Count < req.Quantity {
		return nil, &InsufficientError{Available: slot.Count}
	}

	// The server recomputes the total; a stale client price is a rejection.
	total := slot.PriceMinor * int64(req.Quantity)
	if req.Total != inventory.FormatPrice(total) || req.Currency != slot.Currency {
		return nil, requestErrorf("total mismatch: expected %s %s", inventory.FormatPrice(total), slot.Currency)
	}

	slot.Count -= req.Quantity
	exc.Inventory[req.DateTime][req.TicketCategory] = slot

	record := booking.Booking{
		ID:             uuid.New(),
		UserID:         userID,
		ExcursionID:    excursionID,
		TicketCategory: req.TicketCategory,
		DateTime:       req.DateTime,
		Quantity:       req.Quantity,
		Status:         booking.StatusPending,
		Total:          inventory.FormatPrice(total),
		Currency:       slot.Currency,
		CreatedAt:      s.now(),
	}
	s.bookings = append(s.bookings, record)
	return &record, nil
}

func (s *MemoryStore) ListBookings(_ context.Context, userID uuid.UUID) ([]booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []booking.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func cloneExcursion(exc *excursion.Excursion) *excursion.Excursion {
	clone := *exc
	clone.Inventory = make(inventory.Inventory, len(exc.Inventory))
	for dateKey, categories := range exc.Inventory {
		slots := make(map[string]inventory.TicketSlot, len(categories))
		for category, slot := range categories {
			slots[category] = slot
		}
		clone.Inventory[dateKey] = slots
	}
	return &clone
}
