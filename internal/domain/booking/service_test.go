package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/excursion"
	"github.com/excursio/excursio-client/internal/domain/inventory"
)

type fakeClient struct {
	exc        *excursion.Excursion
	getErr     error
	getCalls   int
	createErr  error
	conf       *Confirmation
	lastCreate Request
}

func (c *fakeClient) GetExcursion(_ context.Context, _ uuid.UUID) (*excursion.Excursion, error) {
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.exc, nil
}

func (c *fakeClient) CreateBooking(_ context.Context, req Request) (*Confirmation, error) {
	c.lastCreate = req
	if c.createErr != nil {
		return nil, c.createErr
	}
	return c.conf, nil
}

type fakeCache struct {
	entries     map[uuid.UUID]inventory.Inventory
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[uuid.UUID]inventory.Inventory)}
}

func (c *fakeCache) Get(_ context.Context, id uuid.UUID) (inventory.Inventory, bool) {
	inv, ok := c.entries[id]
	return inv, ok
}

func (c *fakeCache) Set(_ context.Context, id uuid.UUID, inv inventory.Inventory) {
	c.entries[id] = inv
}

func (c *fakeCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.invalidated = append(c.invalidated, id)
	delete(c.entries, id)
}

func testExcursion() *excursion.Excursion {
	return &excursion.Excursion{
		ID:    uuid.New(),
		Title: "Обзорная экскурсия",
		Inventory: inventory.Inventory{
			"2025-05-15": {
				"Standard": {Count: 5, PriceMinor: 2000, Currency: "BYN"},
			},
		},
	}
}

func TestSnapshotUsesCache(t *testing.T) {
	exc := testExcursion()
	client := &fakeClient{exc: exc}
	cache := newFakeCache()
	svc := NewService(client, cache)

	if _, err := svc.Snapshot(context.Background(), exc.ID); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	if _, err := svc.Snapshot(context.Background(), exc.ID); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	if client.getCalls != 1 {
		t.Fatalf("expected a single fetch, got %d", client.getCalls)
	}
}

func TestFreshSnapshotBypassesCache(t *testing.T) {
	exc := testExcursion()
	client := &fakeClient{exc: exc}
	cache := newFakeCache()
	svc := NewService(client, cache)

	if _, err := svc.Snapshot(context.Background(), exc.ID); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := svc.FreshSnapshot(context.Background(), exc.ID); err != nil {
		t.Fatalf("fresh snapshot: %v", err)
	}

	if client.getCalls != 2 {
		t.Fatalf("expected two fetches, got %d", client.getCalls)
	}
}

func TestSubmitSuccessCompletesFlowAndInvalidatesCache(t *testing.T) {
	exc := testExcursion()
	conf := &Confirmation{BookingID: uuid.New(), Status: StatusPending}
	client := &fakeClient{exc: exc, conf: conf}
	cache := newFakeCache()
	svc := NewService(client, cache)
	userID := uuid.New()

	inv, err := svc.Snapshot(context.Background(), exc.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	f := NewFlow(inv)
	if err := f.Validate("2025-05-15", "Standard", 3); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := f.Confirm(context.Background(), nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	got, err := svc.Submit(context.Background(), userID, exc.ID, f)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.BookingID != conf.BookingID {
		t.Fatalf("unexpected confirmation: %+v", got)
	}
	if f.State() != StateSubmitted {
		t.Fatalf("expected Submitted, got %s", f.State())
	}
	if client.lastCreate.Total != "60.00" {
		t.Fatalf("expected payload total 60.00, got %s", client.lastCreate.Total)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != exc.ID {
		t.Fatalf("expected snapshot invalidation for %s, got %v", exc.ID, cache.invalidated)
	}
}

func TestSubmitRejectionReturnsFlowToSelecting(t *testing.T) {
	// Local validation passed, but the server knows better ("only 1 left").
	exc := testExcursion()
	remoteErr := errors.New("Доступно: 1 билетов")
	client := &fakeClient{exc: exc, createErr: remoteErr}
	svc := NewService(client, newFakeCache())

	inv, err := svc.Snapshot(context.Background(), exc.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	f := NewFlow(inv)
	if err := f.Validate("2025-05-15", "Standard", 2); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := f.Confirm(context.Background(), nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	_, err = svc.Submit(context.Background(), uuid.New(), exc.ID, f)
	if !errors.Is(err, remoteErr) {
		t.Fatalf("expected the server error passed through, got %v", err)
	}
	if f.State() != StateSelecting {
		t.Fatalf("expected flow back in Selecting, got %s", f.State())
	}
}

func TestSubmitRequiresConfirmingState(t *testing.T) {
	exc := testExcursion()
	svc := NewService(&fakeClient{exc: exc}, nil)

	f := NewFlow(exc.Inventory)
	if _, err := svc.Submit(context.Background(), uuid.New(), exc.ID, f); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}
