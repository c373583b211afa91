package snapshotcache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/excursio/excursio-client/internal/domain/inventory"
)

type memoryEntry struct {
	inv       inventory.Inventory
	expiresAt time.Time
}

// Memory is an in-process cache with per-entry TTL. Safe for concurrent use.
type Memory struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[uuid.UUID]memoryEntry
}

// NewMemory creates an in-memory snapshot cache.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uuid.UUID]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, excursionID uuid.UUID) (inventory.Inventory, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[excursionID]
	if !ok {
		return nil, false
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, excursionID)
		return nil, false
	}
	return entry.inv, true
}

func (m *Memory) Set(_ context.Context, excursionID uuid.UUID, inv inventory.Inventory) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[excursionID] = memoryEntry{
		inv:       inv,
		expiresAt: m.now().Add(m.ttl),
	}
}

func (m *Memory) Invalidate(_ context.Context, excursionID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, excursionID)
}
