package blueprintrepo

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
)

// MemoryRepository keeps archived blueprints in process memory for tests/dev.
// Once maxEntries is reached the oldest archived blueprint is dropped.
type MemoryRepository struct {
	mu         sync.RWMutex
	maxEntries int
	items      map[uuid.UUID]blueprint.Blueprint
	order      []uuid.UUID
}

// NewMemoryRepository constructs an empty archive. maxEntries <= 0 disables the bound.
func NewMemoryRepository(maxEntries int) *MemoryRepository {
	return &MemoryRepository{
		maxEntries: maxEntries,
		items:      make(map[uuid.UUID]blueprint.Blueprint),
	}
}

// Save implements blueprint.Archive. Saving an existing ID keeps the first copy.
func (r *MemoryRepository) Save(_ context.Context, bp blueprint.Blueprint) error {
	id, err := uuid.Parse(bp.ID)
	if err != nil {
		return fmt.Errorf("archive blueprint: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; ok {
		return nil
	}
	if r.maxEntries > 0 {
		for len(r.order) >= r.maxEntries {
			delete(r.items, r.order[0])
			r.order = r.order[1:]
		}
	}
	r.items[id] = bp
	r.order = append(r.order, id)
	return nil
}

// Find implements blueprint.Archive.
func (r *MemoryRepository) Find(_ context.Context, id uuid.UUID) (blueprint.Blueprint, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bp, ok := r.items[id]
	return bp, ok, nil
}

// Len reports how many blueprints are archived.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

var _ blueprint.Archive = (*MemoryRepository)(nil)
