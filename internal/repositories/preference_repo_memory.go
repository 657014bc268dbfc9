package repositories

import (
	"context"
	"sync"
	"time"

	"galeri/internal/models"
)

type listKey struct {
	visitor string
	kind    models.ListKind
}

// MemoryPreferenceRepository keeps visitor lists in process memory.
type MemoryPreferenceRepository struct {
	lists map[listKey][]string
	mu    sync.RWMutex
}

// NewMemoryPreferenceRepository creates a new instance of MemoryPreferenceRepository.
func NewMemoryPreferenceRepository() *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{
		lists: make(map[listKey][]string),
	}
}

// Get returns a copy of the stored list, or an empty one.
func (r *MemoryPreferenceRepository) Get(_ context.Context, visitorID string, kind models.ListKind) (*models.VisitorList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.lists[listKey{visitorID, kind}]
	out := make([]string, len(ids))
	copy(out, ids)
	return &models.VisitorList{VisitorID: visitorID, Kind: kind, CarIDs: out}, nil
}

// Save stores the list.
func (r *MemoryPreferenceRepository) Save(_ context.Context, list *models.VisitorList) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(list.CarIDs))
	copy(ids, list.CarIDs)
	list.UpdatedAt = time.Now()
	r.lists[listKey{list.VisitorID, list.Kind}] = ids
	return nil
}

// Delete clears the list.
func (r *MemoryPreferenceRepository) Delete(_ context.Context, visitorID string, kind models.ListKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.lists, listKey{visitorID, kind})
	return nil
}
