package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"galeri/internal/models"

	"github.com/google/uuid"
)

// MemoryContactRepository is an in-memory implementation of ContactRepository.
type MemoryContactRepository struct {
	contacts map[string]models.Contact
	mu       sync.RWMutex
}

// NewMemoryContactRepository creates a new instance of MemoryContactRepository.
func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{
		contacts: make(map[string]models.Contact),
	}
}

// GetAll returns all contacts, newest first.
func (r *MemoryContactRepository) GetAll(_ context.Context) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contactList := make([]models.Contact, 0, len(r.contacts))
	for _, contact := range r.contacts {
		contactList = append(contactList, contact)
	}
	sort.SliceStable(contactList, func(i, j int) bool {
		return contactList[i].CreatedAt.After(contactList[j].CreatedAt)
	})
	return contactList, nil
}

// GetByID returns a contact by its ID.
func (r *MemoryContactRepository) GetByID(_ context.Context, id string) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contact, ok := r.contacts[id]
	if !ok {
		return nil, fmt.Errorf("contact with ID %s: %w", id, ErrNotFound)
	}
	return &contact, nil
}

// Create adds a new contact.
func (r *MemoryContactRepository) Create(_ context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
	}
	r.contacts[contact.ID] = *contact
	return nil
}

// Delete removes a contact.
func (r *MemoryContactRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contacts[id]; !ok {
		return fmt.Errorf("contact with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.contacts, id)
	return nil
}

// Count returns the number of stored contacts.
func (r *MemoryContactRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.contacts)), nil
}
