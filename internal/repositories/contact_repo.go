package repositories

import (
	"context"

	"galeri/internal/models"
)

// ContactRepository defines the interface for inquiry data access.
type ContactRepository interface {
	GetAll(ctx context.Context) ([]models.Contact, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
