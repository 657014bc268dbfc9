package repositories

import (
	"context"

	"galeri/internal/models"
)

// CarRepository defines the interface for car data access.
type CarRepository interface {
	// GetAll returns every car, newest first.
	GetAll(ctx context.Context) ([]models.Car, error)
	// Find returns cars matching the equality query, newest first.
	Find(ctx context.Context, q models.CarQuery) ([]models.Car, error)
	// FindSold returns sold cars, most recently sold first.
	FindSold(ctx context.Context) ([]models.Car, error)
	GetByID(ctx context.Context, id string) (*models.Car, error)
	Create(ctx context.Context, car *models.Car) error
	Update(ctx context.Context, car *models.Car) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
