package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"galeri/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCarRepository is a GORM implementation of CarRepository.
type GORMCarRepository struct {
	db *gorm.DB
}

// NewGORMCarRepository creates a new instance of GORMCarRepository.
func NewGORMCarRepository(db *gorm.DB) *GORMCarRepository {
	return &GORMCarRepository{
		db: db,
	}
}

// GetAll retrieves all cars from the database, newest first.
func (r *GORMCarRepository) GetAll(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&cars).Error; err != nil {
		return nil, fmt.Errorf("failed to get all cars: %w", err)
	}
	return cars, nil
}

// Find retrieves the cars matching q, newest first.
func (r *GORMCarRepository) Find(ctx context.Context, q models.CarQuery) ([]models.Car, error) {
	tx := r.db.WithContext(ctx).Model(&models.Car{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Brand != "" {
		tx = tx.Where("brand = ?", q.Brand)
	}
	if q.FuelType != "" {
		tx = tx.Where("fuel_type = ?", q.FuelType)
	}
	if q.TransmissionType != "" {
		tx = tx.Where("transmission_type = ?", q.TransmissionType)
	}
	if q.Featured != nil {
		tx = tx.Where("featured = ?", *q.Featured)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var cars []models.Car
	if err := tx.Order("created_at desc").Find(&cars).Error; err != nil {
		return nil, fmt.Errorf("failed to query cars: %w", err)
	}
	return cars, nil
}

// FindSold retrieves sold cars, most recently sold first. Rows sold
// without a timestamp rank by their creation time.
func (r *GORMCarRepository) FindSold(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusSold).
		Order("COALESCE(sold_at, created_at) desc").
		Order("created_at desc").
		Find(&cars).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sold cars: %w", err)
	}
	return cars, nil
}

// GetByID retrieves a single car by its ID from the database.
func (r *GORMCarRepository) GetByID(ctx context.Context, id string) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).First(&car, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("car with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get car by ID %s: %w", id, err)
	}
	return &car, nil
}

// Create creates a new car in the database.
func (r *GORMCarRepository) Create(ctx context.Context, car *models.Car) error {
	if car.ID == "" {
		car.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(car).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("car with ID %s: %w", car.ID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// Update updates an existing car in the database.
func (r *GORMCarRepository) Update(ctx context.Context, car *models.Car) error {
	car.UpdatedAt = time.Now()
	// Save would insert a missing row, so the update is scoped to the id.
	res := r.db.WithContext(ctx).Model(&models.Car{}).
		Where("id = ?", car.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(car)
	if res.Error != nil {
		return fmt.Errorf("failed to update car: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("car with ID %s not found for update: %w", car.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a car by its ID from the database.
func (r *GORMCarRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Car{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete car: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("car with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of cars.
func (r *GORMCarRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Car{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}
	return n, nil
}
