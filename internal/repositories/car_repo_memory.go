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

// MemoryCarRepository is an in-memory implementation of CarRepository.
type MemoryCarRepository struct {
	cars map[string]models.Car
	mu   sync.RWMutex
}

// NewMemoryCarRepository creates a new instance of MemoryCarRepository.
func NewMemoryCarRepository() *MemoryCarRepository {
	return &MemoryCarRepository{
		cars: make(map[string]models.Car),
	}
}

// GetAll returns all cars, newest first.
func (r *MemoryCarRepository) GetAll(ctx context.Context) ([]models.Car, error) {
	return r.Find(ctx, models.CarQuery{})
}

// Find returns cars matching q, newest first.
func (r *MemoryCarRepository) Find(_ context.Context, q models.CarQuery) ([]models.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	carList := make([]models.Car, 0, len(r.cars))
	for _, car := range r.cars {
		if matchesQuery(&car, q) {
			carList = append(carList, cloneCar(car))
		}
	}
	sort.SliceStable(carList, func(i, j int) bool {
		return carList[i].CreatedAt.After(carList[j].CreatedAt)
	})
	if q.Limit > 0 && len(carList) > q.Limit {
		carList = carList[:q.Limit]
	}
	return carList, nil
}

// FindSold returns sold cars, most recently sold first.
func (r *MemoryCarRepository) FindSold(_ context.Context) ([]models.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	carList := make([]models.Car, 0)
	for _, car := range r.cars {
		if car.Status == models.StatusSold {
			carList = append(carList, cloneCar(car))
		}
	}
	sort.SliceStable(carList, func(i, j int) bool {
		return soldTime(&carList[i]).After(soldTime(&carList[j]))
	})
	return carList, nil
}

// GetByID returns a car by its ID.
func (r *MemoryCarRepository) GetByID(_ context.Context, id string) (*models.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	car, ok := r.cars[id]
	if !ok {
		return nil, fmt.Errorf("car with ID %s: %w", id, ErrNotFound)
	}
	car = cloneCar(car)
	return &car, nil
}

// Create adds a new car.
func (r *MemoryCarRepository) Create(_ context.Context, car *models.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if car.ID == "" {
		car.ID = uuid.New().String()
	}
	if _, exists := r.cars[car.ID]; exists {
		return fmt.Errorf("car with ID %s: %w", car.ID, ErrDuplicate)
	}
	now := time.Now()
	if car.CreatedAt.IsZero() {
		car.CreatedAt = now
	}
	car.UpdatedAt = now
	r.cars[car.ID] = cloneCar(*car)
	return nil
}

// Update replaces an existing car.
func (r *MemoryCarRepository) Update(_ context.Context, car *models.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cars[car.ID]; !ok {
		return fmt.Errorf("car with ID %s not found for update: %w", car.ID, ErrNotFound)
	}
	car.UpdatedAt = time.Now()
	r.cars[car.ID] = cloneCar(*car)
	return nil
}

// Delete removes a car by its ID.
func (r *MemoryCarRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cars[id]; !ok {
		return fmt.Errorf("car with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.cars, id)
	return nil
}

// Count returns the number of stored cars.
func (r *MemoryCarRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.cars)), nil
}

func matchesQuery(car *models.Car, q models.CarQuery) bool {
	if q.Status != "" && car.Status != q.Status {
		return false
	}
	if q.Brand != "" && car.Brand != q.Brand {
		return false
	}
	if q.FuelType != "" && string(car.FuelType) != q.FuelType {
		return false
	}
	if q.TransmissionType != "" && string(car.TransmissionType) != q.TransmissionType {
		return false
	}
	if q.Featured != nil && car.Featured != *q.Featured {
		return false
	}
	return true
}

// cloneCar copies the image slice so callers cannot mutate stored state.
func cloneCar(car models.Car) models.Car {
	if car.Images != nil {
		images := make([]string, len(car.Images))
		copy(images, car.Images)
		car.Images = images
	}
	if car.SoldAt != nil {
		t := *car.SoldAt
		car.SoldAt = &t
	}
	return car
}

func soldTime(car *models.Car) time.Time {
	if car.SoldAt != nil {
		return *car.SoldAt
	}
	return car.CreatedAt
}
