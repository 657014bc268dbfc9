package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"galeri/internal/models"
	"galeri/internal/repositories"
	"galeri/internal/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// FeaturedLimit caps the homepage showcase.
const FeaturedLimit = 6

// RecentCarsLimit is how many listings the dashboard shows.
const RecentCarsLimit = 5

// CarService handles business logic related to car listings.
type CarService struct {
	repo      repositories.CarRepository
	contacts  repositories.ContactRepository
	publisher EventPublisher
	validate  *validator.Validate
	log       *zap.Logger
	now       func() time.Time
}

// NewCarService creates a new CarService. publisher may be nil.
func NewCarService(repo repositories.CarRepository, contacts repositories.ContactRepository, publisher EventPublisher, log *zap.Logger) *CarService {
	return &CarService{
		repo:      repo,
		contacts:  contacts,
		publisher: publisher,
		validate:  validation.New(),
		log:       log,
		now:       time.Now,
	}
}

// GetAllCars retrieves every listing, newest first.
func (s *CarService) GetAllCars(ctx context.Context) ([]models.Car, error) {
	return s.repo.GetAll(ctx)
}

// GetFeaturedCars returns up to six featured cars that are still for sale.
func (s *CarService) GetFeaturedCars(ctx context.Context) ([]models.Car, error) {
	featured := true
	return s.repo.Find(ctx, models.CarQuery{
		Status:   models.StatusAvailable,
		Featured: &featured,
		Limit:    FeaturedLimit,
	})
}

// GetSoldCars returns sold cars, most recently sold first.
func (s *CarService) GetSoldCars(ctx context.Context) ([]models.Car, error) {
	return s.repo.FindSold(ctx)
}

// GetCarByID retrieves a single car.
func (s *CarService) GetCarByID(ctx context.Context, id string) (*models.Car, error) {
	return s.repo.GetByID(ctx, id)
}

// GetCarsByIDs loads cars in the given order, skipping ids that no longer exist.
func (s *CarService) GetCarsByIDs(ctx context.Context, ids []string) ([]models.Car, error) {
	cars := make([]models.Car, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		car, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cars = append(cars, *car)
	}
	return cars, nil
}

// CreateCar validates and stores a new listing.
func (s *CarService) CreateCar(ctx context.Context, car *models.Car) error {
	car.ID = ""
	car.CreatedAt = time.Time{}
	normalizeCar(car)
	if car.Status == models.StatusSold {
		now := s.now()
		car.SoldAt = &now
	} else {
		car.SoldAt = nil
	}

	if err := s.validate.Struct(car); err != nil {
		return newValidationError(err)
	}
	if err := s.repo.Create(ctx, car); err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}

	publishEvent(s.log, s.publisher, EventCarCreated, car.ID, car)
	return nil
}

// UpdateCar replaces the mutable fields of car id. The id and creation time
// are kept and the sold timestamp follows the status.
func (s *CarService) UpdateCar(ctx context.Context, id string, car *models.Car) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	normalizeCar(car)
	wasSold := existing.Status == models.StatusSold
	status := car.Status
	car.ID = existing.ID
	car.CreatedAt = existing.CreatedAt
	car.Status = existing.Status
	car.SoldAt = existing.SoldAt
	car.ApplyStatus(status, s.now())

	if err := s.validate.Struct(car); err != nil {
		return newValidationError(err)
	}
	if err := s.repo.Update(ctx, car); err != nil {
		return fmt.Errorf("failed to update car %s: %w", id, err)
	}

	publishEvent(s.log, s.publisher, EventCarUpdated, car.ID, car)
	if !wasSold && car.Status == models.StatusSold {
		publishEvent(s.log, s.publisher, EventCarSold, car.ID, car)
	}
	return nil
}

// UpdateCarStatus moves a car to status.
func (s *CarService) UpdateCarStatus(ctx context.Context, id string, status models.CarStatus) (*models.Car, error) {
	switch status {
	case models.StatusAvailable, models.StatusSold, models.StatusReserved:
	default:
		return nil, fieldError("status", fmt.Sprintf("Field 'status' has unknown value '%s'", status))
	}

	car, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car.Status == status {
		return car, nil
	}
	wasSold := car.Status == models.StatusSold
	car.ApplyStatus(status, s.now())
	if err := s.repo.Update(ctx, car); err != nil {
		return nil, fmt.Errorf("failed to update status of car %s: %w", id, err)
	}

	publishEvent(s.log, s.publisher, EventCarUpdated, car.ID, car)
	if !wasSold && status == models.StatusSold {
		publishEvent(s.log, s.publisher, EventCarSold, car.ID, car)
	}
	return car, nil
}

// DeleteCar removes a listing.
func (s *CarService) DeleteCar(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publishEvent(s.log, s.publisher, EventCarDeleted, id, nil)
	return nil
}

// GetUniqueBrands returns every brand in the inventory, sorted.
func (s *CarService) GetUniqueBrands(ctx context.Context) ([]string, error) {
	cars, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return uniqueSorted(cars, func(c *models.Car) (string, bool) {
		return c.Brand, true
	}), nil
}

// GetModelsByBrand returns the sorted models listed under brand.
func (s *CarService) GetModelsByBrand(ctx context.Context, brand string) ([]string, error) {
	cars, err := s.repo.Find(ctx, models.CarQuery{Brand: brand})
	if err != nil {
		return nil, err
	}
	return uniqueSorted(cars, func(c *models.Car) (string, bool) {
		return c.Model, c.Brand == brand
	}), nil
}

// BulkImport stores every valid entry. A failing entry is reported and
// the rest of the batch continues.
func (s *CarService) BulkImport(ctx context.Context, inputs []models.BulkCarInput) models.BulkResult {
	result := models.BulkResult{Errors: []string{}, IDs: []string{}}
	for i, in := range inputs {
		car, err := s.importOne(ctx, in)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("car #%d: %v", i+1, err))
			s.log.Debug("Bulk import entry rejected", zap.Int("index", i+1), zap.Error(err))
			continue
		}
		result.Success++
		result.IDs = append(result.IDs, car.ID)
	}
	s.log.Info("Bulk import finished", zap.Int("success", result.Success), zap.Int("failed", result.Failed))
	return result
}

func (s *CarService) importOne(ctx context.Context, in models.BulkCarInput) (*models.Car, error) {
	if in.Brand == "" || in.Model == "" || in.Year == 0 || in.Price == 0 {
		return nil, fmt.Errorf("%w: brand, model, year and price are required", ErrValidation)
	}
	car := in.ToCar()
	if err := s.CreateCar(ctx, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// DashboardStats summarises the inventory for the back-office.
func (s *CarService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	cars, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	contactCount, err := s.contacts.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalCars:    len(cars),
		ContactCount: int(contactCount),
	}
	for i := range cars {
		switch cars[i].Status {
		case models.StatusAvailable:
			stats.AvailableCars++
			stats.StockValue += cars[i].Price
		case models.StatusSold:
			stats.SoldCars++
		case models.StatusReserved:
			stats.ReservedCars++
		}
	}
	recent := cars
	if len(recent) > RecentCarsLimit {
		recent = recent[:RecentCarsLimit]
	}
	stats.RecentCars = recent
	return stats, nil
}

// normalizeCar fills the defaults a listing read from the store would get.
func normalizeCar(car *models.Car) {
	if car.FuelType == "" {
		car.FuelType = models.FuelPetrol
	}
	if car.TransmissionType == "" {
		car.TransmissionType = models.TransmissionManual
	}
	if car.Status == "" {
		car.Status = models.StatusAvailable
	}
	if car.Images == nil {
		car.Images = datatypes.JSONSlice[string]{}
	}
}

func uniqueSorted(cars []models.Car, key func(*models.Car) (string, bool)) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for i := range cars {
		v, ok := key(&cars[i])
		if !ok || v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
