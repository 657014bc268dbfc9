package services

import (
	"context"
	"fmt"

	"galeri/internal/models"
	"galeri/internal/repositories"
)

// PreferenceService keeps each visitor's favorites and compare list.
type PreferenceService struct {
	repo repositories.PreferenceRepository
	cars *CarService
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(repo repositories.PreferenceRepository, cars *CarService) *PreferenceService {
	return &PreferenceService{repo: repo, cars: cars}
}

// ListIDs returns the ids stored in the visitor's list.
func (s *PreferenceService) ListIDs(ctx context.Context, visitorID string, kind models.ListKind) ([]string, error) {
	list, err := s.repo.Get(ctx, visitorID, kind)
	if err != nil {
		return nil, err
	}
	return []string(list.CarIDs), nil
}

// ListCars resolves the visitor's list to cars, dropping deleted listings.
func (s *PreferenceService) ListCars(ctx context.Context, visitorID string, kind models.ListKind) ([]models.Car, error) {
	ids, err := s.ListIDs(ctx, visitorID, kind)
	if err != nil {
		return nil, err
	}
	return s.cars.GetCarsByIDs(ctx, ids)
}

// Contains reports whether carID is in the visitor's list.
func (s *PreferenceService) Contains(ctx context.Context, visitorID string, kind models.ListKind, carID string) (bool, error) {
	list, err := s.repo.Get(ctx, visitorID, kind)
	if err != nil {
		return false, err
	}
	return list.Contains(carID), nil
}

// AddFavorite is idempotent.
func (s *PreferenceService) AddFavorite(ctx context.Context, visitorID, carID string) error {
	_, err := s.add(ctx, visitorID, models.ListFavorites, carID, 0)
	return err
}

// RemoveFavorite drops carID from favorites.
func (s *PreferenceService) RemoveFavorite(ctx context.Context, visitorID, carID string) error {
	return s.remove(ctx, visitorID, models.ListFavorites, carID)
}

// ToggleFavorite flips membership and reports whether the car is now a favorite.
func (s *PreferenceService) ToggleFavorite(ctx context.Context, visitorID, carID string) (bool, error) {
	return s.toggle(ctx, visitorID, models.ListFavorites, carID, 0)
}

// AddToCompare adds carID unless it is already listed or the list holds
// MaxCompare cars, and reports whether it was added.
func (s *PreferenceService) AddToCompare(ctx context.Context, visitorID, carID string) (bool, error) {
	return s.add(ctx, visitorID, models.ListCompare, carID, models.MaxCompare)
}

// RemoveFromCompare drops carID from the compare list.
func (s *PreferenceService) RemoveFromCompare(ctx context.Context, visitorID, carID string) error {
	return s.remove(ctx, visitorID, models.ListCompare, carID)
}

// ToggleCompare removes a listed car or adds it when there is room. It
// reports whether the car is in the list afterwards.
func (s *PreferenceService) ToggleCompare(ctx context.Context, visitorID, carID string) (bool, error) {
	return s.toggle(ctx, visitorID, models.ListCompare, carID, models.MaxCompare)
}

// ClearCompare empties the compare list.
func (s *PreferenceService) ClearCompare(ctx context.Context, visitorID string) error {
	return s.repo.Delete(ctx, visitorID, models.ListCompare)
}

func (s *PreferenceService) add(ctx context.Context, visitorID string, kind models.ListKind, carID string, limit int) (bool, error) {
	if carID == "" {
		return false, fieldError("carId", "Field 'carId' failed on the 'required' tag")
	}
	if _, err := s.cars.GetCarByID(ctx, carID); err != nil {
		return false, err
	}

	list, err := s.repo.Get(ctx, visitorID, kind)
	if err != nil {
		return false, err
	}
	if list.Contains(carID) {
		return false, nil
	}
	if limit > 0 && len(list.CarIDs) >= limit {
		return false, nil
	}
	list.CarIDs = append(list.CarIDs, carID)
	if err := s.repo.Save(ctx, list); err != nil {
		return false, fmt.Errorf("failed to save %s list: %w", kind, err)
	}
	return true, nil
}

func (s *PreferenceService) remove(ctx context.Context, visitorID string, kind models.ListKind, carID string) error {
	list, err := s.repo.Get(ctx, visitorID, kind)
	if err != nil {
		return err
	}
	if !list.Remove(carID) {
		return nil
	}
	if err := s.repo.Save(ctx, list); err != nil {
		return fmt.Errorf("failed to save %s list: %w", kind, err)
	}
	return nil
}

func (s *PreferenceService) toggle(ctx context.Context, visitorID string, kind models.ListKind, carID string, limit int) (bool, error) {
	list, err := s.repo.Get(ctx, visitorID, kind)
	if err != nil {
		return false, err
	}
	if list.Contains(carID) {
		return false, s.remove(ctx, visitorID, kind, carID)
	}
	return s.add(ctx, visitorID, kind, carID, limit)
}
