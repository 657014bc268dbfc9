package services

import (
	"context"
	"sort"

	"galeri/internal/models"
)

type carPredicate func(*models.Car) bool

// FilterCars returns available cars matching opts. Equality filters run in
// the store. Range and model filters run here and zero bounds are ignored.
func (s *CarService) FilterCars(ctx context.Context, opts models.FilterOptions) ([]models.Car, error) {
	if err := s.validate.Struct(opts); err != nil {
		return nil, newValidationError(err)
	}

	cars, err := s.repo.Find(ctx, models.CarQuery{
		Status:           models.StatusAvailable,
		Brand:            opts.Brand,
		FuelType:         opts.FuelType,
		TransmissionType: opts.TransmissionType,
	})
	if err != nil {
		return nil, err
	}

	predicates := filterPredicates(opts)
	filtered := cars[:0]
	for i := range cars {
		if matchesAll(&cars[i], predicates) {
			filtered = append(filtered, cars[i])
		}
	}

	sortCars(filtered, opts.SortBy)
	return filtered, nil
}

func filterPredicates(opts models.FilterOptions) []carPredicate {
	var ps []carPredicate
	if opts.MinYear > 0 {
		ps = append(ps, func(c *models.Car) bool { return c.Year >= opts.MinYear })
	}
	if opts.MaxYear > 0 {
		ps = append(ps, func(c *models.Car) bool { return c.Year <= opts.MaxYear })
	}
	if opts.MinPrice > 0 {
		ps = append(ps, func(c *models.Car) bool { return c.Price >= opts.MinPrice })
	}
	if opts.MaxPrice > 0 {
		ps = append(ps, func(c *models.Car) bool { return c.Price <= opts.MaxPrice })
	}
	if opts.MinKm > 0 {
		ps = append(ps, func(c *models.Car) bool { return c.Km >= opts.MinKm })
	}
	if opts.MaxKm > 0 {
		ps = append(ps, func(c *models.Car) bool { return c.Km <= opts.MaxKm })
	}
	if opts.Model != "" {
		ps = append(ps, func(c *models.Car) bool { return c.Model == opts.Model })
	}
	return ps
}

func matchesAll(car *models.Car, ps []carPredicate) bool {
	for _, p := range ps {
		if !p(car) {
			return false
		}
	}
	return true
}

// sortCars orders in place. Ties keep the newest-first store order.
func sortCars(cars []models.Car, by models.SortOption) {
	var less func(a, b *models.Car) bool
	switch by {
	case models.SortPriceAsc:
		less = func(a, b *models.Car) bool { return a.Price < b.Price }
	case models.SortPriceDesc:
		less = func(a, b *models.Car) bool { return a.Price > b.Price }
	case models.SortYearAsc:
		less = func(a, b *models.Car) bool { return a.Year < b.Year }
	case models.SortYearDesc:
		less = func(a, b *models.Car) bool { return a.Year > b.Year }
	case models.SortKmAsc:
		less = func(a, b *models.Car) bool { return a.Km < b.Km }
	case models.SortKmDesc:
		less = func(a, b *models.Car) bool { return a.Km > b.Km }
	default:
		return
	}
	sort.SliceStable(cars, func(i, j int) bool { return less(&cars[i], &cars[j]) })
}
