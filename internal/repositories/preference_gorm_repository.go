package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"galeri/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPreferenceRepository is a GORM implementation of PreferenceRepository.
type GORMPreferenceRepository struct {
	db *gorm.DB
}

// NewGORMPreferenceRepository creates a new instance of GORMPreferenceRepository.
func NewGORMPreferenceRepository(db *gorm.DB) *GORMPreferenceRepository {
	return &GORMPreferenceRepository{db: db}
}

// Get loads a visitor list, returning an empty list when none is stored.
func (r *GORMPreferenceRepository) Get(ctx context.Context, visitorID string, kind models.ListKind) (*models.VisitorList, error) {
	var list models.VisitorList
	err := r.db.WithContext(ctx).First(&list, "visitor_id = ? AND kind = ?", visitorID, kind).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.VisitorList{VisitorID: visitorID, Kind: kind, CarIDs: datatypes.JSONSlice[string]{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s list for visitor %s: %w", kind, visitorID, err)
	}
	return &list, nil
}

// Save upserts the list.
func (r *GORMPreferenceRepository) Save(ctx context.Context, list *models.VisitorList) error {
	list.UpdatedAt = time.Now()
	if list.CarIDs == nil {
		list.CarIDs = datatypes.JSONSlice[string]{}
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "visitor_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"car_ids", "updated_at"}),
	}).Create(list).Error
	if err != nil {
		return fmt.Errorf("failed to save %s list for visitor %s: %w", list.Kind, list.VisitorID, err)
	}
	return nil
}

// Delete removes the list.
func (r *GORMPreferenceRepository) Delete(ctx context.Context, visitorID string, kind models.ListKind) error {
	err := r.db.WithContext(ctx).Delete(&models.VisitorList{}, "visitor_id = ? AND kind = ?", visitorID, kind).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s list for visitor %s: %w", kind, visitorID, err)
	}
	return nil
}
