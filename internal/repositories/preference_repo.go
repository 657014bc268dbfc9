package repositories

import (
	"context"

	"galeri/internal/models"
)

// PreferenceRepository stores per-visitor favorites and compare lists.
type PreferenceRepository interface {
	// Get returns the list, or an empty list when the visitor has none yet.
	Get(ctx context.Context, visitorID string, kind models.ListKind) (*models.VisitorList, error)
	Save(ctx context.Context, list *models.VisitorList) error
	Delete(ctx context.Context, visitorID string, kind models.ListKind) error
}
