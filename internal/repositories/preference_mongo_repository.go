package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"galeri/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VisitorListsCollection holds favorites and compare lists.
const VisitorListsCollection = "visitor_lists"

// MongoPreferenceRepository is a MongoDB implementation of PreferenceRepository.
type MongoPreferenceRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoPreferenceRepository creates a new instance of MongoPreferenceRepository.
func NewMongoPreferenceRepository(db *mongo.Database) *MongoPreferenceRepository {
	return &MongoPreferenceRepository{
		coll:    db.Collection(VisitorListsCollection),
		timeout: defaultMongoTimeout,
	}
}

// EnsureIndexes makes (visitorId, kind) unique.
func (r *MongoPreferenceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "visitorId", Value: 1}, {Key: "kind", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create visitor list indexes: %w", err)
	}
	return nil
}

// Get loads a visitor list, returning an empty list when none is stored.
func (r *MongoPreferenceRepository) Get(ctx context.Context, visitorID string, kind models.ListKind) (*models.VisitorList, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{"visitorId": visitorID, "kind": kind}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.VisitorList{VisitorID: visitorID, Kind: kind, CarIDs: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s list for visitor %s: %w", kind, visitorID, err)
	}
	return &models.VisitorList{
		VisitorID: visitorID,
		Kind:      kind,
		CarIDs:    toStringSlice(doc["carIds"]),
		UpdatedAt: toTime(doc["updatedAt"], time.Time{}),
	}, nil
}

// Save upserts the list.
func (r *MongoPreferenceRepository) Save(ctx context.Context, list *models.VisitorList) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	list.UpdatedAt = time.Now()
	ids := []string(list.CarIDs)
	if ids == nil {
		ids = []string{}
	}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"visitorId": list.VisitorID, "kind": list.Kind},
		bson.M{"$set": bson.M{"carIds": ids, "updatedAt": list.UpdatedAt}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s list for visitor %s: %w", list.Kind, list.VisitorID, err)
	}
	return nil
}

// Delete removes the list.
func (r *MongoPreferenceRepository) Delete(ctx context.Context, visitorID string, kind models.ListKind) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"visitorId": visitorID, "kind": kind}); err != nil {
		return fmt.Errorf("failed to delete %s list for visitor %s: %w", kind, visitorID, err)
	}
	return nil
}
