package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"galeri/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CarsCollection is the collection holding car listings.
const CarsCollection = "cars"

// MongoCarRepository is a MongoDB implementation of CarRepository.
type MongoCarRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoCarRepository creates a new instance of MongoCarRepository.
func NewMongoCarRepository(db *mongo.Database) *MongoCarRepository {
	return &MongoCarRepository{
		coll:    db.Collection(CarsCollection),
		timeout: defaultMongoTimeout,
	}
}

// EnsureIndexes creates the indexes the listing queries rely on.
func (r *MongoCarRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "brand", Value: 1}}},
		{Keys: bson.D{{Key: "soldAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create car indexes: %w", err)
	}
	return nil
}

// GetAll retrieves all cars, newest first.
func (r *MongoCarRepository) GetAll(ctx context.Context) ([]models.Car, error) {
	return r.Find(ctx, models.CarQuery{})
}

// Find retrieves cars matching q, newest first.
func (r *MongoCarRepository) Find(ctx context.Context, q models.CarQuery) ([]models.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := r.coll.Find(ctx, carQueryFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query cars: %w", err)
	}
	cars, err := decodeAll(ctx, cur, carFromDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, nil
}

// FindSold retrieves sold cars, most recently sold first. Documents
// without soldAt rank by createdAt.
func (r *MongoCarRepository) FindSold(ctx context.Context) ([]models.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.StatusSold}}},
		{{Key: "$addFields", Value: bson.M{"_soldSort": bson.M{"$ifNull": bson.A{"$soldAt", "$createdAt"}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_soldSort", Value: -1}, {Key: "createdAt", Value: -1}}}},
		{{Key: "$project", Value: bson.M{"_soldSort": 0}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query sold cars: %w", err)
	}
	cars, err := decodeAll(ctx, cur, carFromDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sold cars: %w", err)
	}
	return cars, nil
}

// GetByID retrieves a single car.
func (r *MongoCarRepository) GetByID(ctx context.Context, id string) (*models.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc bson.M
	if err := r.coll.FindOne(ctx, idFilter(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("car with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get car by ID %s: %w", id, err)
	}
	car := carFromDocument(doc)
	return &car, nil
}

// Create inserts a new car.
func (r *MongoCarRepository) Create(ctx context.Context, car *models.Car) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if car.ID == "" {
		car.ID = uuid.New().String()
	}
	now := time.Now()
	if car.CreatedAt.IsZero() {
		car.CreatedAt = now
	}
	car.UpdatedAt = now

	doc := carSetDocument(car)
	doc["_id"] = car.ID
	if car.SoldAt == nil {
		delete(doc, "soldAt")
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("car with ID %s: %w", car.ID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// Update overwrites every mutable field of an existing car.
func (r *MongoCarRepository) Update(ctx context.Context, car *models.Car) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	car.UpdatedAt = time.Now()
	res, err := r.coll.UpdateOne(ctx, idFilter(car.ID), bson.M{"$set": carSetDocument(car)})
	if err != nil {
		return fmt.Errorf("failed to update car: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("car with ID %s not found for update: %w", car.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a car.
func (r *MongoCarRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("car with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of cars.
func (r *MongoCarRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}
	return n, nil
}

func carQueryFilter(q models.CarQuery) bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Brand != "" {
		filter["brand"] = q.Brand
	}
	if q.FuelType != "" {
		filter["fuelType"] = q.FuelType
	}
	if q.TransmissionType != "" {
		filter["transmissionType"] = q.TransmissionType
	}
	if q.Featured != nil {
		filter["featured"] = *q.Featured
	}
	return filter
}
