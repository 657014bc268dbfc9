package repositories

import (
	"context"
	"time"

	"galeri/internal/models"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultMongoTimeout bounds every single store round-trip.
const defaultMongoTimeout = 10 * time.Second

// Documents written by other tools may use ObjectID ids and loosely typed
// fields, so reads go through bson.M and are coerced into the model.

func docID(v interface{}) string {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return cast.ToString(v)
}

// idFilter matches both string ids and their ObjectID form.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

func toTime(v interface{}, fallback time.Time) time.Time {
	switch t := v.(type) {
	case nil:
		return fallback
	case primitive.DateTime:
		return t.Time()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0)
	case time.Time:
		return t
	}
	if parsed, err := cast.ToTimeE(v); err == nil && !parsed.IsZero() {
		return parsed
	}
	return fallback
}

func toStringSlice(v interface{}) []string {
	if a, ok := v.(primitive.A); ok {
		v = []interface{}(a)
	}
	out := cast.ToStringSlice(v)
	if out == nil {
		return []string{}
	}
	return out
}

func oneOf[T ~string](v interface{}, allowed []T, fallback T) T {
	s := T(cast.ToString(v))
	for _, a := range allowed {
		if a == s {
			return s
		}
	}
	return fallback
}

// carFromDocument coerces a raw cars document into a Car.
func carFromDocument(doc bson.M) models.Car {
	now := time.Now()
	car := models.Car{
		ID:               docID(doc["_id"]),
		Brand:            cast.ToString(doc["brand"]),
		Model:            cast.ToString(doc["model"]),
		Year:             cast.ToInt(doc["year"]),
		Price:            cast.ToFloat64(doc["price"]),
		Km:               cast.ToInt(doc["km"]),
		FuelType:         oneOf(doc["fuelType"], models.FuelTypes, models.FuelPetrol),
		TransmissionType: oneOf(doc["transmissionType"], models.TransmissionTypes, models.TransmissionManual),
		Color:            cast.ToString(doc["color"]),
		Description:      cast.ToString(doc["description"]),
		Images:           toStringSlice(doc["images"]),
		Status: oneOf(doc["status"],
			[]models.CarStatus{models.StatusAvailable, models.StatusSold, models.StatusReserved},
			models.StatusAvailable),
		Featured:  cast.ToBool(doc["featured"]),
		CreatedAt: toTime(doc["createdAt"], now),
		UpdatedAt: toTime(doc["updatedAt"], now),
	}
	if v, ok := doc["soldAt"]; ok && v != nil {
		soldAt := toTime(v, time.Time{})
		if !soldAt.IsZero() {
			car.SoldAt = &soldAt
		}
	}
	return car
}

// carSetDocument is the $set body for a car update. The id is never written.
func carSetDocument(car *models.Car) bson.M {
	images := []string(car.Images)
	if images == nil {
		images = []string{}
	}
	set := bson.M{
		"brand":            car.Brand,
		"model":            car.Model,
		"year":             car.Year,
		"price":            car.Price,
		"km":               car.Km,
		"fuelType":         car.FuelType,
		"transmissionType": car.TransmissionType,
		"color":            car.Color,
		"description":      car.Description,
		"images":           images,
		"status":           car.Status,
		"featured":         car.Featured,
		"createdAt":        car.CreatedAt,
		"updatedAt":        car.UpdatedAt,
		"soldAt":           nil,
	}
	if car.SoldAt != nil {
		set["soldAt"] = *car.SoldAt
	}
	return set
}

// contactFromDocument coerces a raw contacts document into a Contact.
func contactFromDocument(doc bson.M) models.Contact {
	return models.Contact{
		ID:        docID(doc["_id"]),
		Name:      cast.ToString(doc["name"]),
		Email:     cast.ToString(doc["email"]),
		Phone:     cast.ToString(doc["phone"]),
		Message:   cast.ToString(doc["message"]),
		CarID:     cast.ToString(doc["carId"]),
		CreatedAt: toTime(doc["createdAt"], time.Now()),
	}
}

type cursor interface {
	Next(ctx context.Context) bool
	Decode(v interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// decodeAll drains a cursor through convert.
func decodeAll[T any](ctx context.Context, cur cursor, convert func(bson.M) T) ([]T, error) {
	defer cur.Close(ctx)

	out := make([]T, 0)
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, convert(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
