package models

import (
	"time"

	"gorm.io/datatypes"
)

// ListKind names a per-visitor car list.
type ListKind string

const (
	ListFavorites ListKind = "favorites"
	ListCompare   ListKind = "compare"
)

// MaxCompare caps the number of cars in a compare list.
const MaxCompare = 3

// VisitorList is an ordered set of car ids kept for one visitor.
type VisitorList struct {
	VisitorID string                      `json:"visitorId" bson:"visitorId" gorm:"primaryKey;type:varchar(64)"`
	Kind      ListKind                    `json:"kind" bson:"kind" gorm:"primaryKey;type:varchar(20)"`
	CarIDs    datatypes.JSONSlice[string] `json:"carIds" bson:"carIds"`
	UpdatedAt time.Time                   `json:"updatedAt" bson:"updatedAt"`
}

// Contains reports whether carID is in the list.
func (l *VisitorList) Contains(carID string) bool {
	for _, id := range l.CarIDs {
		if id == carID {
			return true
		}
	}
	return false
}

// Remove drops carID and reports whether it was present.
func (l *VisitorList) Remove(carID string) bool {
	for i, id := range l.CarIDs {
		if id == carID {
			l.CarIDs = append(l.CarIDs[:i], l.CarIDs[i+1:]...)
			return true
		}
	}
	return false
}
