package models

import (
	"time"

	"gorm.io/datatypes"
)

// FuelType is the fuel a car runs on.
type FuelType string

const (
	FuelPetrol   FuelType = "Benzin"
	FuelDiesel   FuelType = "Dizel"
	FuelHybrid   FuelType = "Hibrit"
	FuelElectric FuelType = "Elektrik"
	FuelLPG      FuelType = "LPG"
)

// FuelTypes lists every accepted fuel type in display order.
var FuelTypes = []FuelType{FuelPetrol, FuelDiesel, FuelHybrid, FuelElectric, FuelLPG}

// TransmissionType is the gearbox kind.
type TransmissionType string

const (
	TransmissionManual    TransmissionType = "Manuel"
	TransmissionAutomatic TransmissionType = "Otomatik"
)

// TransmissionTypes lists every accepted transmission type.
var TransmissionTypes = []TransmissionType{TransmissionManual, TransmissionAutomatic}

// CarStatus is the lifecycle state of a listing.
type CarStatus string

const (
	StatusAvailable CarStatus = "available"
	StatusSold      CarStatus = "sold"
	StatusReserved  CarStatus = "reserved"
)

// DefaultColor is used when a listing arrives without a color.
const DefaultColor = "Belirtilmemiş"

// Car represents a single vehicle listing.
type Car struct {
	ID               string                      `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Brand            string                      `json:"brand" bson:"brand" gorm:"index;type:varchar(100)" validate:"required,max=100"`
	Model            string                      `json:"model" bson:"model" gorm:"type:varchar(150)" validate:"required,max=150"`
	Year             int                         `json:"year" bson:"year" validate:"required,caryear"`
	Price            float64                     `json:"price" bson:"price" validate:"gte=0"`
	Km               int                         `json:"km" bson:"km" validate:"gte=0"`
	FuelType         FuelType                    `json:"fuelType" bson:"fuelType" gorm:"type:varchar(20)" validate:"required,oneof=Benzin Dizel Hibrit Elektrik LPG"`
	TransmissionType TransmissionType            `json:"transmissionType" bson:"transmissionType" gorm:"type:varchar(20)" validate:"required,oneof=Manuel Otomatik"`
	Color            string                      `json:"color" bson:"color" gorm:"type:varchar(50)" validate:"required,max=50"`
	Description      string                      `json:"description" bson:"description" gorm:"type:text" validate:"max=5000"`
	Images           datatypes.JSONSlice[string] `json:"images" bson:"images" validate:"dive,url"`
	Status           CarStatus                   `json:"status" bson:"status" gorm:"index;type:varchar(20)" validate:"required,oneof=available sold reserved"`
	Featured         bool                        `json:"featured" bson:"featured" gorm:"index"`
	CreatedAt        time.Time                   `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt        time.Time                   `json:"updatedAt" bson:"updatedAt"`
	SoldAt           *time.Time                  `json:"soldAt,omitempty" bson:"soldAt,omitempty"`
}

// IsAvailable reports whether the car can still be sold.
func (c *Car) IsAvailable() bool {
	return c.Status == StatusAvailable
}

// ApplyStatus moves the car to status and keeps SoldAt in step with it.
func (c *Car) ApplyStatus(status CarStatus, now time.Time) {
	if status == StatusSold && c.Status != StatusSold {
		c.SoldAt = &now
	}
	if status != StatusSold {
		c.SoldAt = nil
	}
	c.Status = status
}

// BulkCarInput is one entry of a bulk import payload. Optional fields fall
// back to listing defaults.
type BulkCarInput struct {
	Brand            string           `json:"brand" yaml:"brand"`
	Model            string           `json:"model" yaml:"model"`
	Year             int              `json:"year" yaml:"year"`
	Price            float64          `json:"price" yaml:"price"`
	Km               int              `json:"km" yaml:"km"`
	FuelType         FuelType         `json:"fuelType" yaml:"fuelType"`
	TransmissionType TransmissionType `json:"transmissionType" yaml:"transmissionType"`
	Color            string           `json:"color" yaml:"color"`
	Description      string           `json:"description" yaml:"description"`
	Images           []string         `json:"images,omitempty" yaml:"images,omitempty"`
	Status           CarStatus        `json:"status,omitempty" yaml:"status,omitempty"`
	Featured         bool             `json:"featured,omitempty" yaml:"featured,omitempty"`
}

// ToCar fills defaults and returns the listing to store.
func (in BulkCarInput) ToCar() Car {
	car := Car{
		Brand:            in.Brand,
		Model:            in.Model,
		Year:             in.Year,
		Price:            in.Price,
		Km:               in.Km,
		FuelType:         in.FuelType,
		TransmissionType: in.TransmissionType,
		Color:            in.Color,
		Description:      in.Description,
		Images:           datatypes.JSONSlice[string](in.Images),
		Status:           in.Status,
		Featured:         in.Featured,
	}
	if car.FuelType == "" {
		car.FuelType = FuelPetrol
	}
	if car.TransmissionType == "" {
		car.TransmissionType = TransmissionManual
	}
	if car.Color == "" {
		car.Color = DefaultColor
	}
	if car.Images == nil {
		car.Images = datatypes.JSONSlice[string]{}
	}
	if car.Status == "" {
		car.Status = StatusAvailable
	}
	return car
}

// BulkResult reports the outcome of a bulk import.
type BulkResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
	IDs     []string `json:"ids"`
}

// DashboardStats summarises the inventory for the admin dashboard.
type DashboardStats struct {
	TotalCars     int     `json:"totalCars"`
	AvailableCars int     `json:"availableCars"`
	SoldCars      int     `json:"soldCars"`
	ReservedCars  int     `json:"reservedCars"`
	StockValue    float64 `json:"stockValue"`
	ContactCount  int     `json:"contactCount"`
	RecentCars    []Car   `json:"recentCars"`
}
