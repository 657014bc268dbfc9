package models

import "time"

// Contact is an inquiry submitted through the contact form.
type Contact struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" bson:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Email     string    `json:"email" bson:"email" gorm:"index;type:varchar(255)" validate:"required,email"`
	Phone     string    `json:"phone" bson:"phone" gorm:"type:varchar(30)" validate:"required,min=10,max=30"`
	Message   string    `json:"message" bson:"message" gorm:"type:text" validate:"required,min=10,max=5000"`
	CarID     string    `json:"carId,omitempty" bson:"carId,omitempty" gorm:"index;type:varchar(36)" validate:"omitempty,max=36"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
}
