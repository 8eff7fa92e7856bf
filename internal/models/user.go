package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User struct matches the document in MongoDB.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	Name          string             `bson:"name" json:"name"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password      string             `bson:"password" json:"-"`
	Role          string             `bson:"role" json:"role"` // customer, admin
	DriverLicense string             `bson:"driverLicense,omitempty" json:"driverLicense,omitempty"`
	Status        string             `bson:"status" json:"status"` // active, disabled
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
