// server/internal/models/car.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Maintenance status values for a car.
const (
	MaintenanceAvailable   = "available"
	MaintenanceMaintenance = "maintenance"
	MaintenanceRepair      = "repair"
)

type Car struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CarID             string             `bson:"carID" json:"carID"` // human-readable, e.g. "CAR-1a2b3c4d"
	Make              string             `bson:"make" json:"make"`
	Model             string             `bson:"model" json:"model"`
	Year              int                `bson:"year" json:"year"`
	Category          string             `bson:"category" json:"category"`         // economy, compact, midsize, fullsize, luxury, suv, convertible, van
	Transmission      string             `bson:"transmission" json:"transmission"` // manual, automatic
	FuelType          string             `bson:"fuelType" json:"fuelType"`         // gasoline, diesel, hybrid, electric
	Seats             int                `bson:"seats" json:"seats"`
	Doors             int                `bson:"doors" json:"doors"`
	PricePerDay       int64              `bson:"pricePerDay" json:"pricePerDay"` // minor units (cents)
	Mileage           int64              `bson:"mileage" json:"mileage"`
	Location          Location           `bson:"location" json:"location"`
	Available         bool               `bson:"available" json:"available"`
	MaintenanceStatus string             `bson:"maintenanceStatus" json:"maintenanceStatus"`
	Photos            []MediaPointer     `bson:"photos,omitempty" json:"photos"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Bookable reports whether the car can accept new bookings at all. Date
// conflicts are a separate question answered by the booking package.
func (c Car) Bookable() bool {
	return c.Available && c.MaintenanceStatus == MaintenanceAvailable
}
