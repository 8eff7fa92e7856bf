// server/internal/models/booking.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment status values for a booking.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Extra is an add-on item priced per unit and multiplied by quantity.
type Extra struct {
	Name     string `bson:"name" json:"name"`
	Price    int64  `bson:"price" json:"price"` // minor units per unit
	Quantity int    `bson:"quantity" json:"quantity"`
}

// Insurance is the selected tier with its flat price for the whole booking.
type Insurance struct {
	Tier  string `bson:"tier" json:"tier"` // basic, premium, full
	Price int64  `bson:"price" json:"price"`
}

// CarSnapshot keeps the display fields of the car as they were at booking
// time, so later fleet edits do not rewrite booking history.
type CarSnapshot struct {
	CarID string `bson:"carID" json:"carID"`
	Make  string `bson:"make" json:"make"`
	Model string `bson:"model" json:"model"`
	Year  int    `bson:"year" json:"year"`
}

type Booking struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingRef         string             `bson:"bookingRef" json:"bookingRef"` // e.g. "BK-1a2b3c4d"
	CarID              string             `bson:"carID" json:"carID"`
	UserEmail          string             `bson:"userEmail" json:"userEmail"`
	Car                CarSnapshot        `bson:"car" json:"car"`
	StartDate          time.Time          `bson:"startDate" json:"startDate"`
	EndDate            time.Time          `bson:"endDate" json:"endDate"`
	TotalDays          int                `bson:"totalDays" json:"totalDays"`
	PricePerDay        int64              `bson:"pricePerDay" json:"pricePerDay"` // snapshot from the car
	Extras             []Extra            `bson:"extras,omitempty" json:"extras"`
	Insurance          Insurance          `bson:"insurance" json:"insurance"`
	TotalAmount        int64              `bson:"totalAmount" json:"totalAmount"`
	Status             string             `bson:"status" json:"status"` // pending, confirmed, active, completed, cancelled
	PaymentStatus      string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod      string             `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	CancellationReason string             `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	RefundAmount       int64              `bson:"refundAmount" json:"refundAmount"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
