// server/internal/jobs/cron.go
package jobs

import (
	"context"
	"log"
	"time"

	"car-rental-api-server/config"
	"car-rental-api-server/internal/booking"
	"car-rental-api-server/internal/models"
	"car-rental-api-server/internal/socket"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// InitCronJobs schedules the booking housekeeping job and starts the cron
// runner.
func InitCronJobs(c *cron.Cron, db *mongo.Database, hub *socket.Hub, cfg config.BookingConfig) error {
	spec := cfg.HousekeepingSpec
	if spec == "" {
		spec = "@hourly"
	}

	_, err := c.AddFunc(spec, func() {
		now := time.Now()
		if err := ExpireStalePending(db, hub, now, cfg.PendingTTLHours); err != nil {
			log.Printf("Housekeeping: failed to expire stale pending bookings: %v", err)
		}
		if err := CompleteOverdueActive(db, hub, now); err != nil {
			log.Printf("Housekeeping: failed to complete overdue bookings: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}

// ExpireStalePending cancels bookings that sat in status=pending with an
// unpaid payment longer than the configured TTL. Nothing was charged, so
// the refund amount stays zero.
func ExpireStalePending(db *mongo.Database, hub *socket.Hub, now time.Time, ttlHours int) error {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	cutoff := now.Add(-time.Duration(ttlHours) * time.Hour)

	collection := db.Collection("bookings")
	cursor, err := collection.Find(context.Background(), bson.M{
		"status":        string(booking.StatusPending),
		"paymentStatus": models.PaymentPending,
		"createdAt":     bson.M{"$lt": cutoff},
	})
	if err != nil {
		return err
	}
	defer cursor.Close(context.Background())

	var stale []models.Booking
	if err := cursor.All(context.Background(), &stale); err != nil {
		return err
	}

	for _, b := range stale {
		_, err := collection.UpdateOne(context.Background(),
			bson.M{"_id": b.ID, "status": string(booking.StatusPending)},
			bson.M{"$set": bson.M{
				"status":             string(booking.StatusCancelled),
				"cancellationReason": "payment not completed in time",
				"updatedAt":          now,
			}})
		if err != nil {
			return err
		}
		log.Printf("Housekeeping: expired stale pending booking %s", b.BookingRef)
		hub.Broadcast(socket.BookingEvent{
			Event:      "cancelled",
			BookingRef: b.BookingRef,
			CarID:      b.CarID,
			Status:     string(booking.StatusCancelled),
		})
	}
	return nil
}

// CompleteOverdueActive moves active bookings whose end date has passed to
// completed, the same transition an admin would make at car return.
func CompleteOverdueActive(db *mongo.Database, hub *socket.Hub, now time.Time) error {
	collection := db.Collection("bookings")
	cursor, err := collection.Find(context.Background(), bson.M{
		"status":  string(booking.StatusActive),
		"endDate": bson.M{"$lt": now},
	})
	if err != nil {
		return err
	}
	defer cursor.Close(context.Background())

	var overdue []models.Booking
	if err := cursor.All(context.Background(), &overdue); err != nil {
		return err
	}

	for _, b := range overdue {
		if err := booking.CanTransition(booking.StatusActive, booking.StatusCompleted); err != nil {
			return err
		}
		_, err := collection.UpdateOne(context.Background(),
			bson.M{"_id": b.ID, "status": string(booking.StatusActive)},
			bson.M{"$set": bson.M{
				"status":    string(booking.StatusCompleted),
				"updatedAt": now,
			}})
		if err != nil {
			return err
		}
		log.Printf("Housekeeping: completed overdue booking %s", b.BookingRef)
		hub.Broadcast(socket.BookingEvent{
			Event:      "status_changed",
			BookingRef: b.BookingRef,
			CarID:      b.CarID,
			Status:     string(booking.StatusCompleted),
		})
	}
	return nil
}
