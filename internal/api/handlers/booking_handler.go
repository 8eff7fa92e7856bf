// server/internal/api/handlers/booking_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"car-rental-api-server/internal/booking"
	"car-rental-api-server/internal/locker"
	"car-rental-api-server/internal/models"
	"car-rental-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingHandler struct {
	DB     *mongo.Database
	Locker *locker.CarLocker
	Hub    *socket.Hub
}

// --- Structs for request bodies ---

type ExtraRequest struct {
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"gte=0"`
	Quantity int    `json:"quantity" binding:"gte=1"`
}

type InsuranceRequest struct {
	Tier  string `json:"tier" binding:"required,oneof=basic premium full"`
	Price int64  `json:"price" binding:"gte=0"`
}

type CreateBookingRequest struct {
	CarID         string            `json:"carID" binding:"required"`
	StartDate     string            `json:"startDate" binding:"required"`
	EndDate       string            `json:"endDate" binding:"required"`
	Extras        []ExtraRequest    `json:"extras"`
	Insurance     *InsuranceRequest `json:"insurance"`
	PaymentMethod string            `json:"paymentMethod"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed active completed"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required,oneof=pending paid failed refunded"`
}

// parseDate accepts a plain date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// activeOrConfirmed is the filter for bookings that block a car's dates.
func activeOrConfirmed(carID string) bson.M {
	return bson.M{
		"carID":  carID,
		"status": bson.M{"$in": []string{string(booking.StatusConfirmed), string(booking.StatusActive)}},
	}
}

func (h *BookingHandler) loadBlockingBookings(ctx context.Context, carID string) ([]models.Booking, error) {
	cursor, err := h.DB.Collection("bookings").Find(ctx, activeOrConfirmed(carID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var existing []models.Booking
	if err := cursor.All(ctx, &existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// --- Handlers ---

// CreateBooking runs the availability check and the pricing quote under the
// per-car lock, then persists the booking in status=pending.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userEmail := c.GetString("user_email")

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate", "details": err.Error()})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate", "details": err.Error()})
		return
	}

	// Compare calendar days so a booking for later today is still allowed.
	if start.UTC().Format("2006-01-02") < time.Now().UTC().Format("2006-01-02") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start date is in the past"})
		return
	}

	carCollection := h.DB.Collection("cars")
	var car models.Car
	if err := carCollection.FindOne(context.Background(), bson.M{"carID": req.CarID}).Decode(&car); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve car"})
		}
		return
	}

	// Serialize check-then-insert per car. Without this, two overlapping
	// requests could both pass the availability check.
	release, err := h.Locker.Acquire(c.Request.Context(), car.CarID)
	if err != nil {
		if errors.Is(err, locker.ErrLocked) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Car is being booked by another request, please retry"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to acquire booking lock", "details": err.Error()})
		}
		return
	}
	defer release()

	existing, err := h.loadBlockingBookings(context.Background(), car.CarID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query existing bookings"})
		return
	}

	res, err := booking.Check(car, existing, start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !res.CarBookable {
		c.JSON(http.StatusConflict, gin.H{"error": booking.ErrCarUnavailable.Error(), "maintenanceStatus": car.MaintenanceStatus})
		return
	}
	if len(res.Conflicts) > 0 {
		refs := make([]string, len(res.Conflicts))
		for i, b := range res.Conflicts {
			refs[i] = b.BookingRef
		}
		conflictErr := &booking.ConflictError{BookingRefs: refs}
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error(), "conflictingBookings": refs})
		return
	}

	extras := make([]models.Extra, len(req.Extras))
	for i, ex := range req.Extras {
		extras[i] = models.Extra{Name: ex.Name, Price: ex.Price, Quantity: ex.Quantity}
	}
	insurance := models.Insurance{}
	if req.Insurance != nil {
		insurance = models.Insurance{Tier: req.Insurance.Tier, Price: req.Insurance.Price}
	}

	quote, err := booking.CalculateTotal(car.PricePerDay, start, end, extras, insurance)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newBooking := models.Booking{
		BookingRef: fmt.Sprintf("BK-%s", uuid.New().String()[:8]),
		CarID:      car.CarID,
		UserEmail:  userEmail,
		Car: models.CarSnapshot{
			CarID: car.CarID,
			Make:  car.Make,
			Model: car.Model,
			Year:  car.Year,
		},
		StartDate:     start,
		EndDate:       end,
		TotalDays:     quote.TotalDays,
		PricePerDay:   car.PricePerDay,
		Extras:        extras,
		Insurance:     insurance,
		TotalAmount:   quote.TotalAmount,
		Status:        string(booking.StatusPending),
		PaymentStatus: models.PaymentPending,
		PaymentMethod: req.PaymentMethod,
		RefundAmount:  0,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	result, err := h.DB.Collection("bookings").InsertOne(context.Background(), newBooking)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newBooking.ID = oid
	}

	h.Hub.Broadcast(socket.BookingEvent{
		Event:      "created",
		BookingRef: newBooking.BookingRef,
		CarID:      newBooking.CarID,
		Status:     newBooking.Status,
	})

	c.JSON(http.StatusCreated, gin.H{
		"booking":   newBooking,
		"breakdown": quote.Breakdown,
	})
}

// CheckAvailability is the read-only availability probe for a car.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	carID := c.Param("id")

	start, err := parseDate(c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate", "details": err.Error()})
		return
	}
	end, err := parseDate(c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate", "details": err.Error()})
		return
	}

	var car models.Car
	if err := h.DB.Collection("cars").FindOne(context.Background(), bson.M{"carID": carID}).Decode(&car); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve car"})
		}
		return
	}

	existing, err := h.loadBlockingBookings(context.Background(), carID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query existing bookings"})
		return
	}

	res, err := booking.Check(car, existing, start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available":                res.Available,
		"conflictingBookingsCount": len(res.Conflicts),
	})
}

// GetMyBookings lists the authenticated user's bookings, newest first.
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userEmail := c.GetString("user_email")

	cursor, err := h.DB.Collection("bookings").Find(context.Background(), bson.M{"userEmail": userEmail})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query bookings"})
		return
	}
	defer cursor.Close(context.Background())

	var bookings []models.Booking
	if err = cursor.All(context.Background(), &bookings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode bookings"})
		return
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking returns one booking; customers may only see their own.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	ref := c.Param("id")

	var b models.Booking
	if err := h.DB.Collection("bookings").FindOne(context.Background(), bson.M{"bookingRef": ref}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	if c.GetString("user_role") != "admin" && b.UserEmail != c.GetString("user_email") {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this booking"})
		return
	}

	c.JSON(http.StatusOK, b)
}

// CancelBooking validates the lifecycle transition, prices the refund on
// the sliding schedule, and persists the cancelled booking.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	ref := c.Param("id")

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("bookings")

	var b models.Booking
	if err := collection.FindOne(context.Background(), bson.M{"bookingRef": ref}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	if c.GetString("user_role") != "admin" && b.UserEmail != c.GetString("user_email") {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to cancel this booking"})
		return
	}

	current, err := booking.ParseStatus(b.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking has an invalid status", "details": err.Error()})
		return
	}
	if err := booking.CanTransition(current, booking.StatusCancelled); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	refund := booking.CalculateRefund(b.TotalAmount, b.StartDate, time.Now())

	update := bson.M{
		"status":             string(booking.StatusCancelled),
		"cancellationReason": req.Reason,
		"refundAmount":       refund.RefundAmount,
		"updatedAt":          time.Now(),
	}
	if b.PaymentStatus == models.PaymentPaid && refund.RefundAmount > 0 {
		update["paymentStatus"] = models.PaymentRefunded
	}

	// Filter on the current status so a concurrent transition loses cleanly.
	result, err := collection.UpdateOne(context.Background(),
		bson.M{"bookingRef": ref, "status": b.Status},
		bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Booking status changed, please retry"})
		return
	}

	h.Hub.Broadcast(socket.BookingEvent{
		Event:      "cancelled",
		BookingRef: b.BookingRef,
		CarID:      b.CarID,
		Status:     string(booking.StatusCancelled),
	})

	c.JSON(http.StatusOK, gin.H{
		"status":           "cancelled",
		"refundAmount":     refund.RefundAmount,
		"refundPercentage": refund.RefundPercentage,
		"daysUntilStart":   refund.DaysUntilStart,
	})
}

// GetAllBookings lists bookings for the admin view, optionally filtered by
// status or car.
func (h *BookingHandler) GetAllBookings(c *gin.Context) {
	filter := bson.M{}
	if v := c.Query("status"); v != "" {
		if _, err := booking.ParseStatus(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter["status"] = v
	}
	if v := c.Query("carID"); v != "" {
		filter["carID"] = v
	}

	cursor, err := h.DB.Collection("bookings").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query bookings"})
		return
	}
	defer cursor.Close(context.Background())

	var bookings []models.Booking
	if err = cursor.All(context.Background(), &bookings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode bookings"})
		return
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}

	c.JSON(http.StatusOK, bookings)
}

// UpdateBookingStatus performs the admin-driven forward transitions
// (confirmed, active, completed). Cancellation goes through CancelBooking
// so the refund is always priced.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	ref := c.Param("id")

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("bookings")

	var b models.Booking
	if err := collection.FindOne(context.Background(), bson.M{"bookingRef": ref}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	current, err := booking.ParseStatus(b.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking has an invalid status", "details": err.Error()})
		return
	}
	target, err := booking.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := booking.CanTransition(current, target); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	result, err := collection.UpdateOne(context.Background(),
		bson.M{"bookingRef": ref, "status": b.Status},
		bson.M{"$set": bson.M{"status": string(target), "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking status"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Booking status changed, please retry"})
		return
	}

	h.Hub.Broadcast(socket.BookingEvent{
		Event:      "status_changed",
		BookingRef: b.BookingRef,
		CarID:      b.CarID,
		Status:     string(target),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Booking status updated", "status": string(target)})
}

// UpdatePaymentStatus records the payment outcome reported by the payment
// collaborator. No gateway calls happen here.
func (h *BookingHandler) UpdatePaymentStatus(c *gin.Context) {
	ref := c.Param("id")

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("bookings")

	var b models.Booking
	if err := collection.FindOne(context.Background(), bson.M{"bookingRef": ref}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	current, err := booking.ParseStatus(b.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking has an invalid status", "details": err.Error()})
		return
	}
	if !current.AllowsPaymentUpdate() {
		c.JSON(http.StatusConflict, gin.H{"error": "Payment status is fixed once a booking is completed or cancelled"})
		return
	}

	// Filter on the current status so a concurrent transition loses cleanly.
	result, err := collection.UpdateOne(context.Background(),
		bson.M{"bookingRef": ref, "status": b.Status},
		bson.M{"$set": bson.M{"paymentStatus": req.PaymentStatus, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Booking status changed, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated", "paymentStatus": req.PaymentStatus})
}
