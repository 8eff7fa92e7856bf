// server/internal/booking/availability.go

// Package booking implements the rules that decide whether a car can be
// booked for a date range, what a booking costs, what a cancellation
// refunds, and which lifecycle transitions are legal. Everything here is a
// pure computation over the caller's inputs: no database, no clock reads.
package booking

import (
	"time"

	"car-rental-api-server/internal/models"
)

// AvailabilityResult is the outcome of an availability check.
type AvailabilityResult struct {
	Available   bool             `json:"available"`
	CarBookable bool             `json:"carBookable"` // availability flag + maintenance status
	Conflicts   []models.Booking `json:"conflicts,omitempty"`
}

// Check decides whether the car can be booked for [start, end). The caller
// supplies the existing bookings for the same car, already restricted to
// status confirmed or active; bookings in other states never block.
//
// Overlap uses inclusive boundaries on calendar days: a booking ending on
// the requested start date still counts as a conflict, so back-to-back
// same-day return and pickup is rejected.
func Check(car models.Car, existing []models.Booking, start, end time.Time) (AvailabilityResult, error) {
	if !start.Before(end) {
		return AvailabilityResult{}, ErrInvalidDateRange
	}

	res := AvailabilityResult{CarBookable: car.Bookable()}

	s := truncateToDay(start)
	e := truncateToDay(end)
	for _, b := range existing {
		if overlaps(s, e, truncateToDay(b.StartDate), truncateToDay(b.EndDate)) {
			res.Conflicts = append(res.Conflicts, b)
		}
	}

	res.Available = res.CarBookable && len(res.Conflicts) == 0
	return res, nil
}

// overlaps implements the inclusive-boundary rule: [s1,e1] and [s2,e2]
// overlap iff s1 <= e2 && e1 >= s2.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
