// server/internal/booking/pricing.go
package booking

import (
	"time"

	"car-rental-api-server/internal/models"
)

// All money values are int64 minor units (cents) so totals are exact and
// reproducible; no floating point is involved anywhere in pricing.

// Breakdown exposes the sub-totals behind a quote for display and audit.
type Breakdown struct {
	CarRental int64 `json:"carRental"`
	Extras    int64 `json:"extras"`
	Insurance int64 `json:"insurance"`
}

// Quote is a computed booking total.
type Quote struct {
	TotalDays   int       `json:"totalDays"`
	TotalAmount int64     `json:"totalAmount"`
	Breakdown   Breakdown `json:"breakdown"`
}

// CalculateTotal prices a booking: pricePerDay times the rented days, plus
// extras (unit price times quantity, quantity floored at 1), plus the flat
// insurance price. Equal start and end dates count as a single rental day.
func CalculateTotal(pricePerDay int64, start, end time.Time, extras []models.Extra, insurance models.Insurance) (Quote, error) {
	if end.Before(start) {
		return Quote{}, ErrInvalidDateRange
	}

	days := ceilDays(start, end)

	var extrasTotal int64
	for _, ex := range extras {
		qty := ex.Quantity
		if qty < 1 {
			qty = 1
		}
		extrasTotal += ex.Price * int64(qty)
	}

	bd := Breakdown{
		CarRental: pricePerDay * int64(days),
		Extras:    extrasTotal,
		Insurance: insurance.Price,
	}

	return Quote{
		TotalDays:   days,
		TotalAmount: bd.CarRental + bd.Extras + bd.Insurance,
		Breakdown:   bd,
	}, nil
}

// ceilDays counts the days from one moment to a later one, rounding any
// partial day up and never returning less than 1.
func ceilDays(from, to time.Time) int {
	const day = 24 * time.Hour
	d := to.Sub(from)
	days := int((d + day - 1) / day)
	if days < 1 {
		return 1
	}
	return days
}
