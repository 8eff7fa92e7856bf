// server/internal/booking/refund.go
package booking

import "time"

// Refund is a priced cancellation.
type Refund struct {
	RefundAmount     int64 `json:"refundAmount"`
	RefundPercentage int   `json:"refundPercentage"`
	DaysUntilStart   int   `json:"daysUntilStart"`
}

// refundBands is the sliding cancellation schedule, evaluated high to low;
// the first band whose threshold the lead time reaches wins.
var refundBands = []struct {
	minDays int
	percent int
}{
	{7, 100},
	{3, 50},
	{1, 25},
}

// CalculateRefund prices a cancellation against the sliding schedule:
// 7+ days before pickup refunds everything, 3-6 days half, 1-2 days a
// quarter, and same-day or later nothing. The caller passes the
// cancellation moment explicitly, so identical inputs always yield
// identical refunds.
func CalculateRefund(totalAmount int64, start, cancelAt time.Time) Refund {
	days := daysUntil(start, cancelAt)

	percent := 0
	for _, band := range refundBands {
		if days >= band.minDays {
			percent = band.percent
			break
		}
	}

	return Refund{
		RefundAmount:     totalAmount * int64(percent) / 100,
		RefundPercentage: percent,
		DaysUntilStart:   days,
	}
}

// daysUntil is ceil((start - cancelAt) in days); zero or negative when the
// cancellation happens on or after the start date.
func daysUntil(start, cancelAt time.Time) int {
	const day = 24 * time.Hour
	d := start.Sub(cancelAt)
	if d > 0 {
		return int((d + day - 1) / day)
	}
	return int(d / day)
}
