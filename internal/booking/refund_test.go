package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRefundSchedule(t *testing.T) {
	start := day(30)

	cases := []struct {
		name        string
		daysBefore  int
		wantPercent int
		wantAmount  int64
	}{
		{"ten days out", 10, 100, 20000},
		{"exactly a week", 7, 100, 20000},
		{"six days out", 6, 50, 10000},
		{"three days out", 3, 50, 10000},
		{"two days out", 2, 25, 5000},
		{"one day out", 1, 25, 5000},
		{"same day", 0, 0, 0},
		{"after start", -2, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cancelAt := start.AddDate(0, 0, -tc.daysBefore)
			r := CalculateRefund(20000, start, cancelAt)
			assert.Equal(t, tc.wantPercent, r.RefundPercentage)
			assert.Equal(t, tc.wantAmount, r.RefundAmount)
			assert.Equal(t, tc.daysBefore, r.DaysUntilStart)
		})
	}
}

func TestCalculateRefundPartialDayCountsAsFull(t *testing.T) {
	start := day(30)
	// 6 days and 8 hours before the start rounds up to 7 -> full refund.
	cancelAt := start.AddDate(0, 0, -7).Add(16 * time.Hour)
	r := CalculateRefund(20000, start, cancelAt)
	assert.Equal(t, 7, r.DaysUntilStart)
	assert.Equal(t, 100, r.RefundPercentage)
}

func TestCalculateRefundIsDeterministic(t *testing.T) {
	start := day(30)
	cancelAt := day(25)
	assert.Equal(t, CalculateRefund(12345, start, cancelAt), CalculateRefund(12345, start, cancelAt))
}

func TestCalculateRefundZeroTotal(t *testing.T) {
	r := CalculateRefund(0, day(30), day(10))
	assert.Equal(t, 100, r.RefundPercentage)
	assert.Equal(t, int64(0), r.RefundAmount)
}
