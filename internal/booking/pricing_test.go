package booking

import (
	"testing"
	"time"

	"car-rental-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotal(t *testing.T) {
	start := day(0)
	end := day(3)

	quote, err := CalculateTotal(5000, start, end,
		[]models.Extra{{Name: "child seat", Price: 1000, Quantity: 2}},
		models.Insurance{Tier: "premium", Price: 3000},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, quote.TotalDays)
	assert.Equal(t, int64(15000), quote.Breakdown.CarRental)
	assert.Equal(t, int64(2000), quote.Breakdown.Extras)
	assert.Equal(t, int64(3000), quote.Breakdown.Insurance)
	assert.Equal(t, int64(20000), quote.TotalAmount)
}

func TestCalculateTotalEqualDatesIsOneDay(t *testing.T) {
	d := day(10)
	quote, err := CalculateTotal(5000, d, d, nil, models.Insurance{})
	require.NoError(t, err)
	assert.Equal(t, 1, quote.TotalDays)
	assert.Equal(t, int64(5000), quote.TotalAmount)
}

func TestCalculateTotalPartialDayRoundsUp(t *testing.T) {
	start := day(0)
	end := start.Add(24*time.Hour + time.Hour)

	quote, err := CalculateTotal(5000, start, end, nil, models.Insurance{})
	require.NoError(t, err)
	assert.Equal(t, 2, quote.TotalDays)
}

func TestCalculateTotalQuantityFlooredAtOne(t *testing.T) {
	quote, err := CalculateTotal(0, day(0), day(1),
		[]models.Extra{{Name: "gps", Price: 700, Quantity: 0}},
		models.Insurance{},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(700), quote.Breakdown.Extras)
}

func TestCalculateTotalRejectsReversedRange(t *testing.T) {
	_, err := CalculateTotal(5000, day(3), day(1), nil, models.Insurance{})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCalculateTotalIsDeterministic(t *testing.T) {
	extras := []models.Extra{{Name: "gps", Price: 700, Quantity: 3}}
	ins := models.Insurance{Tier: "full", Price: 9900}

	a, err := CalculateTotal(4500, day(2), day(9), extras, ins)
	require.NoError(t, err)
	b, err := CalculateTotal(4500, day(2), day(9), extras, ins)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
