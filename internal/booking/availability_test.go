package booking

import (
	"testing"
	"time"

	"car-rental-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func bookableCar() models.Car {
	return models.Car{
		CarID:             "CAR-test0001",
		Make:              "Toyota",
		Model:             "Corolla",
		Available:         true,
		MaintenanceStatus: models.MaintenanceAvailable,
	}
}

func confirmedBooking(ref string, start, end time.Time) models.Booking {
	return models.Booking{BookingRef: ref, StartDate: start, EndDate: end, Status: string(StatusConfirmed)}
}

func TestCheckRejectsInvalidRange(t *testing.T) {
	_, err := Check(bookableCar(), nil, day(5), day(5))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = Check(bookableCar(), nil, day(5), day(2))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCheckNoBookingsIsAvailable(t *testing.T) {
	res, err := Check(bookableCar(), nil, day(1), day(4))
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.True(t, res.CarBookable)
	assert.Empty(t, res.Conflicts)
}

func TestCheckCarInMaintenanceIsNeverAvailable(t *testing.T) {
	car := bookableCar()
	car.MaintenanceStatus = models.MaintenanceRepair

	res, err := Check(car, nil, day(1), day(4))
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.False(t, res.CarBookable)
	assert.Empty(t, res.Conflicts)
}

func TestCheckAvailabilityFlagOff(t *testing.T) {
	car := bookableCar()
	car.Available = false

	res, err := Check(car, nil, day(1), day(4))
	require.NoError(t, err)
	assert.False(t, res.Available)
}

func TestCheckDetectsOverlap(t *testing.T) {
	existing := []models.Booking{
		confirmedBooking("BK-aaaa", day(3), day(6)),
	}

	cases := []struct {
		name       string
		start, end time.Time
		conflict   bool
	}{
		{"inside", day(4), day(5), true},
		{"covers", day(2), day(7), true},
		{"overlaps head", day(1), day(3), true},   // shares the boundary day
		{"overlaps tail", day(6), day(9), true},   // same-day turnaround counts
		{"before", day(0), day(2), false},
		{"after", day(7), day(9), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Check(bookableCar(), existing, tc.start, tc.end)
			require.NoError(t, err)
			if tc.conflict {
				assert.False(t, res.Available)
				require.Len(t, res.Conflicts, 1)
				assert.Equal(t, "BK-aaaa", res.Conflicts[0].BookingRef)
			} else {
				assert.True(t, res.Available)
				assert.Empty(t, res.Conflicts)
			}
		})
	}
}

func TestCheckReportsAllConflicts(t *testing.T) {
	existing := []models.Booking{
		confirmedBooking("BK-aaaa", day(1), day(3)),
		confirmedBooking("BK-bbbb", day(5), day(8)),
		confirmedBooking("BK-cccc", day(20), day(22)),
	}

	res, err := Check(bookableCar(), existing, day(2), day(6))
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Len(t, res.Conflicts, 2)
}

func TestCheckIgnoresTimeOfDay(t *testing.T) {
	existing := []models.Booking{
		confirmedBooking("BK-aaaa", day(3).Add(15*time.Hour), day(6).Add(9*time.Hour)),
	}

	res, err := Check(bookableCar(), existing, day(6).Add(18*time.Hour), day(8))
	require.NoError(t, err)
	assert.False(t, res.Available, "same calendar day must conflict regardless of hours")
}
