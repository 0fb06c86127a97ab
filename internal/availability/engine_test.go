package availability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baazbike/turfbook/internal/availability"
	"github.com/baazbike/turfbook/internal/models"
)

var testDay = time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)

func at(hour, minute int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func makeBooking(id, roomID string, start, end time.Time) *models.Booking {
	return &models.Booking{
		ID:        id,
		RoomID:    roomID,
		Title:     "Meeting " + id,
		StartTime: start,
		EndTime:   end,
		Date:      models.DateOf(start),
		IsActive:  true,
	}
}

func TestDeriveOccupiedRoom(t *testing.T) {
	room := &models.Room{ID: "turf-001", Name: "Turf 001", Capacity: 8}
	bookings := []*models.Booking{
		makeBooking("b1", "turf-001", at(10, 0), at(11, 0)),
		makeBooking("b2", "turf-001", at(14, 0), at(15, 0)),
	}

	statuses := availability.Derive([]*models.Room{room}, bookings, at(10, 30))
	require.Len(t, statuses, 1)

	status := statuses[0]
	assert.False(t, status.Available)
	require.NotNil(t, status.CurrentBooking)
	assert.Equal(t, "b1", status.CurrentBooking.ID)
	require.NotNil(t, status.NextBooking)
	assert.Equal(t, "b2", status.NextBooking.ID)
	assert.Len(t, status.TodayBookings, 2)
}

func TestDeriveFreeRoomWithUpcoming(t *testing.T) {
	room := &models.Room{ID: "turf-002", Name: "Turf 002", Capacity: 12}
	bookings := []*models.Booking{
		makeBooking("b1", "turf-002", at(14, 0), at(15, 0)),
	}

	statuses := availability.Derive([]*models.Room{room}, bookings, at(10, 0))
	require.Len(t, statuses, 1)

	status := statuses[0]
	assert.True(t, status.Available)
	assert.Nil(t, status.CurrentBooking)
	require.NotNil(t, status.NextBooking)
	assert.Equal(t, "b1", status.NextBooking.ID)
}

func TestDeriveBoundaryExactness(t *testing.T) {
	room := &models.Room{ID: "turf-001", Name: "Turf 001", Capacity: 8}
	booking := makeBooking("b1", "turf-001", at(10, 0), at(11, 0))
	rooms := []*models.Room{room}
	bookings := []*models.Booking{booking}

	// A booking starting exactly now is the current booking
	statuses := availability.Derive(rooms, bookings, at(10, 0))
	require.NotNil(t, statuses[0].CurrentBooking)
	assert.False(t, statuses[0].Available)

	// A booking ending exactly now is over
	statuses = availability.Derive(rooms, bookings, at(11, 0))
	assert.Nil(t, statuses[0].CurrentBooking)
	assert.True(t, statuses[0].Available)
	assert.Nil(t, statuses[0].NextBooking)
}

func TestDeriveIgnoresCancelledAndOtherDays(t *testing.T) {
	room := &models.Room{ID: "turf-001", Name: "Turf 001", Capacity: 8}

	cancelled := makeBooking("b1", "turf-001", at(10, 0), at(11, 0))
	cancelled.IsActive = false

	tomorrow := makeBooking("b2", "turf-001", at(10, 0).AddDate(0, 0, 1), at(11, 0).AddDate(0, 0, 1))

	statuses := availability.Derive([]*models.Room{room}, []*models.Booking{cancelled, tomorrow}, at(10, 30))
	require.Len(t, statuses, 1)

	status := statuses[0]
	assert.True(t, status.Available)
	assert.Nil(t, status.CurrentBooking)
	assert.Nil(t, status.NextBooking)
	assert.Empty(t, status.TodayBookings)
}

func TestDeriveSortsTodayBookings(t *testing.T) {
	room := &models.Room{ID: "turf-001", Name: "Turf 001", Capacity: 8}
	bookings := []*models.Booking{
		makeBooking("b3", "turf-001", at(16, 0), at(17, 0)),
		makeBooking("b1", "turf-001", at(9, 0), at(10, 0)),
		makeBooking("b2", "turf-001", at(12, 0), at(13, 0)),
	}

	statuses := availability.Derive([]*models.Room{room}, bookings, at(8, 0))
	require.Len(t, statuses[0].TodayBookings, 3)

	assert.Equal(t, "b1", statuses[0].TodayBookings[0].ID)
	assert.Equal(t, "b2", statuses[0].TodayBookings[1].ID)
	assert.Equal(t, "b3", statuses[0].TodayBookings[2].ID)
	assert.Equal(t, "b1", statuses[0].NextBooking.ID)
}

func TestDeriveDeterministicOnEqualStarts(t *testing.T) {
	// Identical start times should not occur for active bookings, but
	// derivation must stay deterministic if they do
	room := &models.Room{ID: "turf-001", Name: "Turf 001", Capacity: 8}
	dupA := makeBooking("a", "turf-001", at(10, 0), at(11, 0))
	dupB := makeBooking("b", "turf-001", at(10, 0), at(11, 30))

	first := availability.Derive([]*models.Room{room}, []*models.Booking{dupB, dupA}, at(10, 30))
	second := availability.Derive([]*models.Room{room}, []*models.Booking{dupA, dupB}, at(10, 30))

	// Earliest start wins; ID breaks the tie
	assert.Equal(t, "a", first[0].CurrentBooking.ID)
	assert.Equal(t, first[0].CurrentBooking.ID, second[0].CurrentBooking.ID)
	assert.Equal(t, first[0].TodayBookings[0].ID, second[0].TodayBookings[0].ID)
}

func TestDeriveIsPure(t *testing.T) {
	room := &models.Room{ID: "turf-001", Name: "Turf 001", Capacity: 8}
	bookings := []*models.Booking{
		makeBooking("b2", "turf-001", at(14, 0), at(15, 0)),
		makeBooking("b1", "turf-001", at(10, 0), at(11, 0)),
	}
	now := at(10, 30)

	first := availability.Derive([]*models.Room{room}, bookings, now)
	second := availability.Derive([]*models.Room{room}, bookings, now)

	// Identical inputs, identical output
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].Available, second[0].Available)
	assert.Equal(t, first[0].CurrentBooking.ID, second[0].CurrentBooking.ID)
	assert.Equal(t, first[0].NextBooking.ID, second[0].NextBooking.ID)

	// Input slice order is left untouched
	assert.Equal(t, "b2", bookings[0].ID)
	assert.Equal(t, "b1", bookings[1].ID)
}

func TestDeriveRoomSingle(t *testing.T) {
	room := &models.Room{ID: "the-eyrie", Name: "The Eyrie", Capacity: 10}
	bookings := []*models.Booking{
		makeBooking("b1", "the-eyrie", at(16, 0), at(18, 0)),
		makeBooking("other", "turf-001", at(9, 0), at(17, 0)),
	}

	status := availability.DeriveRoom(room, bookings, at(15, 0))
	assert.True(t, status.Available)
	require.NotNil(t, status.NextBooking)
	assert.Equal(t, "b1", status.NextBooking.ID)
	assert.Len(t, status.TodayBookings, 1)
}
