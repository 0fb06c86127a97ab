// Package availability derives per-room display state from a booking
// snapshot and a reference instant. Everything here is a pure
// computation: no clock reads, no I/O, no mutation of inputs, so it is
// safe to run on every refresh tick and every change notification.
package availability

import (
	"sort"
	"time"

	"github.com/baazbike/turfbook/internal/models"
)

// Derive annotates each room with its availability, current and next
// booking, and the full ordered list of today's bookings.
//
// Only active bookings whose date matches the calendar day of now (in
// venue-local time) are considered. Time windows are half-open: a
// booking ending exactly at now is over, one starting exactly at now is
// current.
func Derive(rooms []*models.Room, bookings []*models.Booking, now time.Time) []*models.RoomStatus {
	byRoom := groupByRoom(bookings, now)

	statuses := make([]*models.RoomStatus, 0, len(rooms))
	for _, room := range rooms {
		statuses = append(statuses, deriveRoom(room, byRoom[room.ID], now))
	}
	return statuses
}

// DeriveRoom annotates a single room; used for per-room detail and TV
// display views.
func DeriveRoom(room *models.Room, bookings []*models.Booking, now time.Time) *models.RoomStatus {
	byRoom := groupByRoom(bookings, now)
	return deriveRoom(room, byRoom[room.ID], now)
}

func deriveRoom(room *models.Room, today []*models.Booking, now time.Time) *models.RoomStatus {
	status := &models.RoomStatus{
		Room:          room,
		Available:     true,
		TodayBookings: today,
	}
	if status.TodayBookings == nil {
		status.TodayBookings = []*models.Booking{}
	}

	for _, b := range today {
		// The no-overlap invariant guarantees at most one current
		// booking. If the data is ever inconsistent the earliest
		// starting match wins; that is a data-integrity condition,
		// not a reason to fail.
		if status.CurrentBooking == nil && b.InProgressAt(now) {
			status.CurrentBooking = b
			status.Available = false
		}
		if status.NextBooking == nil && b.StartTime.After(now) {
			status.NextBooking = b
		}
	}
	return status
}

// groupByRoom filters to active bookings on the calendar day of now and
// groups them by room, each group sorted ascending by start time with
// booking ID as a deterministic tie-break.
func groupByRoom(bookings []*models.Booking, now time.Time) map[string][]*models.Booking {
	day := models.DateOf(now)

	byRoom := make(map[string][]*models.Booking)
	for _, b := range bookings {
		if !b.IsActive || b.Date != day {
			continue
		}
		byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
	}

	for _, group := range byRoom {
		sort.Slice(group, func(i, j int) bool {
			if !group[i].StartTime.Equal(group[j].StartTime) {
				return group[i].StartTime.Before(group[j].StartTime)
			}
			return group[i].ID < group[j].ID
		})
	}
	return byRoom
}
