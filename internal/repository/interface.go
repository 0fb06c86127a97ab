// Package repository defines interfaces for booking and room storage
package repository

import (
	"context"

	"github.com/baazbike/turfbook/internal/models"
)

// Repository defines the interface for storing and retrieving bookings
// and rooms. Bookings are soft-deleted: cancellation flips the active
// flag and SaveBooking persists the change; records are never removed.
type Repository interface {
	// Booking operations
	SaveBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error)
	ListActiveBookingsByRoomAndDate(ctx context.Context, roomID, date string) ([]*models.Booking, error)

	// Room operations
	SaveRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
}

// ChangeFeed is implemented by repositories that can fan change events
// out to other viewers (e.g. Redis pub/sub reaching every TV display).
// The service discovers it with a type assertion, so repositories
// without a feed still satisfy Repository.
type ChangeFeed interface {
	PublishChange(ctx context.Context, event *models.BookingEvent) error
	WatchChanges(ctx context.Context) (<-chan *models.BookingEvent, error)
}
