package service

import (
	"context"
	"errors"
	"time"

	"github.com/baazbike/turfbook/internal/availability"
	"github.com/baazbike/turfbook/internal/models"
	"github.com/baazbike/turfbook/internal/repository"
)

// RoomService provides derived room views for the presentation layer
type RoomService struct {
	repo repository.Repository
}

// NewRoomService creates a new RoomService with the given repository
func NewRoomService(repo repository.Repository) *RoomService {
	return &RoomService{repo: repo}
}

// SeedRooms stores the default floor plan for any room not already
// present. Safe to run on every startup.
func (s *RoomService) SeedRooms(ctx context.Context) error {
	for _, room := range models.DefaultRooms() {
		if _, err := s.repo.GetRoom(ctx, room.ID); err == nil {
			continue
		} else if !errors.Is(err, models.ErrNotFound) {
			return &models.StorageError{Op: "get room", Err: err}
		}

		if err := s.repo.SaveRoom(ctx, room); err != nil {
			return &models.StorageError{Op: "save room", Err: err}
		}
	}
	return nil
}

// GetRoomStatuses returns every room annotated with availability,
// current and next booking, and today's schedule at the given instant.
func (s *RoomService) GetRoomStatuses(ctx context.Context, now time.Time) ([]*models.RoomStatus, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, &models.StorageError{Op: "list rooms", Err: err}
	}

	bookings, err := s.repo.ListBookings(ctx, models.BookingFilter{Date: models.DateOf(now)})
	if err != nil {
		return nil, &models.StorageError{Op: "list bookings", Err: err}
	}

	return availability.Derive(rooms, bookings, now), nil
}

// GetRoomStatus returns the annotated state of a single room, used by
// per-room detail and TV display views.
func (s *RoomService) GetRoomStatus(ctx context.Context, roomID string, now time.Time) (*models.RoomStatus, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, &models.StorageError{Op: "get room", Err: err}
	}

	bookings, err := s.repo.ListActiveBookingsByRoomAndDate(ctx, roomID, models.DateOf(now))
	if err != nil {
		return nil, &models.StorageError{Op: "list bookings", Err: err}
	}

	return availability.DeriveRoom(room, bookings, now), nil
}
