package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/baazbike/turfbook/internal/models"
	"github.com/baazbike/turfbook/internal/repository"
	"github.com/baazbike/turfbook/internal/utils"
)

// BookingUpdateCallback is a function type for booking change callbacks
type BookingUpdateCallback func(*models.BookingEvent)

// BookingService owns the booking lifecycle: it validates requests,
// enforces the no-overlap invariant, supports idempotent cancellation
// and notifies subscribers of changes.
type BookingService struct {
	repo            repository.Repository
	log             *logrus.Entry
	updateCallbacks []BookingUpdateCallback

	// Conflict check and insert must be atomic per (roomID, date),
	// or two overlapping requests can both pass their checks. A
	// mutex per key serializes writes without blocking reads or
	// writes for other rooms and days.
	slotLocks map[string]*sync.Mutex
	slotMu    sync.Mutex
}

// NewBookingService creates a new BookingService with the given repository
func NewBookingService(repo repository.Repository) *BookingService {
	return &BookingService{
		repo:      repo,
		log:       logrus.WithField("component", "booking_service"),
		slotLocks: make(map[string]*sync.Mutex),
	}
}

// RegisterUpdateCallback registers a callback invoked after every
// successful create or cancel
func (s *BookingService) RegisterUpdateCallback(callback BookingUpdateCallback) {
	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// CreateBooking validates the request, checks the requested window
// against existing active bookings for the room and date, and persists
// the booking. It either fully succeeds or writes nothing.
func (s *BookingService) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	room, err := s.repo.GetRoom(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.ValidationError{Field: "room_id", Reason: "unknown room"}
		}
		return nil, &models.StorageError{Op: "get room", Err: err}
	}
	if req.Attendees > room.Capacity {
		return nil, &models.ValidationError{Field: "attendees", Reason: "attendee count exceeds room capacity"}
	}

	date := req.EffectiveDate()

	lock := s.slotLock(req.RoomID, date)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.repo.ListActiveBookingsByRoomAndDate(ctx, req.RoomID, date)
	if err != nil {
		return nil, &models.StorageError{Op: "conflict check", Err: err}
	}

	booking := &models.Booking{
		ID:             uuid.New().String(),
		RoomID:         req.RoomID,
		Title:          req.Title,
		Organizer:      req.Organizer,
		OrganizerEmail: req.OrganizerEmail,
		Department:     req.Department,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Attendees:      req.Attendees,
		Description:    req.Description,
		Date:           date,
		IsActive:       true,
	}

	for _, other := range existing {
		if booking.Overlaps(other) {
			return nil, &models.ConflictError{RoomID: req.RoomID, Existing: other}
		}
	}

	if err := s.repo.SaveBooking(ctx, booking); err != nil {
		return nil, &models.StorageError{Op: "save booking", Err: err}
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"room_id":    booking.RoomID,
		"title":      utils.SanitizeLogString(booking.Title),
		"date":       booking.Date,
	}).Info("booking created")

	s.notifyUpdate(ctx, &models.BookingEvent{
		Type:       models.BookingCreated,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		Date:       booking.Date,
		OccurredAt: time.Now(),
	})

	return booking, nil
}

// CancelBooking soft-deletes a booking. Cancellation is idempotent: an
// unknown or already-cancelled ID is a successful no-op. The record is
// kept for past-meetings views.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return &models.StorageError{Op: "get booking", Err: err}
	}
	if !booking.IsActive {
		return nil
	}

	lock := s.slotLock(booking.RoomID, booking.Date)
	lock.Lock()
	defer lock.Unlock()

	booking.IsActive = false
	if err := s.repo.SaveBooking(ctx, booking); err != nil {
		return &models.StorageError{Op: "save booking", Err: err}
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"room_id":    booking.RoomID,
	}).Info("booking cancelled")

	s.notifyUpdate(ctx, &models.BookingEvent{
		Type:       models.BookingCancelled,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		Date:       booking.Date,
		OccurredAt: time.Now(),
	})

	return nil
}

// ListBookings returns a read-only snapshot of bookings matching the
// filter. Splitting upcoming from past meetings is left to the caller.
func (s *BookingService) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	bookings, err := s.repo.ListBookings(ctx, filter)
	if err != nil {
		return nil, &models.StorageError{Op: "list bookings", Err: err}
	}
	return bookings, nil
}

// GetBooking returns a single booking by ID
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, &models.StorageError{Op: "get booking", Err: err}
	}
	return booking, nil
}

// WatchRepositoryChanges forwards change events from the repository's
// feed (e.g. Redis pub/sub from another instance) to the registered
// callbacks. Returns false when the repository has no feed.
func (s *BookingService) WatchRepositoryChanges(ctx context.Context) bool {
	feed, ok := s.repo.(repository.ChangeFeed)
	if !ok {
		return false
	}

	events, err := feed.WatchChanges(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to watch repository changes")
		return false
	}

	go func() {
		for event := range events {
			for _, callback := range s.updateCallbacks {
				callback(event)
			}
		}
	}()
	return true
}

// notifyUpdate invokes local callbacks and, when the repository exposes
// a change feed, publishes the event through it for other viewers
func (s *BookingService) notifyUpdate(ctx context.Context, event *models.BookingEvent) {
	for _, callback := range s.updateCallbacks {
		callback(event)
	}

	if feed, ok := s.repo.(repository.ChangeFeed); ok {
		if err := feed.PublishChange(ctx, event); err != nil {
			s.log.WithError(err).Warn("failed to publish change event")
		}
	}
}

// slotLock returns the mutex serializing writes for one room and day
func (s *BookingService) slotLock(roomID, date string) *sync.Mutex {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()

	key := roomID + "|" + date
	lock, ok := s.slotLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.slotLocks[key] = lock
	}
	return lock
}
