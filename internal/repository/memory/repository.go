// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baazbike/turfbook/internal/models"
)

// Repository implements the repository interface with in-memory storage
type Repository struct {
	bookings map[string]*models.Booking
	rooms    map[string]*models.Room
	mu       sync.RWMutex

	watchers   []chan *models.BookingEvent
	watchersMu sync.Mutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		bookings: make(map[string]*models.Booking),
		rooms:    make(map[string]*models.Room),
	}
}

// SaveBooking stores or overwrites a booking. Cancellation reuses this
// path: the service flips the active flag and saves.
func (r *Repository) SaveBooking(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	copied := *booking
	return &copied, nil
}

// ListBookings returns a snapshot of bookings matching the filter,
// ordered by start time for stable output.
func (r *Repository) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Booking, 0, len(r.bookings))
	for _, booking := range r.bookings {
		if filter.RoomID != "" && booking.RoomID != filter.RoomID {
			continue
		}
		if filter.Date != "" && booking.Date != filter.Date {
			continue
		}
		if filter.OrganizerEmail != "" && booking.OrganizerEmail != filter.OrganizerEmail {
			continue
		}
		copied := *booking
		result = append(result, &copied)
	}

	sortBookings(result)
	return result, nil
}

// ListActiveBookingsByRoomAndDate returns the active bookings for one
// room on one calendar day, ordered by start time. This is the query the
// conflict check runs against.
func (r *Repository) ListActiveBookingsByRoomAndDate(ctx context.Context, roomID, date string) ([]*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Booking
	for _, booking := range r.bookings {
		if booking.RoomID != roomID || booking.Date != date || !booking.IsActive {
			continue
		}
		copied := *booking
		result = append(result, &copied)
	}

	sortBookings(result)
	return result, nil
}

// SaveRoom stores or overwrites a room
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *room
	r.rooms[room.ID] = &copied
	return nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	copied := *room
	return &copied, nil
}

// ListRooms returns all rooms ordered by ID
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		copied := *room
		rooms = append(rooms, &copied)
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].ID < rooms[j].ID
	})
	return rooms, nil
}

// PublishChange fans a booking change event out to all watchers. Slow
// watchers are skipped rather than blocking the write path; the periodic
// refresh covers any missed event.
func (r *Repository) PublishChange(ctx context.Context, event *models.BookingEvent) error {
	r.watchersMu.Lock()
	defer r.watchersMu.Unlock()

	for _, ch := range r.watchers {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// WatchChanges returns a channel of booking change events. The channel
// is closed when ctx is done.
func (r *Repository) WatchChanges(ctx context.Context) (<-chan *models.BookingEvent, error) {
	ch := make(chan *models.BookingEvent, 16)

	r.watchersMu.Lock()
	r.watchers = append(r.watchers, ch)
	r.watchersMu.Unlock()

	go func() {
		<-ctx.Done()

		r.watchersMu.Lock()
		for i, watcher := range r.watchers {
			if watcher == ch {
				r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
				break
			}
		}
		r.watchersMu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func sortBookings(bookings []*models.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].StartTime.Equal(bookings[j].StartTime) {
			return bookings[i].StartTime.Before(bookings[j].StartTime)
		}
		return bookings[i].ID < bookings[j].ID
	})
}
