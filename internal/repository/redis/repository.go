// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/baazbike/turfbook/internal/config"
	"github.com/baazbike/turfbook/internal/models"
)

// Repository implements the repository interface with Redis storage.
// Bookings are stored as JSON values with a per-room-day index set so
// the conflict-check query is a single SMEMBERS + MGET roundtrip.
type Repository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		if opt.DB == 0 {
			opt.DB = cfg.DB
		}
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		address := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

		client = redis.NewClient(&redis.Options{
			Addr:     address,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.BookingTTL,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// bookingKey returns the Redis key for a booking
func (r *Repository) bookingKey(id string) string {
	return fmt.Sprintf("%sbookings:%s", r.keyPrefix, id)
}

// roomKey returns the Redis key for a room
func (r *Repository) roomKey(id string) string {
	return fmt.Sprintf("%srooms:%s", r.keyPrefix, id)
}

// roomDayKey returns the Redis key for the index set of booking IDs on
// one room and calendar day
func (r *Repository) roomDayKey(roomID, date string) string {
	return fmt.Sprintf("%srooms:%s:days:%s", r.keyPrefix, roomID, date)
}

// eventsChannel returns the pub/sub channel for booking change events
func (r *Repository) eventsChannel() string {
	return r.keyPrefix + "events:bookings"
}

// SaveBooking saves a booking and maintains the room-day index
func (r *Repository) SaveBooking(ctx context.Context, booking *models.Booking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	// Write the booking and its index entry in one roundtrip
	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.bookingKey(booking.ID), data, r.ttl)
	pipe.SAdd(ctx, r.roomDayKey(booking.RoomID, booking.Date), booking.ID)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.roomDayKey(booking.RoomID, booking.Date), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}

	return nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	data, err := r.client.Get(ctx, r.bookingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	var booking models.Booking
	if err := json.Unmarshal(data, &booking); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking: %w", err)
	}

	return &booking, nil
}

// ListBookings returns bookings matching the filter, ordered by start time
func (r *Repository) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	// When room and date are both known the index set narrows the scan
	if filter.RoomID != "" && filter.Date != "" {
		bookings, err := r.bookingsByRoomDay(ctx, filter.RoomID, filter.Date)
		if err != nil {
			return nil, err
		}
		return filterBookings(bookings, filter), nil
	}

	pattern := r.bookingKey("*")
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := r.fetchBookings(ctx, keys)
	if err != nil {
		return nil, err
	}
	return filterBookings(bookings, filter), nil
}

// ListActiveBookingsByRoomAndDate returns the active bookings for one
// room on one calendar day, ordered by start time
func (r *Repository) ListActiveBookingsByRoomAndDate(ctx context.Context, roomID, date string) ([]*models.Booking, error) {
	bookings, err := r.bookingsByRoomDay(ctx, roomID, date)
	if err != nil {
		return nil, err
	}

	active := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive {
			active = append(active, b)
		}
	}
	return active, nil
}

// bookingsByRoomDay resolves the room-day index set to booking records
func (r *Repository) bookingsByRoomDay(ctx context.Context, roomID, date string) ([]*models.Booking, error) {
	ids, err := r.client.SMembers(ctx, r.roomDayKey(roomID, date)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read room-day index: %w", err)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.bookingKey(id))
	}
	return r.fetchBookings(ctx, keys)
}

// fetchBookings retrieves booking records with a single MGET
func (r *Repository) fetchBookings(ctx context.Context, keys []string) ([]*models.Booking, error) {
	if len(keys) == 0 {
		return []*models.Booking{}, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get booking data: %w", err)
	}

	bookings := make([]*models.Booking, 0, len(values))
	for _, v := range values {
		if v == nil {
			// Index entries can outlive expired booking records
			continue
		}

		strData, ok := v.(string)
		if !ok {
			continue
		}

		var booking models.Booking
		if err := json.Unmarshal([]byte(strData), &booking); err != nil {
			continue
		}

		bookings = append(bookings, &booking)
	}

	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].StartTime.Equal(bookings[j].StartTime) {
			return bookings[i].StartTime.Before(bookings[j].StartTime)
		}
		return bookings[i].ID < bookings[j].ID
	})
	return bookings, nil
}

// filterBookings applies the remaining filter fields to fetched records
func filterBookings(bookings []*models.Booking, filter models.BookingFilter) []*models.Booking {
	result := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if filter.RoomID != "" && b.RoomID != filter.RoomID {
			continue
		}
		if filter.Date != "" && b.Date != filter.Date {
			continue
		}
		if filter.OrganizerEmail != "" && b.OrganizerEmail != filter.OrganizerEmail {
			continue
		}
		result = append(result, b)
	}
	return result
}

// SaveRoom saves a room
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	// Rooms are the venue floor plan and never expire
	if err := r.client.Set(ctx, r.roomKey(room.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	return nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	data, err := r.client.Get(ctx, r.roomKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &room, nil
}

// ListRooms returns all rooms ordered by ID
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	pattern := r.roomKey("*")
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	rooms := make([]*models.Room, 0, len(keys))
	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			// Day-index sets share the rooms: prefix and fail GET
			continue
		}

		var room models.Room
		if err := json.Unmarshal(data, &room); err != nil {
			continue
		}
		if room.ID == "" {
			continue
		}

		rooms = append(rooms, &room)
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].ID < rooms[j].ID
	})
	return rooms, nil
}

// PublishChange publishes a booking change event so every viewer, on
// any instance, can re-derive room state
func (r *Repository) PublishChange(ctx context.Context, event *models.BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := r.client.Publish(ctx, r.eventsChannel(), data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// WatchChanges subscribes to booking change events. The returned
// channel is closed when ctx is done.
func (r *Repository) WatchChanges(ctx context.Context) (<-chan *models.BookingEvent, error) {
	sub := r.client.Subscribe(ctx, r.eventsChannel())

	// Confirm the subscription before handing out the channel
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}

	events := make(chan *models.BookingEvent, 16)
	go func() {
		defer close(events)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}

				var event models.BookingEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}

				select {
				case events <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
