// Package postgres provides a PostgreSQL implementation of the repository interface
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/baazbike/turfbook/internal/config"
	"github.com/baazbike/turfbook/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	capacity INTEGER NOT NULL,
	location TEXT NOT NULL,
	has_tv   BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS bookings (
	id              TEXT PRIMARY KEY,
	room_id         TEXT NOT NULL REFERENCES rooms (id),
	title           TEXT NOT NULL,
	organizer       TEXT NOT NULL,
	organizer_email TEXT NOT NULL,
	department      TEXT NOT NULL DEFAULT '',
	start_time      TIMESTAMPTZ NOT NULL,
	end_time        TIMESTAMPTZ NOT NULL,
	attendees       INTEGER NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	date            TEXT NOT NULL,
	is_active       BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_bookings_room_date ON bookings (room_id, date) WHERE is_active;
CREATE INDEX IF NOT EXISTS idx_bookings_organizer ON bookings (organizer_email);
`

// Repository implements the repository interface with PostgreSQL storage
type Repository struct {
	db *sqlx.DB
}

// NewRepository connects to PostgreSQL and ensures the schema exists
func NewRepository(cfg config.PostgresConfig) (*Repository, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveBooking inserts or updates a booking
func (r *Repository) SaveBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings
		(id, room_id, title, organizer, organizer_email, department, start_time, end_time, attendees, description, date, is_active)
		VALUES (:id, :room_id, :title, :organizer, :organizer_email, :department, :start_time, :end_time, :attendees, :description, :date, :is_active)
		ON CONFLICT (id) DO UPDATE SET is_active = EXCLUDED.is_active`

	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.GetContext(ctx, &booking, `SELECT * FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// ListBookings returns bookings matching the filter, ordered by start time
func (r *Repository) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	query := `SELECT * FROM bookings WHERE 1=1`
	args := []interface{}{}

	if filter.RoomID != "" {
		args = append(args, filter.RoomID)
		query += fmt.Sprintf(" AND room_id = $%d", len(args))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		query += fmt.Sprintf(" AND date = $%d", len(args))
	}
	if filter.OrganizerEmail != "" {
		args = append(args, filter.OrganizerEmail)
		query += fmt.Sprintf(" AND organizer_email = $%d", len(args))
	}
	query += " ORDER BY start_time, id"

	bookings := []*models.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListActiveBookingsByRoomAndDate returns the active bookings for one
// room on one calendar day, ordered by start time
func (r *Repository) ListActiveBookingsByRoomAndDate(ctx context.Context, roomID, date string) ([]*models.Booking, error) {
	query := `SELECT * FROM bookings
		WHERE room_id = $1 AND date = $2 AND is_active
		ORDER BY start_time, id`

	bookings := []*models.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, roomID, date); err != nil {
		return nil, fmt.Errorf("failed to list active bookings: %w", err)
	}
	return bookings, nil
}

// SaveRoom inserts or updates a room
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	query := `INSERT INTO rooms (id, name, capacity, location, has_tv)
		VALUES (:id, :name, :capacity, :location, :has_tv)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			capacity = EXCLUDED.capacity,
			location = EXCLUDED.location,
			has_tv = EXCLUDED.has_tv`

	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	err := r.db.GetContext(ctx, &room, `SELECT * FROM rooms WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// ListRooms returns all rooms ordered by ID
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	rooms := []*models.Room{}
	if err := r.db.SelectContext(ctx, &rooms, `SELECT * FROM rooms ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}
