package models

import (
	"time"
)

// DateLayout is the calendar-day format used to bucket bookings.
// Days are computed in venue-local time; the service assumes a
// single-venue deployment.
const DateLayout = "2006-01-02"

// Booking represents a reservation of a room for a time window.
// The window is half-open: [StartTime, EndTime).
type Booking struct {
	ID             string    `json:"id" db:"id"`
	RoomID         string    `json:"room_id" db:"room_id"`
	Title          string    `json:"title" db:"title"`
	Organizer      string    `json:"organizer" db:"organizer"`
	OrganizerEmail string    `json:"organizer_email" db:"organizer_email"`
	Department     string    `json:"department" db:"department"`
	StartTime      time.Time `json:"start_time" db:"start_time"`
	EndTime        time.Time `json:"end_time" db:"end_time"`
	Attendees      int       `json:"attendees" db:"attendees"`
	Description    string    `json:"description,omitempty" db:"description"`
	Date           string    `json:"date" db:"date"`
	IsActive       bool      `json:"is_active" db:"is_active"`
}

// DateOf returns the calendar day of t in venue-local time.
func DateOf(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// Overlaps reports whether two bookings occupy overlapping time windows.
// Windows are half-open, so a booking starting exactly when another ends
// does not overlap it.
func (b *Booking) Overlaps(other *Booking) bool {
	return b.StartTime.Before(other.EndTime) && other.StartTime.Before(b.EndTime)
}

// InProgressAt reports whether the booking occupies the room at instant t.
func (b *Booking) InProgressAt(t time.Time) bool {
	return !b.StartTime.After(t) && t.Before(b.EndTime)
}

// BookingRequest carries the caller-supplied fields for creating a booking.
// The store assigns the ID, the active flag and, when empty, the date.
type BookingRequest struct {
	RoomID         string    `json:"room_id"`
	Title          string    `json:"title"`
	Organizer      string    `json:"organizer"`
	OrganizerEmail string    `json:"organizer_email"`
	Department     string    `json:"department"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Attendees      int       `json:"attendees"`
	Description    string    `json:"description,omitempty"`
	Date           string    `json:"date,omitempty"`
}

// Validate checks the request for malformed input. It does not consult
// existing bookings; conflict detection happens in the store.
func (r *BookingRequest) Validate() error {
	switch {
	case r.RoomID == "":
		return &ValidationError{Field: "room_id", Reason: "room is required"}
	case r.Title == "":
		return &ValidationError{Field: "title", Reason: "title is required"}
	case r.Organizer == "":
		return &ValidationError{Field: "organizer", Reason: "organizer name is required"}
	case r.OrganizerEmail == "":
		return &ValidationError{Field: "organizer_email", Reason: "organizer email is required"}
	case r.StartTime.IsZero() || r.EndTime.IsZero():
		return &ValidationError{Field: "start_time", Reason: "start and end times are required"}
	case !r.StartTime.Before(r.EndTime):
		return &ValidationError{Field: "end_time", Reason: "end time must be after start time"}
	case r.Attendees < 1:
		return &ValidationError{Field: "attendees", Reason: "at least one attendee is required"}
	}
	return nil
}

// EffectiveDate returns the explicit date if set, otherwise the calendar
// day of the start time in venue-local time.
func (r *BookingRequest) EffectiveDate() string {
	if r.Date != "" {
		return r.Date
	}
	return DateOf(r.StartTime)
}

// BookingFilter narrows booking list queries. Zero values mean "no
// constraint" for that field.
type BookingFilter struct {
	RoomID         string
	Date           string
	OrganizerEmail string
}

// BookingEventType distinguishes change notifications from the store.
type BookingEventType string

const (
	BookingCreated   BookingEventType = "created"
	BookingCancelled BookingEventType = "cancelled"
)

// BookingEvent is published to subscribers whenever the booking set
// changes, so viewers can re-derive room state.
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"booking_id"`
	RoomID     string           `json:"room_id"`
	Date       string           `json:"date"`
	OccurredAt time.Time        `json:"occurred_at"`
}
