package models

// RoomStatus represents the derived display state of a room at a given
// instant. It is computed by the availability package and never stored.
type RoomStatus struct {
	Room           *Room      `json:"room"`
	Available      bool       `json:"available"`
	CurrentBooking *Booking   `json:"current_booking,omitempty"`
	NextBooking    *Booking   `json:"next_booking,omitempty"`
	TodayBookings  []*Booking `json:"today_bookings"`
}
