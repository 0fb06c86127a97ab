package models

// Room represents a physical meeting room
type Room struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Capacity int    `json:"capacity" db:"capacity"`
	Location string `json:"location" db:"location"`
	HasTV    bool   `json:"has_tv" db:"has_tv"`
}

// DefaultRooms returns the venue floor plan used to seed an empty
// repository: the Turf rooms on the ground and first floors, the
// conference room and the second-floor rooms.
func DefaultRooms() []*Room {
	return []*Room{
		{ID: "turf-001", Name: "Turf 001", Capacity: 8, Location: "Ground Floor", HasTV: true},
		{ID: "turf-002", Name: "Turf 002", Capacity: 12, Location: "Ground Floor", HasTV: true},
		{ID: "turf-003", Name: "Turf 003", Capacity: 9, Location: "Ground Floor", HasTV: true},
		{ID: "turf-004", Name: "Turf 004", Capacity: 9, Location: "Ground Floor", HasTV: true},
		{ID: "turf-005", Name: "Turf 005", Capacity: 7, Location: "Ground Floor", HasTV: true},
		{ID: "turf-006", Name: "Turf 006", Capacity: 7, Location: "Ground Floor", HasTV: true},
		{ID: "turf-007", Name: "Turf 007", Capacity: 4, Location: "Ground Floor", HasTV: false},
		{ID: "turf-008", Name: "Turf 008", Capacity: 4, Location: "Ground Floor", HasTV: false},
		{ID: "turf-009", Name: "Turf 009", Capacity: 7, Location: "Ground Floor", HasTV: true},
		{ID: "turf-101", Name: "Turf 101", Capacity: 7, Location: "First Floor", HasTV: true},
		{ID: "turf-102", Name: "Turf 102", Capacity: 7, Location: "First Floor", HasTV: true},
		{ID: "turf-103", Name: "Turf 103", Capacity: 9, Location: "First Floor", HasTV: true},
		{ID: "turf-104", Name: "Turf 104", Capacity: 7, Location: "First Floor", HasTV: true},
		{ID: "turf-105", Name: "Turf 105", Capacity: 5, Location: "First Floor", HasTV: false},
		{ID: "turf-106", Name: "Turf 106", Capacity: 4, Location: "First Floor", HasTV: false},
		{ID: "turf-107", Name: "Turf 107", Capacity: 4, Location: "First Floor", HasTV: false},
		{ID: "turf-108", Name: "Turf 108", Capacity: 4, Location: "First Floor", HasTV: false},
		{ID: "turf-109", Name: "Turf 109", Capacity: 5, Location: "First Floor", HasTV: true},
		{ID: "the-eyrie", Name: "The Eyrie", Capacity: 10, Location: "Conference Room", HasTV: true},
		{ID: "turf-201", Name: "Turf 201", Capacity: 8, Location: "Second Floor", HasTV: true},
		{ID: "training-room", Name: "Training Room", Capacity: 20, Location: "Second Floor", HasTV: true},
	}
}
