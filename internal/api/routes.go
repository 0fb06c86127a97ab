package api

import (
	"net/http"

	"github.com/baazbike/turfbook/internal/directory"
	"github.com/baazbike/turfbook/internal/service"
)

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(bookingService *service.BookingService, roomService *service.RoomService, dir *directory.Client) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoints for Kubernetes
	mux.HandleFunc("/health/live", HealthLiveHandler)
	mux.HandleFunc("/health/ready", HealthReadyHandler)

	// Room availability endpoints
	roomHandler := NewRoomHandler(roomService)
	mux.Handle("/api/rooms", roomHandler)
	mux.Handle("/api/rooms/", roomHandler)

	// Booking endpoints
	bookingHandler := NewBookingHandler(bookingService, dir)
	mux.Handle("/api/bookings", bookingHandler)
	mux.Handle("/api/bookings/", bookingHandler)

	return mux
}
