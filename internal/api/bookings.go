package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/baazbike/turfbook/internal/directory"
	"github.com/baazbike/turfbook/internal/models"
	"github.com/baazbike/turfbook/internal/service"
	"github.com/baazbike/turfbook/internal/utils"
)

// errorResponse is the JSON body returned for failed requests
type errorResponse struct {
	Error string `json:"error"`
}

// BookingHandler handles HTTP requests for booking management
type BookingHandler struct {
	bookingService *service.BookingService
	directory      *directory.Client
	log            *logrus.Entry
}

// NewBookingHandler creates a new booking handler. The directory client
// may be nil; organizer details must then be complete in the request.
func NewBookingHandler(bookingService *service.BookingService, dir *directory.Client) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		directory:      dir,
		log:            logrus.WithField("component", "booking_handler"),
	}
}

// ServeHTTP handles HTTP requests for booking management
func (h *BookingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Set common headers
	w.Header().Set("Content-Type", "application/json")

	// Extract booking ID from path if present
	// Path format: /api/bookings/{bookingID}
	pathParts := strings.Split(r.URL.Path, "/")
	var bookingID string
	if len(pathParts) >= 4 && pathParts[3] != "" {
		bookingID = pathParts[3]
	}

	// Route based on HTTP method and path
	switch {
	case r.Method == http.MethodGet && bookingID != "":
		h.getBooking(w, r, bookingID)
	case r.Method == http.MethodGet:
		h.listBookings(w, r)
	case r.Method == http.MethodPost && bookingID == "":
		h.createBooking(w, r)
	case r.Method == http.MethodDelete && bookingID != "":
		h.cancelBooking(w, r, bookingID)
	default:
		http.NotFound(w, r)
	}
}

// createBooking handles POST /api/bookings to book a room
func (h *BookingHandler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.WithError(err).Warn("error decoding booking request")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	h.fillOrganizer(r.Context(), &req)

	booking, err := h.bookingService.CreateBooking(r.Context(), &req)
	if err != nil {
		var validationErr *models.ValidationError
		var conflictErr *models.ConflictError

		switch {
		case errors.As(err, &validationErr):
			writeError(w, http.StatusBadRequest, validationErr.Error())
		case errors.As(err, &conflictErr):
			writeError(w, http.StatusConflict, conflictErr.Error())
		default:
			h.log.WithError(err).Error("failed to create booking")
			writeError(w, http.StatusInternalServerError, "Error saving booking")
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

// fillOrganizer resolves missing organizer fields through the employee
// directory when one is configured
func (h *BookingHandler) fillOrganizer(ctx context.Context, req *models.BookingRequest) {
	if h.directory == nil || req.OrganizerEmail == "" {
		return
	}
	if req.Organizer != "" && req.Department != "" {
		return
	}

	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	employee, err := h.directory.LookupEmployee(lookupCtx, req.OrganizerEmail)
	if err != nil {
		h.log.WithField("email", utils.SanitizeLogString(req.OrganizerEmail)).
			WithError(err).Warn("directory lookup failed")
		return
	}

	if req.Organizer == "" {
		req.Organizer = employee.Name
	}
	if req.Department == "" {
		req.Department = employee.Department
	}
}

// listBookings handles GET /api/bookings with optional room, date and
// organizer filters; used to build my-meetings views
func (h *BookingHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	filter := models.BookingFilter{
		RoomID:         r.URL.Query().Get("room"),
		Date:           r.URL.Query().Get("date"),
		OrganizerEmail: r.URL.Query().Get("organizer"),
	}

	bookings, err := h.bookingService.ListBookings(r.Context(), filter)
	if err != nil {
		h.log.WithError(err).Error("failed to list bookings")
		writeError(w, http.StatusInternalServerError, "Error retrieving bookings")
		return
	}

	json.NewEncoder(w).Encode(bookings)
}

// getBooking handles GET /api/bookings/{bookingID}
func (h *BookingHandler) getBooking(w http.ResponseWriter, r *http.Request, bookingID string) {
	booking, err := h.bookingService.GetBooking(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Booking not found")
			return
		}
		h.log.WithError(err).Error("failed to get booking")
		writeError(w, http.StatusInternalServerError, "Error retrieving booking")
		return
	}

	json.NewEncoder(w).Encode(booking)
}

// cancelBooking handles DELETE /api/bookings/{bookingID}. Cancellation
// is idempotent, so an unknown ID still returns success.
func (h *BookingHandler) cancelBooking(w http.ResponseWriter, r *http.Request, bookingID string) {
	if err := h.bookingService.CancelBooking(r.Context(), bookingID); err != nil {
		h.log.WithError(err).Error("failed to cancel booking")
		writeError(w, http.StatusInternalServerError, "Error cancelling booking")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
