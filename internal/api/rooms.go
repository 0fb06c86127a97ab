package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/baazbike/turfbook/internal/models"
	"github.com/baazbike/turfbook/internal/service"
)

// RoomHandler handles HTTP requests for room availability views
type RoomHandler struct {
	roomService *service.RoomService
	log         *logrus.Entry
}

// NewRoomHandler creates a new room handler with the given room service
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		log:         logrus.WithField("component", "room_handler"),
	}
}

// ServeHTTP handles HTTP requests for room availability
func (h *RoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Set common headers
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Extract room ID from path if present
	// Path format: /api/rooms/{roomID}
	pathParts := strings.Split(r.URL.Path, "/")
	var roomID string
	if len(pathParts) >= 4 && pathParts[3] != "" {
		roomID = pathParts[3]
	}

	if roomID == "" {
		h.listRooms(w, r)
		return
	}
	h.getRoom(w, r, roomID)
}

// referenceTime resolves the instant to derive state at. Displays and
// tests may pin it with ?at=RFC3339; everyone else gets the wall clock.
func referenceTime(r *http.Request) time.Time {
	if at := r.URL.Query().Get("at"); at != "" {
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			return t
		}
	}
	return time.Now()
}

// listRooms handles GET /api/rooms to list all rooms with derived state
func (h *RoomHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.roomService.GetRoomStatuses(r.Context(), referenceTime(r))
	if err != nil {
		h.log.WithError(err).Error("failed to derive room statuses")
		http.Error(w, "Error retrieving rooms", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(statuses)
}

// getRoom handles GET /api/rooms/{roomID} for per-room detail and TV views
func (h *RoomHandler) getRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	status, err := h.roomService.GetRoomStatus(r.Context(), roomID, referenceTime(r))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}
		h.log.WithError(err).Error("failed to derive room status")
		http.Error(w, "Error retrieving room", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(status)
}
