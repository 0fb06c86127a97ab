package web

import (
	"encoding/json"
	"net/http"

	"github.com/r3labs/sse/v2"
	"github.com/sirupsen/logrus"

	"github.com/baazbike/turfbook/internal/models"
)

// streamName is the SSE stream all viewers subscribe to
const streamName = "bookings"

// EventManager pushes booking change events to connected viewers (room
// grids, TV displays) over server-sent events. Viewers re-fetch and
// re-derive room state on every event; the payload only says that
// something changed and where.
type EventManager struct {
	server *sse.Server
	log    *logrus.Entry
}

// NewEventManager creates a new server-sent events manager
func NewEventManager() *EventManager {
	server := sse.New()
	server.AutoReplay = false
	server.CreateStream(streamName)

	return &EventManager{
		server: server,
		log:    logrus.WithField("component", "sse"),
	}
}

// ServeHTTP implements the http.Handler interface for SSE connections
func (m *EventManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Pin every subscriber to the bookings stream
	query := r.URL.Query()
	query.Set("stream", streamName)
	r.URL.RawQuery = query.Encode()

	m.server.ServeHTTP(w, r)
}

// NotifyBookingUpdate publishes a booking change event to all viewers
func (m *EventManager) NotifyBookingUpdate(event *models.BookingEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		m.log.WithError(err).Error("failed to marshal booking event")
		return
	}

	m.server.Publish(streamName, &sse.Event{
		Event: []byte("update"),
		Data:  data,
	})
}

// NotifyRefresh publishes a periodic refresh event; viewers treat it
// exactly like an update and re-derive from the latest snapshot
func (m *EventManager) NotifyRefresh() {
	m.server.Publish(streamName, &sse.Event{
		Event: []byte("refresh"),
		Data:  []byte("{}"),
	})
}

// Shutdown closes all streams and disconnects subscribers
func (m *EventManager) Shutdown() {
	m.server.Close()
}
