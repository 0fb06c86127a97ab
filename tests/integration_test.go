package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baazbike/turfbook/internal/api"
	"github.com/baazbike/turfbook/internal/models"
	"github.com/baazbike/turfbook/internal/repository/memory"
	"github.com/baazbike/turfbook/internal/service"
	"github.com/baazbike/turfbook/internal/web"
)

var testDay = time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)

func at(hour, minute int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// TestEventCallback captures booking change events for assertions
type TestEventCallback struct {
	mu     sync.RWMutex
	events []*models.BookingEvent
}

func (t *TestEventCallback) OnBookingUpdate(event *models.BookingEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *TestEventCallback) GetEvents() []*models.BookingEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	events := make([]*models.BookingEvent, len(t.events))
	copy(events, t.events)
	return events
}

func (t *TestEventCallback) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

func (t *TestEventCallback) WaitForEvents(count int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		t.mu.RLock()
		current := len(t.events)
		t.mu.RUnlock()
		if current >= count {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// IntegrationTestSuite contains the complete application setup for integration testing
type IntegrationTestSuite struct {
	repo           *memory.Repository
	bookingService *service.BookingService
	roomService    *service.RoomService
	events         *web.EventManager
	server         *httptest.Server
	callback       *TestEventCallback
}

func setupIntegrationTest(t *testing.T) *IntegrationTestSuite {
	repo := memory.NewRepository()

	bookingService := service.NewBookingService(repo)
	roomService := service.NewRoomService(repo)
	require.NoError(t, roomService.SeedRooms(context.Background()))

	callback := &TestEventCallback{}
	bookingService.RegisterUpdateCallback(callback.OnBookingUpdate)

	events := web.NewEventManager()
	bookingService.RegisterUpdateCallback(events.NotifyBookingUpdate)

	mux := api.SetupRoutes(bookingService, roomService, nil)
	mux.Handle("/events", events)

	server := httptest.NewServer(mux)

	return &IntegrationTestSuite{
		repo:           repo,
		bookingService: bookingService,
		roomService:    roomService,
		events:         events,
		server:         server,
		callback:       callback,
	}
}

func (suite *IntegrationTestSuite) Close() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.events != nil {
		suite.events.Shutdown()
	}
}

func (suite *IntegrationTestSuite) createBooking(t *testing.T, req *models.BookingRequest) *http.Response {
	jsonData, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(
		suite.server.URL+"/api/bookings",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	require.NoError(t, err)

	return resp
}

func (suite *IntegrationTestSuite) roomStatuses(t *testing.T, now time.Time) []*models.RoomStatus {
	url := fmt.Sprintf("%s/api/rooms?at=%s", suite.server.URL, now.Format(time.RFC3339))
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var statuses []*models.RoomStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statuses))
	return statuses
}

func findStatus(statuses []*models.RoomStatus, roomID string) *models.RoomStatus {
	for _, status := range statuses {
		if status.Room.ID == roomID {
			return status
		}
	}
	return nil
}

// TestBookingLifecycle walks a booking from creation through room
// occupancy to cancellation over the HTTP surface
func TestBookingLifecycle(t *testing.T) {
	suite := setupIntegrationTest(t)
	defer suite.Close()

	var bookingID string

	t.Run("Create Booking", func(t *testing.T) {
		suite.callback.Clear()

		resp := suite.createBooking(t, &models.BookingRequest{
			RoomID:         "turf-001",
			Title:          "Q1 Planning",
			Organizer:      "Rahul Sharma",
			OrganizerEmail: "rahul.sharma@baazbike.com",
			Department:     "Sales",
			StartTime:      at(10, 0),
			EndTime:        at(11, 0),
			Attendees:      6,
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var booking models.Booking
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&booking))
		require.NotEmpty(t, booking.ID)
		bookingID = booking.ID

		assert.True(t, suite.callback.WaitForEvents(1, 2*time.Second))
		events := suite.callback.GetEvents()
		require.Len(t, events, 1)
		assert.Equal(t, models.BookingCreated, events[0].Type)
		assert.Equal(t, bookingID, events[0].BookingID)
		assert.Equal(t, "turf-001", events[0].RoomID)
	})

	t.Run("Room Occupied During Booking", func(t *testing.T) {
		statuses := suite.roomStatuses(t, at(10, 30))

		status := findStatus(statuses, "turf-001")
		require.NotNil(t, status)
		assert.False(t, status.Available)
		require.NotNil(t, status.CurrentBooking)
		assert.Equal(t, bookingID, status.CurrentBooking.ID)
		assert.Nil(t, status.NextBooking)
		assert.Len(t, status.TodayBookings, 1)
	})

	t.Run("Room Free Before Booking Starts", func(t *testing.T) {
		statuses := suite.roomStatuses(t, at(9, 0))

		status := findStatus(statuses, "turf-001")
		require.NotNil(t, status)
		assert.True(t, status.Available)
		assert.Nil(t, status.CurrentBooking)
		require.NotNil(t, status.NextBooking)
		assert.Equal(t, bookingID, status.NextBooking.ID)
	})

	t.Run("Conflicting Booking Rejected", func(t *testing.T) {
		suite.callback.Clear()

		resp := suite.createBooking(t, &models.BookingRequest{
			RoomID:         "turf-001",
			Title:          "Standup",
			Organizer:      "Priya Patel",
			OrganizerEmail: "priya.patel@baazbike.com",
			StartTime:      at(10, 30),
			EndTime:        at(11, 30),
			Attendees:      4,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		// A rejected booking emits no change event
		time.Sleep(50 * time.Millisecond)
		assert.Empty(t, suite.callback.GetEvents())
	})

	t.Run("Cancel Booking", func(t *testing.T) {
		suite.callback.Clear()

		req, err := http.NewRequest(http.MethodDelete, suite.server.URL+"/api/bookings/"+bookingID, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		assert.True(t, suite.callback.WaitForEvents(1, 2*time.Second))
		events := suite.callback.GetEvents()
		require.Len(t, events, 1)
		assert.Equal(t, models.BookingCancelled, events[0].Type)
		assert.Equal(t, bookingID, events[0].BookingID)
	})

	t.Run("Room Free After Cancellation", func(t *testing.T) {
		statuses := suite.roomStatuses(t, at(10, 30))

		status := findStatus(statuses, "turf-001")
		require.NotNil(t, status)
		assert.True(t, status.Available)
		assert.Nil(t, status.CurrentBooking)
		assert.Empty(t, status.TodayBookings)
	})

	t.Run("Slot Reusable After Cancellation", func(t *testing.T) {
		resp := suite.createBooking(t, &models.BookingRequest{
			RoomID:         "turf-001",
			Title:          "Standup",
			Organizer:      "Priya Patel",
			OrganizerEmail: "priya.patel@baazbike.com",
			StartTime:      at(10, 30),
			EndTime:        at(11, 30),
			Attendees:      4,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})
}

// TestMultipleRooms verifies bookings in different rooms do not interfere
func TestMultipleRooms(t *testing.T) {
	suite := setupIntegrationTest(t)
	defer suite.Close()

	rooms := []string{"turf-001", "turf-101", "the-eyrie"}
	for i, roomID := range rooms {
		resp := suite.createBooking(t, &models.BookingRequest{
			RoomID:         roomID,
			Title:          fmt.Sprintf("Meeting %d", i+1),
			Organizer:      "Rahul Sharma",
			OrganizerEmail: "rahul.sharma@baazbike.com",
			StartTime:      at(14, 0),
			EndTime:        at(15, 0),
			Attendees:      4,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	statuses := suite.roomStatuses(t, at(14, 30))
	require.Len(t, statuses, len(models.DefaultRooms()))

	occupied := 0
	for _, status := range statuses {
		if !status.Available {
			occupied++
			assert.Contains(t, rooms, status.Room.ID)
		}
	}
	assert.Equal(t, len(rooms), occupied)
}

// TestConcurrentBookingRequests fires overlapping requests at the HTTP
// surface and verifies exactly one wins the slot
func TestConcurrentBookingRequests(t *testing.T) {
	suite := setupIntegrationTest(t)
	defer suite.Close()

	const attempts = 8

	var wg sync.WaitGroup
	results := make([]int, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := suite.createBooking(t, &models.BookingRequest{
				RoomID:         "training-room",
				Title:          fmt.Sprintf("All Hands %d", i),
				Organizer:      "Rahul Sharma",
				OrganizerEmail: "rahul.sharma@baazbike.com",
				StartTime:      at(16, 0),
				EndTime:        at(17, 0),
				Attendees:      12,
			})
			results[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	created, conflicted := 0, 0
	for _, code := range results {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		}
	}
	assert.Equal(t, 1, created, "exactly one request should win the slot")
	assert.Equal(t, attempts-1, conflicted)

	bookings, err := suite.bookingService.ListBookings(context.Background(), models.BookingFilter{RoomID: "training-room"})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

// TestUnknownRoomRejected verifies bookings against rooms that do not exist fail
func TestUnknownRoomRejected(t *testing.T) {
	suite := setupIntegrationTest(t)
	defer suite.Close()

	resp := suite.createBooking(t, &models.BookingRequest{
		RoomID:         "turf-999",
		Title:          "Ghost Meeting",
		Organizer:      "Rahul Sharma",
		OrganizerEmail: "rahul.sharma@baazbike.com",
		StartTime:      at(10, 0),
		EndTime:        at(11, 0),
		Attendees:      4,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
