package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotel-booking-api/metrics"
	"hotel-booking-api/middleware"
	"hotel-booking-api/models"
	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

const testSecret = "test-secret"

type workflowMock struct {
	mock.Mock
}

func (m *workflowMock) Create(ctx context.Context, req *services.BookingRequest) (*models.Booking, error) {
	args := m.Called(ctx, req)
	if b, ok := args.Get(0).(*models.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *workflowMock) CheckAvailability(ctx context.Context, roomID uint, checkIn, checkOut string) (bool, string, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *workflowMock) GetByID(ctx context.Context, id uint, actor services.Actor) (*models.Booking, error) {
	args := m.Called(ctx, id, actor)
	if b, ok := args.Get(0).(*models.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *workflowMock) ListAll(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	if l, ok := args.Get(0).([]models.Booking); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *workflowMock) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	if l, ok := args.Get(0).([]models.Booking); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *workflowMock) Recent(ctx context.Context, limit int) ([]models.Booking, error) {
	args := m.Called(ctx, limit)
	if l, ok := args.Get(0).([]models.Booking); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *workflowMock) SetStatus(ctx context.Context, id uint, status string) (*models.Booking, error) {
	args := m.Called(ctx, id, status)
	if b, ok := args.Get(0).(*models.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *workflowMock) Cancel(ctx context.Context, id uint, actor services.Actor) (*models.Booking, error) {
	args := m.Called(ctx, id, actor)
	if b, ok := args.Get(0).(*models.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *workflowMock) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func newBookingRouter(wf BookingWorkflow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewBookingController(wf, metrics.NewWithRegistry(prometheus.NewRegistry()))

	r := gin.New()
	api := r.Group("/api")
	api.POST("/bookings", middleware.OptionalAuth(testSecret), ctrl.CreateBooking)
	api.GET("/bookings/:id", middleware.RequireAuth(testSecret), ctrl.GetBooking)
	api.GET("/bookings/user", middleware.RequireAuth(testSecret), ctrl.GetUserBookings)
	api.PUT("/bookings/:id/status", middleware.RequireAuth(testSecret), middleware.RequireAdmin(), ctrl.UpdateBookingStatus)
	api.PUT("/bookings/:id/cancel", middleware.RequireAuth(testSecret), ctrl.CancelBooking)
	api.DELETE("/bookings/:id", middleware.RequireAuth(testSecret), middleware.RequireAdmin(), ctrl.DeleteBooking)
	api.GET("/rooms/check-availability/:id", ctrl.CheckRoomAvailability)
	return r
}

func bearerFor(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doJSON(r *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestCreateBookingAsGuest(t *testing.T) {
	wf := new(workflowMock)
	wf.On("Create", mock.Anything, mock.MatchedBy(func(req *services.BookingRequest) bool {
		return req.RoomID == 1 &&
			req.UserID == 0 &&
			req.Guest != nil &&
			req.Guest.Email == "jane@example.com"
	})).Return(&models.Booking{
		ID:         42,
		RoomID:     1,
		Status:     models.StatusPending,
		TotalPrice: 4800,
	}, nil)

	r := newBookingRouter(wf)
	w := doJSON(r, http.MethodPost, "/api/bookings", "", gin.H{
		"roomId":     1,
		"checkIn":    "2025-03-10",
		"checkOut":   "2025-03-14",
		"guestCount": 2,
		"userInfo": gin.H{
			"firstName": "Jane",
			"lastName":  "Doe",
			"email":     "jane@example.com",
		},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, uint(42), booking.ID)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, 4800.0, booking.TotalPrice)
	wf.AssertExpectations(t)
}

func TestCreateBookingAuthenticatedOverridesGuestBlock(t *testing.T) {
	wf := new(workflowMock)
	wf.On("Create", mock.Anything, mock.MatchedBy(func(req *services.BookingRequest) bool {
		// a valid session wins over any submitted contact block
		return req.UserID == 7 && req.Guest == nil
	})).Return(&models.Booking{ID: 1, UserID: 7, Status: models.StatusPending}, nil)

	r := newBookingRouter(wf)
	w := doJSON(r, http.MethodPost, "/api/bookings", bearerFor(t, 7, models.RoleUser), gin.H{
		"roomId":     3,
		"checkIn":    "2025-05-01",
		"checkOut":   "2025-05-03",
		"guestCount": 1,
		"userInfo":   gin.H{"email": "someone-else@example.com"},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	wf.AssertExpectations(t)
}

func TestCreateBookingConflict(t *testing.T) {
	wf := new(workflowMock)
	wf.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrRoomConflict)

	r := newBookingRouter(wf)
	w := doJSON(r, http.MethodPost, "/api/bookings", "", gin.H{
		"roomId":     1,
		"checkIn":    "2025-03-12",
		"checkOut":   "2025-03-16",
		"guestCount": 2,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error.roomUnavailable", errorCode(t, w))
}

func TestCreateBookingValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"missing fields", services.ErrMissingFields, "error.validation"},
		{"reversed dates", services.ErrInvalidDateRange, "error.invalidDateRange"},
		{"unparseable date", services.ErrInvalidDate, "error.invalidDate"},
		{"room not found", services.ErrRoomNotFound, "error.roomNotFound"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := new(workflowMock)
			wf.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err)

			r := newBookingRouter(wf)
			w := doJSON(r, http.MethodPost, "/api/bookings", "", gin.H{"roomId": 1})

			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestGetBookingForeignOwnerIsForbidden(t *testing.T) {
	wf := new(workflowMock)
	wf.On("GetByID", mock.Anything, uint(9), services.Actor{UserID: 7}).
		Return(nil, services.ErrNotOwner)

	r := newBookingRouter(wf)
	w := doJSON(r, http.MethodGet, "/api/bookings/9", bearerFor(t, 7, models.RoleUser), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "error.notOwner", errorCode(t, w))
}

func TestGetBookingInvalidID(t *testing.T) {
	wf := new(workflowMock)
	r := newBookingRouter(wf)

	w := doJSON(r, http.MethodGet, "/api/bookings/abc", bearerFor(t, 7, models.RoleUser), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error.invalidID", errorCode(t, w))
	wf.AssertNotCalled(t, "GetByID")
}

func TestCancelBookingAlreadyTerminal(t *testing.T) {
	wf := new(workflowMock)
	wf.On("Cancel", mock.Anything, uint(5), services.Actor{UserID: 7}).
		Return(nil, services.ErrCannotCancel)

	r := newBookingRouter(wf)
	w := doJSON(r, http.MethodPut, "/api/bookings/5/cancel", bearerFor(t, 7, models.RoleUser), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error.cannotCancel", errorCode(t, w))
}

func TestUpdateBookingStatus(t *testing.T) {
	wf := new(workflowMock)
	wf.On("SetStatus", mock.Anything, uint(5), models.StatusConfirmed).
		Return(&models.Booking{ID: 5, Status: models.StatusConfirmed}, nil)

	r := newBookingRouter(wf)
	admin := bearerFor(t, 1, models.RoleAdmin)
	w := doJSON(r, http.MethodPut, "/api/bookings/5/status", admin, gin.H{"status": "confirmed"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, models.StatusConfirmed, booking.Status)
}

func TestUpdateBookingStatusRejectsUnknownValue(t *testing.T) {
	wf := new(workflowMock)
	wf.On("SetStatus", mock.Anything, uint(5), "archived").
		Return(nil, services.ErrInvalidStatus)

	r := newBookingRouter(wf)
	admin := bearerFor(t, 1, models.RoleAdmin)
	w := doJSON(r, http.MethodPut, "/api/bookings/5/status", admin, gin.H{"status": "archived"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error.invalidStatus", errorCode(t, w))
}

func TestUpdateBookingStatusRequiresAdmin(t *testing.T) {
	wf := new(workflowMock)
	r := newBookingRouter(wf)

	w := doJSON(r, http.MethodPut, "/api/bookings/5/status",
		bearerFor(t, 7, models.RoleUser), gin.H{"status": "confirmed"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	wf.AssertNotCalled(t, "SetStatus")
}

func TestDeleteBookingNotFound(t *testing.T) {
	wf := new(workflowMock)
	wf.On("Delete", mock.Anything, uint(99)).Return(services.ErrBookingNotFound)

	r := newBookingRouter(wf)
	admin := bearerFor(t, 1, models.RoleAdmin)
	w := doJSON(r, http.MethodDelete, "/api/bookings/99", admin, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error.bookingNotFound", errorCode(t, w))
}

func TestCheckRoomAvailability(t *testing.T) {
	wf := new(workflowMock)
	wf.On("CheckAvailability", mock.Anything, uint(2), "2025-03-12", "2025-03-16").
		Return(false, "room is booked for the requested dates", nil)

	r := newBookingRouter(wf)
	w := doJSON(r, http.MethodGet,
		"/api/rooms/check-availability/2?checkIn=2025-03-12&checkOut=2025-03-16", "", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Available bool   `json:"available"`
		Message   string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Available)
	assert.Equal(t, "room is booked for the requested dates", body.Message)
}

func TestGetUserBookingsScopedToCaller(t *testing.T) {
	wf := new(workflowMock)
	wf.On("ListByUser", mock.Anything, uint(7)).Return([]models.Booking{
		{ID: 1, UserID: 7},
		{ID: 2, UserID: 7},
	}, nil)

	r := newBookingRouter(wf)
	w := doJSON(r, http.MethodGet, "/api/bookings/user", bearerFor(t, 7, models.RoleUser), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list []models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)
	wf.AssertExpectations(t)
}
