package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/metrics"
	"hotel-booking-api/middleware"
	"hotel-booking-api/models"
	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

// GuestInfoPayload is the contact block guests submit instead of a session.
type GuestInfoPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type CreateBookingPayload struct {
	RoomID          uint              `json:"roomId"`
	CheckIn         string            `json:"checkIn"`
	CheckOut        string            `json:"checkOut"`
	GuestCount      int               `json:"guestCount"`
	SpecialRequests string            `json:"specialRequests"`
	UserInfo        *GuestInfoPayload `json:"userInfo"`
}

type UpdateStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// BookingWorkflow is the slice of the booking service the controller needs;
// handler tests substitute a mock.
type BookingWorkflow interface {
	Create(ctx context.Context, req *services.BookingRequest) (*models.Booking, error)
	CheckAvailability(ctx context.Context, roomID uint, checkIn, checkOut string) (bool, string, error)
	GetByID(ctx context.Context, id uint, actor services.Actor) (*models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Booking, error)
	Recent(ctx context.Context, limit int) ([]models.Booking, error)
	SetStatus(ctx context.Context, id uint, status string) (*models.Booking, error)
	Cancel(ctx context.Context, id uint, actor services.Actor) (*models.Booking, error)
	Delete(ctx context.Context, id uint) error
}

type BookingController struct {
	Workflow BookingWorkflow
	Metrics  *metrics.Metrics
}

func NewBookingController(workflow BookingWorkflow, m *metrics.Metrics) *BookingController {
	return &BookingController{Workflow: workflow, Metrics: m}
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidID", "invalid id format")
		return 0, false
	}
	return uint(id), true
}

func actorFrom(c *gin.Context) services.Actor {
	id, ok := middleware.CallerFrom(c)
	if !ok {
		return services.Actor{}
	}
	return services.Actor{UserID: id.UserID, Admin: id.IsAdmin()}
}

func (ctrl *BookingController) bookingOutcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, services.ErrRoomConflict):
		return "conflict"
	case errors.Is(err, services.ErrRoomNotFound):
		return "not_found"
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidDateRange):
		return "validation"
	default:
		return "error"
	}
}

// CreateBooking accepts authenticated and guest requests alike; identity is
// resolved by the workflow from the optional caller and the userInfo block.
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var payload CreateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "malformed request body")
		return
	}

	req := &services.BookingRequest{
		RoomID:          payload.RoomID,
		CheckIn:         payload.CheckIn,
		CheckOut:        payload.CheckOut,
		GuestCount:      payload.GuestCount,
		SpecialRequests: payload.SpecialRequests,
	}
	if caller, ok := middleware.CallerFrom(c); ok {
		req.UserID = caller.UserID
	} else if payload.UserInfo != nil {
		req.Guest = &services.GuestContact{
			FirstName: payload.UserInfo.FirstName,
			LastName:  payload.UserInfo.LastName,
			Email:     payload.UserInfo.Email,
			Phone:     payload.UserInfo.Phone,
		}
	}

	booking, err := ctrl.Workflow.Create(c.Request.Context(), req)
	if ctrl.Metrics != nil {
		ctrl.Metrics.BookingsTotal.WithLabelValues(ctrl.bookingOutcome(err)).Inc()
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GetBookings lists every booking. Admin only.
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	bookings, err := ctrl.Workflow.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GetUserBookings lists the caller's own bookings.
func (ctrl *BookingController) GetUserBookings(c *gin.Context) {
	actor := actorFrom(c)
	bookings, err := ctrl.Workflow.ListByUser(c.Request.Context(), actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GetRecentBookings returns the newest bookings for the admin dashboard.
func (ctrl *BookingController) GetRecentBookings(c *gin.Context) {
	bookings, err := ctrl.Workflow.Recent(c.Request.Context(), 5)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.Workflow.GetByID(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// UpdateBookingStatus overwrites the status. Admin only.
func (ctrl *BookingController) UpdateBookingStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload UpdateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "status is required")
		return
	}
	booking, err := ctrl.Workflow.SetStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.Workflow.Cancel(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.Workflow.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "booking deleted")
}

// CheckRoomAvailability answers the public availability query for a room.
func (ctrl *BookingController) CheckRoomAvailability(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	available, message, err := ctrl.Workflow.CheckAvailability(
		c.Request.Context(), id, c.Query("checkIn"), c.Query("checkOut"),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"available": available,
		"message":   message,
	})
}
