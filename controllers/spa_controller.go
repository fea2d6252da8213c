package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/models"
	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

type SpaServicePayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    string  `json:"duration"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	IsAvailable bool    `json:"isAvailable"`
}

type SpaBookingPayload struct {
	ServiceID uint   `json:"serviceId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Notes     string `json:"notes"`
}

type SpaController struct {
	Spa *services.SpaService
}

func NewSpaController(spa *services.SpaService) *SpaController {
	return &SpaController{Spa: spa}
}

func (ctrl *SpaController) GetServices(c *gin.Context) {
	list, err := ctrl.Spa.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *SpaController) GetService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	service, err := ctrl.Spa.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, service)
}

func (ctrl *SpaController) CreateService(c *gin.Context) {
	var payload SpaServicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "malformed request body")
		return
	}
	service := models.SpaService{
		Title:       payload.Title,
		Description: payload.Description,
		Duration:    payload.Duration,
		Price:       payload.Price,
		Image:       payload.Image,
		Category:    payload.Category,
		IsAvailable: payload.IsAvailable,
	}
	if err := ctrl.Spa.Create(c.Request.Context(), &service); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, service)
}

func (ctrl *SpaController) UpdateService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload SpaServicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "malformed request body")
		return
	}
	update := models.SpaService{
		Title:       payload.Title,
		Description: payload.Description,
		Duration:    payload.Duration,
		Price:       payload.Price,
		Image:       payload.Image,
		Category:    payload.Category,
		IsAvailable: payload.IsAvailable,
	}
	service, err := ctrl.Spa.Update(c.Request.Context(), id, &update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, service)
}

func (ctrl *SpaController) DeleteService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.Spa.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "spa service deleted")
}

// BookService validates the request and acknowledges the booking; spa
// bookings are not persisted.
func (ctrl *SpaController) BookService(c *gin.Context) {
	var payload SpaBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "malformed request body")
		return
	}
	if payload.ServiceID == 0 || strings.TrimSpace(payload.Date) == "" || strings.TrimSpace(payload.Time) == "" {
		respondServiceError(c, services.ErrMissingFields)
		return
	}

	service, err := ctrl.Spa.Book(c.Request.Context(), payload.ServiceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"message": "spa service booked",
		"booking": gin.H{
			"service": service,
			"date":    payload.Date,
			"time":    payload.Time,
			"notes":   payload.Notes,
			"status":  models.StatusPending,
		},
	})
}
