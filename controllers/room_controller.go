package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

type RoomPayload struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Capacity    *int     `json:"capacity"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
	IsAvailable *bool    `json:"isAvailable"`
}

func (p *RoomPayload) toInput() services.RoomInput {
	return services.RoomInput{
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Capacity:    p.Capacity,
		Description: p.Description,
		Amenities:   p.Amenities,
		Images:      p.Images,
		IsAvailable: p.IsAvailable,
	}
}

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.Rooms.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	room, err := ctrl.Rooms.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var payload RoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "malformed request body")
		return
	}
	room, err := ctrl.Rooms.Create(c.Request.Context(), payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload RoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "malformed request body")
		return
	}
	room, err := ctrl.Rooms.Update(c.Request.Context(), id, payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.Rooms.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "room deleted")
}
