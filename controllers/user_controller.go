package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/middleware"
	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

type ProfileUpdatePayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type AdminUserUpdatePayload struct {
	ProfileUpdatePayload
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ChangePasswordPayload struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// GetProfile returns the caller's own account.
func (ctrl *UserController) GetProfile(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)
	user, err := ctrl.Users.GetByID(c.Request.Context(), caller.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// UpdateProfile applies the caller's own changes; role and email stay fixed.
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	var payload ProfileUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "malformed request body")
		return
	}

	caller, _ := middleware.CallerFrom(c)
	user, err := ctrl.Users.UpdateProfile(c.Request.Context(), caller.UserID, services.ProfileUpdate{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Address:   payload.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

func (ctrl *UserController) ChangePassword(c *gin.Context) {
	var payload ChangePasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "current and new password are required")
		return
	}

	caller, _ := middleware.CallerFrom(c)
	if err := ctrl.Users.ChangePassword(c.Request.Context(), caller.UserID,
		payload.CurrentPassword, payload.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "password changed")
}

// GetUsers lists all accounts. Admin only.
func (ctrl *UserController) GetUsers(c *gin.Context) {
	users, err := ctrl.Users.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	user, err := ctrl.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// UpdateUser applies an admin's changes, including email and role.
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload AdminUserUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "malformed request body")
		return
	}

	user, err := ctrl.Users.AdminUpdate(c.Request.Context(), id, services.AdminUserUpdate{
		ProfileUpdate: services.ProfileUpdate{
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Phone:     payload.Phone,
			Address:   payload.Address,
		},
		Email: payload.Email,
		Role:  payload.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctrl.Users.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "user deleted")
}
