package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/config"
	"hotel-booking-api/models"
	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

type RegisterPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type LoginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Users  *services.UserService
	Secret string
}

func NewAuthController(users *services.UserService, secret string) *AuthController {
	return &AuthController{Users: users, Secret: secret}
}

func tokenTTL() time.Duration {
	if v := config.EnvOrDefault("JWT_TTL_MINUTES", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return 24 * time.Hour
}

func (ctrl *AuthController) issueToken(c *gin.Context, status int, user *models.User) {
	token, err := utils.NewAccessToken(ctrl.Secret, user.ID, user.Role, tokenTTL())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, status, gin.H{
		"token": token,
		"user":  user,
	})
}

// Register creates an account and signs the caller in.
func (ctrl *AuthController) Register(c *gin.Context) {
	var payload RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "malformed request body")
		return
	}

	user, err := ctrl.Users.Register(c.Request.Context(), services.RegisterInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
		Phone:     payload.Phone,
		Address:   payload.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ctrl.issueToken(c, http.StatusCreated, user)
}

// Login verifies credentials and returns a fresh token.
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "email and password are required")
		return
	}

	user, err := ctrl.Users.Authenticate(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ctrl.issueToken(c, http.StatusOK, user)
}
