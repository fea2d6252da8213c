package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-booking-api/logger"
	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

type errorMapping struct {
	status int
	code   string
}

var serviceErrorMap = map[error]errorMapping{
	services.ErrMissingFields:    {http.StatusBadRequest, "error.validation"},
	services.ErrInvalidDateRange: {http.StatusBadRequest, "error.invalidDateRange"},
	services.ErrInvalidDate:      {http.StatusBadRequest, "error.invalidDate"},
	services.ErrInvalidStatus:    {http.StatusBadRequest, "error.invalidStatus"},
	services.ErrCannotCancel:     {http.StatusBadRequest, "error.cannotCancel"},
	services.ErrInvalidCategory:  {http.StatusBadRequest, "error.invalidCategory"},
	services.ErrEmailTaken:       {http.StatusBadRequest, "error.emailTaken"},
	services.ErrWeakPassword:     {http.StatusBadRequest, "error.weakPassword"},
	services.ErrSpaUnavailable:   {http.StatusBadRequest, "error.spaUnavailable"},

	services.ErrRoomNotFound:    {http.StatusNotFound, "error.roomNotFound"},
	services.ErrBookingNotFound: {http.StatusNotFound, "error.bookingNotFound"},
	services.ErrUserNotFound:    {http.StatusNotFound, "error.userNotFound"},
	services.ErrSpaNotFound:     {http.StatusNotFound, "error.spaNotFound"},

	services.ErrRoomConflict:    {http.StatusConflict, "error.roomUnavailable"},
	services.ErrRoomHasBookings: {http.StatusConflict, "error.roomHasBookings"},
	services.ErrUserHasBookings: {http.StatusConflict, "error.userHasBookings"},

	services.ErrInvalidCredentials: {http.StatusUnauthorized, "error.invalidCredentials"},
	services.ErrNotOwner:           {http.StatusForbidden, "error.notOwner"},
}

// respondServiceError translates a service error onto the HTTP taxonomy.
// Unrecognized errors are logged and reported as internal.
func respondServiceError(c *gin.Context, err error) {
	for sentinel, m := range serviceErrorMap {
		if errors.Is(err, sentinel) {
			utils.JSONError(c, m.status, m.code, sentinel.Error())
			return
		}
	}
	logger.Error("internal error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal server error")
}
