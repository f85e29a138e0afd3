package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tampabay/internal/middleware"
	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/joshua-takyi/tampabay/internal/services"
)

func abortWithErrors(c *gin.Context, status int, msgs ...string) {
	c.AbortWithStatusJSON(status, models.NewErrorBody(status, msgs...))
}

// respondError maps service and store errors onto the wire. Anything unknown is
// handed to the ErrorHandler middleware, which renders a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithErrors(c, http.StatusBadRequest, verr.Messages...)
	case errors.Is(err, models.ErrNotFound):
		abortWithErrors(c, http.StatusNotFound, "Not Found")
	case errors.Is(err, services.ErrNotOwner):
		abortWithErrors(c, http.StatusUnauthorized, "Not Authorized")
	case errors.Is(err, services.ErrIDMismatch):
		abortWithErrors(c, http.StatusBadRequest, "The id in the URL does not match the id in the body.")
	case errors.Is(err, services.ErrInvalidCredentials):
		abortWithErrors(c, http.StatusBadRequest, "The email or password is incorrect.")
	case errors.Is(err, services.ErrEmailTaken):
		abortWithErrors(c, http.StatusBadRequest, "That email address is already taken.")
	case errors.Is(err, services.ErrViewsDisabled):
		abortWithErrors(c, http.StatusServiceUnavailable, "View tracking is not enabled.")
	default:
		_ = c.Error(err)
		c.Abort()
	}
}

// respondBindError renders a request body that could not be decoded or validated.
func respondBindError(c *gin.Context, err error) {
	abortWithErrors(c, http.StatusBadRequest, services.NewValidationError(err).Messages...)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithErrors(c, http.StatusBadRequest, "The id must be an integer.")
		return 0, false
	}
	return id, true
}

// actingUser returns the authenticated caller. Routes using it sit behind AuthMiddleware.
func actingUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		abortWithErrors(c, http.StatusUnauthorized, "Not Authorized")
	}
	return userID, ok
}
