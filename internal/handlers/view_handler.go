package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tampabay/internal/services"
)

// GetEventViews returns view statistics for an event owned by the caller.
func GetEventViews(vs *services.ViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := parseID(c)
		if !ok {
			return
		}

		stats, err := vs.EventStats(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func GetMyViews(vs *services.ViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}

		stats, err := vs.OwnerStats(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
