package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/joshua-takyi/tampabay/internal/services"
)

// ReviewRequest is the accepted body for POST /api/Reviews. id, userId and
// createdAt are server-assigned and ignored.
type ReviewRequest struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title" binding:"required,max=200,nomarkup"`
	BestWorst string     `json:"bestWorst" binding:"max=200,nomarkup"`
	Body      string     `json:"body" binding:"max=4000,nomarkup"`
	EventID   int64      `json:"eventId" binding:"required,gt=0"`
	UserID    *int64     `json:"userId"`
	CreatedAt *time.Time `json:"createdAt"`
}

func CreateReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}

		var req ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		review, err := rs.CreateReview(c.Request.Context(), userID, &models.Review{
			Title:     req.Title,
			BestWorst: req.BestWorst,
			Body:      req.Body,
			EventID:   req.EventID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

func DeleteReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := rs.DeleteReview(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
