package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tampabay/internal/middleware"
	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/joshua-takyi/tampabay/internal/services"
)

const viewTrackingTimeout = 2 * time.Second

// EventRequest is the accepted body for POST and PUT. userId and reviews are
// accepted because clients echo back what they fetched, but they are ignored.
type EventRequest struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name" binding:"required,max=200,nomarkup"`
	Description  string          `json:"description" binding:"max=2000,nomarkup"`
	Requirements string          `json:"requirements" binding:"max=2000,nomarkup"`
	Category     string          `json:"category" binding:"max=2000,nomarkup"`
	Cost         float64         `json:"cost" binding:"gte=0,lte=9999999999.99"`
	Address      string          `json:"address" binding:"max=2000,nomarkup"`
	UserID       *int64          `json:"userId"`
	Reviews      json.RawMessage `json:"reviews"`
}

func (r *EventRequest) toModel() *models.Event {
	return &models.Event{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Requirements: r.Requirements,
		Category:     r.Category,
		Cost:         r.Cost,
		Address:      r.Address,
	}
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := es.ListEvents(c.Request.Context(), c.Query("filter"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

func GetEvent(es *services.EventService, vs *services.ViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		event, err := es.GetEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, event)
		trackAfterResponse(c, vs, event)
	}
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}

		var req EventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		event, err := es.CreateEvent(c.Request.Context(), userID, req.toModel())
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Location", "/api/Events/"+strconv.FormatInt(event.ID, 10))
		c.JSON(http.StatusCreated, event)
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := parseID(c)
		if !ok {
			return
		}

		var req EventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		if err := es.UpdateEvent(c.Request.Context(), userID, id, req.toModel()); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := es.DeleteEvent(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// trackAfterResponse flushes the rendered response before recording the view, so
// a slow view store never delays the client. The request context's cancellation
// is dropped since the client may already have gone.
func trackAfterResponse(c *gin.Context, vs *services.ViewService, event *models.Event) {
	if !vs.Enabled() {
		return
	}
	viewer := viewerFrom(c)
	c.Writer.Flush()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), viewTrackingTimeout)
	defer cancel()
	vs.TrackView(ctx, event, viewer)
}

// viewerFrom keys anonymous viewers by X-Session-ID, falling back to a hash of
// client IP and user agent.
func viewerFrom(c *gin.Context) services.Viewer {
	viewer := services.Viewer{
		SessionID: c.GetHeader("X-Session-ID"),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if userID, ok := middleware.UserID(c); ok {
		viewer.UserID = &userID
	}
	if viewer.SessionID == "" {
		sum := sha256.Sum256([]byte(viewer.IPAddress + "|" + viewer.UserAgent))
		viewer.SessionID = hex.EncodeToString(sum[:16])
	}
	return viewer
}
