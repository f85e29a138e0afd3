package services

import (
	"context"

	"github.com/joshua-takyi/tampabay/internal/metrics"
	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/rs/zerolog"
)

// Viewer identifies who looked at an event.
type Viewer struct {
	UserID    *int64
	SessionID string
	IPAddress string
	UserAgent string
}

type ViewService struct {
	viewsRepo  models.EventViewsRepo
	eventsRepo models.EventsRepo
}

// NewViewService accepts a nil viewsRepo, which disables tracking.
func NewViewService(viewsRepo models.EventViewsRepo, eventsRepo models.EventsRepo) *ViewService {
	return &ViewService{
		viewsRepo:  viewsRepo,
		eventsRepo: eventsRepo,
	}
}

func (vs *ViewService) Enabled() bool {
	return vs.viewsRepo != nil
}

// TrackView records a view of event. Failures are logged and swallowed.
func (vs *ViewService) TrackView(ctx context.Context, event *models.Event, viewer Viewer) {
	if !vs.Enabled() {
		return
	}

	view := &models.EventView{
		EventID:   event.ID,
		OwnerID:   event.UserID,
		UserID:    viewer.UserID,
		SessionID: viewer.SessionID,
		IPAddress: viewer.IPAddress,
		UserAgent: viewer.UserAgent,
	}
	if err := models.Validate.Struct(view); err != nil {
		metrics.ObserveView(metrics.ViewError)
		zerolog.Ctx(ctx).Warn().Err(err).Int64("event_id", event.ID).Msg("invalid event view")
		return
	}

	tracked, err := vs.viewsRepo.TrackEventView(ctx, view)
	switch {
	case err != nil:
		metrics.ObserveView(metrics.ViewError)
		zerolog.Ctx(ctx).Warn().Err(err).Int64("event_id", event.ID).Msg("failed to track event view")
	case tracked:
		metrics.ObserveView(metrics.ViewTracked)
	default:
		metrics.ObserveView(metrics.ViewDuplicate)
	}
}

// EventStats returns view statistics for one event. Only the owner may read them.
func (vs *ViewService) EventStats(ctx context.Context, userID, eventID int64) (*models.EventViewStats, error) {
	if !vs.Enabled() {
		return nil, ErrViewsDisabled
	}
	event, err := vs.eventsRepo.FindEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, ErrNotOwner
	}
	return vs.viewsRepo.GetEventViewStats(ctx, eventID)
}

func (vs *ViewService) OwnerStats(ctx context.Context, userID int64) (*models.OwnerViewStats, error) {
	if !vs.Enabled() {
		return nil, ErrViewsDisabled
	}
	return vs.viewsRepo.GetOwnerViewStats(ctx, userID)
}
