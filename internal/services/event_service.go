package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshua-takyi/tampabay/internal/models"
)

type EventService struct {
	eventsRepo models.EventsRepo
}

func NewEventService(eventsRepo models.EventsRepo) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
	}
}

func (es *EventService) ListEvents(ctx context.Context, filter string) ([]*models.Event, error) {
	return es.eventsRepo.ListEvents(ctx, filter)
}

func (es *EventService) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return es.eventsRepo.GetEventByID(ctx, id)
}

// CreateEvent stores event as owned by userID, whatever owner the caller supplied.
func (es *EventService) CreateEvent(ctx context.Context, userID int64, event *models.Event) (*models.Event, error) {
	event.Trim()
	if err := models.Validate.Struct(event); err != nil {
		return nil, NewValidationError(err)
	}

	event.ID = 0
	event.UserID = userID
	return es.eventsRepo.CreateEvent(ctx, event)
}

// UpdateEvent replaces the editable fields of event routeID. Ownership is checked
// before the route id is compared with the payload id.
func (es *EventService) UpdateEvent(ctx context.Context, userID, routeID int64, event *models.Event) error {
	existing, err := es.eventsRepo.FindEvent(ctx, routeID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrNotOwner
		}
		return err
	}
	if existing.UserID != userID {
		return ErrNotOwner
	}
	if event.ID != routeID {
		return ErrIDMismatch
	}

	event.Trim()
	if err := models.Validate.Struct(event); err != nil {
		return NewValidationError(err)
	}
	event.UserID = existing.UserID

	err = es.eventsRepo.UpdateEvent(ctx, event)
	if errors.Is(err, models.ErrConflict) {
		exists, existsErr := es.eventsRepo.EventExists(ctx, routeID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return models.ErrNotFound
		}
		return fmt.Errorf("event %d: %w", routeID, err)
	}
	return err
}

// DeleteEvent checks existence before ownership.
func (es *EventService) DeleteEvent(ctx context.Context, userID, id int64) error {
	event, err := es.eventsRepo.FindEvent(ctx, id)
	if err != nil {
		return err
	}
	if event.UserID != userID {
		return ErrNotOwner
	}
	return es.eventsRepo.DeleteEvent(ctx, id)
}
