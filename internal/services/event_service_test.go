package services

import (
	"context"
	"testing"

	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/joshua-takyi/tampabay/internal/models/modelstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventForcesOwner(t *testing.T) {
	store := modelstest.NewMemoryStore()
	es := NewEventService(store)

	event, err := es.CreateEvent(context.Background(), 7, &models.Event{ID: 55, Name: " Beach Cleanup ", UserID: 99})
	require.NoError(t, err)
	assert.Equal(t, int64(7), event.UserID)
	assert.Equal(t, int64(1), event.ID)
	assert.Equal(t, "Beach Cleanup", event.Name)
}

func TestCreateEventRejectsBlankNameAfterTrimming(t *testing.T) {
	es := NewEventService(modelstest.NewMemoryStore())

	_, err := es.CreateEvent(context.Background(), 7, &models.Event{Name: "   "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"The name field is required."}, verr.Messages)
}

func TestCreateEventRejectsMarkup(t *testing.T) {
	es := NewEventService(modelstest.NewMemoryStore())

	_, err := es.CreateEvent(context.Background(), 7, &models.Event{Name: "Beach Cleanup", Address: "<a href=x>Pier 60</a>"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"The address field must not contain HTML markup."}, verr.Messages)
}

func TestUpdateEventChecks(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int64
		routeID int64
		bodyID  int64
		wantErr error
	}{
		{"owner", 7, 1, 1, nil},
		{"owner with mismatched id", 7, 1, 2, ErrIDMismatch},
		{"non-owner", 9, 1, 1, ErrNotOwner},
		{"non-owner with mismatched id", 9, 1, 2, ErrNotOwner},
		{"missing event", 7, 404, 404, ErrNotOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := modelstest.NewMemoryStore()
			store.PutEvent(models.Event{ID: 1, Name: "Beach Cleanup", Category: "Outdoors", UserID: 7})
			es := NewEventService(store)

			err := es.UpdateEvent(ctx, tt.userID, tt.routeID, &models.Event{ID: tt.bodyID, Name: "Renamed", UserID: 9})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			stored, err := store.FindEvent(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, "Renamed", stored.Name)
			assert.Equal(t, "", stored.Category, "PUT replaces every editable field")
			assert.Equal(t, int64(7), stored.UserID)
		})
	}
}

func TestUpdateEventConflict(t *testing.T) {
	ctx := context.Background()

	t.Run("row deleted underneath becomes not found", func(t *testing.T) {
		store := modelstest.NewMemoryStore()
		store.PutEvent(models.Event{ID: 1, Name: "Beach Cleanup", UserID: 7})
		store.OnUpdate = func(e *models.Event) error {
			store.RemoveEvent(e.ID)
			return nil
		}

		err := NewEventService(store).UpdateEvent(ctx, 7, 1, &models.Event{ID: 1, Name: "Renamed"})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("conflict on a surviving row is fatal", func(t *testing.T) {
		store := modelstest.NewMemoryStore()
		store.PutEvent(models.Event{ID: 1, Name: "Beach Cleanup", UserID: 7})
		store.OnUpdate = func(e *models.Event) error { return models.ErrConflict }

		err := NewEventService(store).UpdateEvent(ctx, 7, 1, &models.Event{ID: 1, Name: "Renamed"})
		assert.ErrorIs(t, err, models.ErrConflict)
		assert.NotErrorIs(t, err, models.ErrNotFound)
	})
}

func TestDeleteEventChecksExistenceFirst(t *testing.T) {
	ctx := context.Background()
	store := modelstest.NewMemoryStore()
	store.PutEvent(models.Event{ID: 1, Name: "Beach Cleanup", UserID: 7})
	es := NewEventService(store)

	assert.ErrorIs(t, es.DeleteEvent(ctx, 9, 404), models.ErrNotFound)
	assert.ErrorIs(t, es.DeleteEvent(ctx, 9, 1), ErrNotOwner)
	require.NoError(t, es.DeleteEvent(ctx, 7, 1))
	assert.ErrorIs(t, es.DeleteEvent(ctx, 7, 1), models.ErrNotFound)
}
