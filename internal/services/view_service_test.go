package services

import (
	"context"
	"testing"

	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/joshua-takyi/tampabay/internal/models/modelstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewServiceDisabled(t *testing.T) {
	vs := NewViewService(nil, modelstest.NewMemoryStore())
	assert.False(t, vs.Enabled())

	vs.TrackView(context.Background(), &models.Event{ID: 1}, Viewer{SessionID: "s"})
	_, err := vs.EventStats(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrViewsDisabled)
	_, err = vs.OwnerStats(context.Background(), 7)
	assert.ErrorIs(t, err, ErrViewsDisabled)
}

func TestViewServiceTracksAndDedupes(t *testing.T) {
	ctx := context.Background()
	store := modelstest.NewMemoryStore()
	beach := store.PutEvent(models.Event{ID: 1, Name: "Beach Cleanup", UserID: 7})
	art := store.PutEvent(models.Event{ID: 2, Name: "Art Walk", UserID: 7})
	vs := NewViewService(modelstest.NewMemoryViews(), store)

	vs.TrackView(ctx, &beach, Viewer{SessionID: "a"})
	vs.TrackView(ctx, &beach, Viewer{SessionID: "a"})
	vs.TrackView(ctx, &beach, Viewer{SessionID: "b"})
	vs.TrackView(ctx, &art, Viewer{SessionID: "a"})
	vs.TrackView(ctx, &art, Viewer{SessionID: ""})

	stats, err := vs.EventStats(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalViews)
	assert.Equal(t, int64(2), stats.UniqueViews)

	_, err = vs.EventStats(ctx, 9, 1)
	assert.ErrorIs(t, err, ErrNotOwner)
	_, err = vs.EventStats(ctx, 7, 404)
	assert.ErrorIs(t, err, models.ErrNotFound)

	owner, err := vs.OwnerStats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), owner.TotalViews)
	assert.Equal(t, int64(2), owner.UniqueViews)
	assert.Equal(t, int64(2), owner.TotalEvents)
}
