package services

import (
	"context"
	"testing"

	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/joshua-takyi/tampabay/internal/models/modelstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewLifecycle(t *testing.T) {
	ctx := context.Background()
	store := modelstest.NewMemoryStore()
	store.PutEvent(models.Event{ID: 1, Name: "Beach Cleanup", UserID: 7})
	rs := NewReviewService(store, store)

	_, err := rs.CreateReview(ctx, 9, &models.Review{Title: "Nope", EventID: 404})
	assert.ErrorIs(t, err, models.ErrNotFound)

	review, err := rs.CreateReview(ctx, 9, &models.Review{Title: " Fun day & night > expected ", EventID: 1, UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(9), review.UserID)
	assert.Equal(t, "Fun day & night > expected", review.Title)
	assert.False(t, review.CreatedAt.IsZero())

	assert.ErrorIs(t, rs.DeleteReview(ctx, 7, review.ID), ErrNotOwner)
	require.NoError(t, rs.DeleteReview(ctx, 9, review.ID))
	assert.ErrorIs(t, rs.DeleteReview(ctx, 9, review.ID), models.ErrNotFound)
}

func TestCreateReviewValidates(t *testing.T) {
	store := modelstest.NewMemoryStore()
	rs := NewReviewService(store, store)

	_, err := rs.CreateReview(context.Background(), 9, &models.Review{EventID: 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "The title field is required.")
}

func TestCreateReviewRejectsMarkup(t *testing.T) {
	store := modelstest.NewMemoryStore()
	store.PutEvent(models.Event{ID: 1, Name: "Beach Cleanup", UserID: 7})
	rs := NewReviewService(store, store)

	_, err := rs.CreateReview(context.Background(), 9, &models.Review{Title: "Fun", Body: "<script>x()</script>", EventID: 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"The body field must not contain HTML markup."}, verr.Messages)
}

// staleEvents reports every event as present, as if the event was deleted after
// the existence check ran.
type staleEvents struct {
	*modelstest.MemoryStore
}

func (staleEvents) EventExists(ctx context.Context, id int64) (bool, error) {
	return true, nil
}

func TestCreateReviewEventDeletedBeforeInsert(t *testing.T) {
	store := modelstest.NewMemoryStore()
	rs := NewReviewService(store, staleEvents{store})

	_, err := rs.CreateReview(context.Background(), 9, &models.Review{Title: "Too late", EventID: 1})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
