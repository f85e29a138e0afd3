package services

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/tampabay/internal/models"
)

type ReviewService struct {
	reviewsRepo models.ReviewsRepo
	eventsRepo  models.EventsRepo
}

func NewReviewService(reviewsRepo models.ReviewsRepo, eventsRepo models.EventsRepo) *ReviewService {
	return &ReviewService{
		reviewsRepo: reviewsRepo,
		eventsRepo:  eventsRepo,
	}
}

func (rs *ReviewService) CreateReview(ctx context.Context, userID int64, review *models.Review) (*models.Review, error) {
	review.Trim()
	if err := models.Validate.Struct(review); err != nil {
		return nil, NewValidationError(err)
	}

	exists, err := rs.eventsRepo.EventExists(ctx, review.EventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("event %d: %w", review.EventID, models.ErrNotFound)
	}

	review.ID = 0
	review.UserID = userID
	review.User = nil
	review.CreatedAt = time.Now().UTC()
	return rs.reviewsRepo.CreateReview(ctx, review)
}

func (rs *ReviewService) DeleteReview(ctx context.Context, userID, id int64) error {
	review, err := rs.reviewsRepo.FindReview(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return ErrNotOwner
	}
	return rs.reviewsRepo.DeleteReview(ctx, id)
}
