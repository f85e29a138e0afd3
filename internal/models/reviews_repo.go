package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type ReviewsRepo interface {
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	FindReview(ctx context.Context, id int64) (*Review, error)
	DeleteReview(ctx context.Context, id int64) error
}

// CreateReview inserts review. A review whose event no longer exists fails the
// foreign key and is reported as ErrNotFound.
func (pg *PostgresRepo) CreateReview(ctx context.Context, review *Review) (*Review, error) {
	review.ID = 0
	if _, err := pg.db.NewInsert().Model(review).Returning("*").Exec(ctx); err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return nil, fmt.Errorf("event %d: %w", review.EventID, ErrNotFound)
		}
		return nil, fmt.Errorf("error creating review: %w", err)
	}
	return review, nil
}

func (pg *PostgresRepo) FindReview(ctx context.Context, id int64) (*Review, error) {
	review := new(Review)
	err := pg.db.NewSelect().Model(review).Where("r.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding review %d: %w", id, err)
	}
	return review, nil
}

func (pg *PostgresRepo) DeleteReview(ctx context.Context, id int64) error {
	res, err := pg.db.NewDelete().Model((*Review)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("error deleting review %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting review %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
