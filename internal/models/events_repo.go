package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

type EventsRepo interface {
	// ListEvents returns events ordered by name with their reviews attached.
	// A non-empty filter keeps events whose name or category contains it.
	ListEvents(ctx context.Context, filter string) ([]*Event, error)
	// GetEventByID returns the event with its reviews and each review's author.
	GetEventByID(ctx context.Context, id int64) (*Event, error)
	FindEvent(ctx context.Context, id int64) (*Event, error)
	EventExists(ctx context.Context, id int64) (bool, error)
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	UpdateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id int64) error
}

func (pg *PostgresRepo) ListEvents(ctx context.Context, filter string) ([]*Event, error) {
	events := make([]*Event, 0)
	q := pg.db.NewSelect().
		Model(&events).
		Relation("Reviews", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("r.id ASC")
		}).
		OrderExpr("e.name ASC").
		OrderExpr("e.id ASC")

	if filter != "" {
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("strpos(e.name, ?) > 0", filter).
				WhereOr("strpos(e.category, ?) > 0", filter)
		})
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	for _, e := range events {
		e.ensureReviews()
	}
	return events, nil
}

func (pg *PostgresRepo) GetEventByID(ctx context.Context, id int64) (*Event, error) {
	event := new(Event)
	err := pg.db.NewSelect().
		Model(event).
		Relation("Reviews", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("r.id ASC")
		}).
		Relation("Reviews.User").
		Where("e.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting event %d: %w", id, err)
	}
	event.ensureReviews()
	return event, nil
}

// FindEvent loads the bare row, without relations.
func (pg *PostgresRepo) FindEvent(ctx context.Context, id int64) (*Event, error) {
	event := new(Event)
	err := pg.db.NewSelect().Model(event).Where("e.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding event %d: %w", id, err)
	}
	return event, nil
}

func (pg *PostgresRepo) EventExists(ctx context.Context, id int64) (bool, error) {
	exists, err := pg.db.NewSelect().Model((*Event)(nil)).Where("e.id = ?", id).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("error checking event %d: %w", id, err)
	}
	return exists, nil
}

func (pg *PostgresRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	event.ID = 0
	if _, err := pg.db.NewInsert().Model(event).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	event.ensureReviews()
	return event, nil
}

// UpdateEvent replaces the editable columns of the row with event.ID. It returns
// ErrConflict when no row was written.
func (pg *PostgresRepo) UpdateEvent(ctx context.Context, event *Event) error {
	res, err := pg.db.NewUpdate().
		Model(event).
		Column(EditableColumns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("error updating event %d: %w", event.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error updating event %d: %w", event.ID, err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (pg *PostgresRepo) DeleteEvent(ctx context.Context, id int64) error {
	res, err := pg.db.NewDelete().Model((*Event)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("error deleting event %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting event %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
