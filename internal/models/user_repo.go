package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// pgErrorCode returns the SQLSTATE of a Postgres error, or "" for anything else.
func pgErrorCode(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	return ""
}

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

func (pg *PostgresRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	user.ID = 0
	if _, err := pg.db.NewInsert().Model(user).Returning("*").Exec(ctx); err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

func (pg *PostgresRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user := new(User)
	err := pg.db.NewSelect().Model(user).Where("lower(u.email) = lower(?)", email).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}
	return user, nil
}

func (pg *PostgresRepo) GetUserByID(ctx context.Context, id int64) (*User, error) {
	user := new(User)
	err := pg.db.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting user %d: %w", id, err)
	}
	return user, nil
}
