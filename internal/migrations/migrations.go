package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

//go:embed *.sql
var sqlMigrations embed.FS

func init() {
	if err := Migrations.Discover(sqlMigrations); err != nil {
		panic(fmt.Sprintf("error discovering migrations: %v", err))
	}
}

// Up applies every pending migration and returns the group that was applied.
// An empty group means the schema was already current.
func Up(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return group, nil
}

// Down rolls back the most recently applied group.
func Down(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to roll back: %w", err)
	}
	return group, nil
}

func Status(ctx context.Context, db *bun.DB) (migrate.MigrationSlice, error) {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	return migrator.MigrationsWithStatus(ctx)
}
