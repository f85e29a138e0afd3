package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joshua-takyi/tampabay/internal/connect"
	"github.com/joshua-takyi/tampabay/internal/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *bun.DB) error {
			group, err := migrations.Up(ctx, db)
			if err != nil {
				return err
			}
			if group.IsZero() {
				fmt.Println("there are no new migrations to run (database is up to date)")
				return nil
			}
			fmt.Printf("migrated to %s\n", group)
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration group",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *bun.DB) error {
			group, err := migrations.Down(ctx, db)
			if err != nil {
				return err
			}
			if group.IsZero() {
				fmt.Println("there are no groups to roll back")
				return nil
			}
			fmt.Printf("rolled back %s\n", group)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *bun.DB) error {
			ms, err := migrations.Status(ctx, db)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tSTATUS")
			for _, m := range ms {
				status := "pending"
				if m.IsApplied() {
					status = fmt.Sprintf("applied (group %d)", m.GroupID)
				}
				fmt.Fprintf(w, "%s\t%s\n", m.Name, status)
			}
			return w.Flush()
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func withDB(ctx context.Context, fn func(ctx context.Context, db *bun.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := connect.PostgresConnect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db)
}
