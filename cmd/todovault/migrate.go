package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/todovault/todovault"
	"github.com/todovault/todovault/database/postgres"
	"github.com/todovault/todovault/database/sqlite"

	_ "modernc.org/sqlite" // SQLite driver
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Create or update the todos table in the configured database.

The dynamodb backend is not supported; its table and owner index are
provisioned externally.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := configFromContext(ctx)
	if err != nil {
		return err
	}

	tables := todovault.Tables{Todos: cfg.Database.Table}
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}

	switch cfg.Database.Type {
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		defer func() { _ = db.Close() }()

		if err := sqlite.Migrate(ctx, db, tables); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool, tables); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}

	case "dynamodb":
		return fmt.Errorf("dynamodb tables are provisioned externally; migrate does not apply")

	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	slog.Info("migration complete", "type", cfg.Database.Type, "table", tables.Todos)
	return nil
}
