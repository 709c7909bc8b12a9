package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/todovault/todovault"
)

func createTodosTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexTodoID := pgx.Identifier{fmt.Sprintf("idx_%s_todo_id", tableName)}.Sanitize()
	indexOwner := pgx.Identifier{fmt.Sprintf("idx_%s_owner_id", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			todo_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			due_date TEXT NOT NULL,
			done BOOLEAN NOT NULL DEFAULT FALSE,
			attachment_url TEXT NOT NULL,
			PRIMARY KEY (todo_id, created_at)
		);

		CREATE UNIQUE INDEX IF NOT EXISTS %s
		ON %s (todo_id);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (owner_id, created_at);
	`,
		quotedTable,
		indexTodoID, quotedTable,
		indexOwner, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

func Migrate(ctx context.Context, pool *pgxpool.Pool, tables todovault.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := createTodosTable(ctx, pool, tables.Todos); err != nil {
		return fmt.Errorf("migrate %s: %w", tables.Todos, err)
	}

	return nil
}

func DropTables(ctx context.Context, pool *pgxpool.Pool, tables todovault.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}

	quotedTable := pgx.Identifier{tables.Todos}.Sanitize()
	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quotedTable)); err != nil {
		return fmt.Errorf("drop table %s: %w", tables.Todos, err)
	}

	return nil
}
