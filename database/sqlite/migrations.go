package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/todovault/todovault"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

type TableMigration struct {
	TableName string
	Up        func(ctx context.Context, db *sql.DB) error
	Down      func(ctx context.Context, db *sql.DB) error
}

// getTableMigrations returns all table migrations for the app
func getTableMigrations(tables todovault.Tables) []TableMigration {
	migrations := []TableMigration{}

	migrations = append(migrations, TableMigration{
		TableName: tables.Todos,
		Up:        createTodosTable(tables.Todos),
		Down:      dropTable(tables.Todos),
	})

	return migrations
}

func Migrate(ctx context.Context, db *sql.DB, tables todovault.Tables) error {
	migrations := getTableMigrations(tables)

	for _, migration := range migrations {
		if err := migration.Up(ctx, db); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func DropTables(ctx context.Context, db *sql.DB, tables todovault.Tables) error {
	migrations := getTableMigrations(tables)

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.Down(ctx, db); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func createTodosTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		indexTodoID := quoteIdentifier(fmt.Sprintf("idx_%s_todo_id", tableName))
		indexOwner := quoteIdentifier(fmt.Sprintf("idx_%s_owner_id", tableName))

		createTableSQL := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				todo_id TEXT NOT NULL,
				created_at TEXT NOT NULL,
				owner_id TEXT NOT NULL,
				name TEXT NOT NULL,
				due_date TEXT NOT NULL,
				done INTEGER NOT NULL DEFAULT 0,
				attachment_url TEXT NOT NULL,
				PRIMARY KEY (todo_id, created_at)
			)
		`, quotedTable)

		if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		// todo_id alone must stay unique: it is the caller-facing handle
		indexSQL := fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (todo_id)
		`, indexTodoID, quotedTable)

		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index todo_id: %w", err)
		}

		indexSQL = fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s ON %s (owner_id, created_at)
		`, indexOwner, quotedTable)

		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index owner_id: %w", err)
		}

		return nil
	}
}

func dropTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", quotedTable)

		_, err := db.ExecContext(ctx, dropSQL)
		return err
	}
}
