// Package sqlite implements the todo repo interface using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/todovault/todovault"
)

type repo struct {
	db        *sql.DB
	tableName string
}

// NewRepo creates a SQLite-backed TodoRepo for the given table.
func NewRepo(db *sql.DB, tables todovault.Tables) (todovault.TodoRepo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &repo{db: db, tableName: tables.Todos}, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID string) ([]todovault.TodoItem, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT todo_id, owner_id, created_at, name, due_date, done, attachment_url
		FROM %s
		WHERE owner_id = ?
		ORDER BY created_at`, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]todovault.TodoItem, 0)
	for rows.Next() {
		item, scanErr := scanTodo(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("list by owner: %w", scanErr)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list by owner: rows: %w", err)
	}

	return items, nil
}

func (r *repo) Create(ctx context.Context, item todovault.TodoItem) (todovault.TodoItem, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (todo_id, owner_id, created_at, name, due_date, done, attachment_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, r.tableName)

	_, err := r.db.ExecContext(ctx, query,
		item.TodoID, item.OwnerID, item.CreatedAt, item.Name, item.DueDate, boolToInt(item.Done), item.AttachmentURL,
	)
	if err != nil {
		return todovault.TodoItem{}, fmt.Errorf("create: %w", err)
	}

	return item, nil
}

func (r *repo) ResolveCreatedAt(ctx context.Context, todoID string) (string, error) {
	query := fmt.Sprintf(`SELECT created_at FROM %s WHERE todo_id = ?`, r.tableName) //nolint:gosec // table name is validated

	var createdAt string
	err := r.db.QueryRowContext(ctx, query, todoID).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", todovault.ErrNotFound
		}
		return "", fmt.Errorf("resolve created_at: %w", err)
	}

	return createdAt, nil
}

func (r *repo) Update(ctx context.Context, todoID string, upd todovault.TodoUpdate) (todovault.TodoUpdate, error) {
	createdAt, err := r.ResolveCreatedAt(ctx, todoID)
	if err != nil {
		return todovault.TodoUpdate{}, fmt.Errorf("update: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET name = ?, due_date = ?, done = ?
		WHERE todo_id = ? AND created_at = ?`, r.tableName)

	result, err := r.db.ExecContext(ctx, query, upd.Name, upd.DueDate, boolToInt(upd.Done), todoID, createdAt)
	if err != nil {
		return todovault.TodoUpdate{}, fmt.Errorf("update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return todovault.TodoUpdate{}, fmt.Errorf("update: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return todovault.TodoUpdate{}, fmt.Errorf("update: %w", todovault.ErrNotFound)
	}

	return upd, nil
}

func (r *repo) Delete(ctx context.Context, todoID string) error {
	createdAt, err := r.ResolveCreatedAt(ctx, todoID)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE todo_id = ? AND created_at = ?`, r.tableName)

	result, err := r.db.ExecContext(ctx, query, todoID, createdAt)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", todovault.ErrNotFound)
	}

	return nil
}

func (r *repo) SetAttachmentURL(ctx context.Context, todoID, url string) error {
	createdAt, err := r.ResolveCreatedAt(ctx, todoID)
	if err != nil {
		return fmt.Errorf("set attachment url: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET attachment_url = ?
		WHERE todo_id = ? AND created_at = ?`, r.tableName)

	result, err := r.db.ExecContext(ctx, query, url, todoID, createdAt)
	if err != nil {
		return fmt.Errorf("set attachment url: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set attachment url: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("set attachment url: %w", todovault.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (todovault.TodoItem, error) {
	var item todovault.TodoItem
	var done int

	err := row.Scan(&item.TodoID, &item.OwnerID, &item.CreatedAt, &item.Name, &item.DueDate, &done, &item.AttachmentURL)
	if err != nil {
		return todovault.TodoItem{}, fmt.Errorf("scan: %w", err)
	}

	item.Done = done != 0
	return item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
