// Package postgres implements the todo repo interface using PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/todovault/todovault"
)

type repo struct {
	pool      *pgxpool.Pool
	tableName string
}

// NewRepo creates a PostgreSQL-backed TodoRepo for the given table.
func NewRepo(pool *pgxpool.Pool, tables todovault.Tables) (todovault.TodoRepo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &repo{pool: pool, tableName: tables.Todos}, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID string) ([]todovault.TodoItem, error) {
	query := fmt.Sprintf(`
		SELECT todo_id, owner_id, created_at, name, due_date, done, attachment_url
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at
	`, r.tableName)

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}
	defer rows.Close()

	items := make([]todovault.TodoItem, 0)
	for rows.Next() {
		var item todovault.TodoItem
		err := rows.Scan(
			&item.TodoID, &item.OwnerID, &item.CreatedAt,
			&item.Name, &item.DueDate, &item.Done, &item.AttachmentURL,
		)
		if err != nil {
			return nil, fmt.Errorf("list by owner: scan: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list by owner: rows: %w", err)
	}

	return items, nil
}

func (r *repo) Create(ctx context.Context, item todovault.TodoItem) (todovault.TodoItem, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (todo_id, owner_id, created_at, name, due_date, done, attachment_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tableName)

	_, err := r.pool.Exec(ctx, query,
		item.TodoID, item.OwnerID, item.CreatedAt, item.Name, item.DueDate, item.Done, item.AttachmentURL,
	)
	if err != nil {
		return todovault.TodoItem{}, fmt.Errorf("create: %w", err)
	}

	return item, nil
}

func (r *repo) ResolveCreatedAt(ctx context.Context, todoID string) (string, error) {
	query := fmt.Sprintf(`SELECT created_at FROM %s WHERE todo_id = $1`, r.tableName)

	var createdAt string
	err := r.pool.QueryRow(ctx, query, todoID).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, due_date = $2, done = $3
		WHERE todo_id = $4 AND created_at = $5
	`, r.tableName)

	result, err := r.pool.Exec(ctx, query, upd.Name, upd.DueDate, upd.Done, todoID, createdAt)
	if err != nil {
		return todovault.TodoUpdate{}, fmt.Errorf("update: %w", err)
	}

	if result.RowsAffected() == 0 {
		return todovault.TodoUpdate{}, fmt.Errorf("update: %w", todovault.ErrNotFound)
	}

	return upd, nil
}

func (r *repo) Delete(ctx context.Context, todoID string) error {
	createdAt, err := r.ResolveCreatedAt(ctx, todoID)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	query := fmt.Sprintf(`
		DELETE FROM %s WHERE todo_id = $1 AND created_at = $2
	`, r.tableName)

	result, err := r.pool.Exec(ctx, query, todoID, createdAt)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", todovault.ErrNotFound)
	}

	return nil
}

func (r *repo) SetAttachmentURL(ctx context.Context, todoID, url string) error {
	createdAt, err := r.ResolveCreatedAt(ctx, todoID)
	if err != nil {
		return fmt.Errorf("set attachment url: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET attachment_url = $1
		WHERE todo_id = $2 AND created_at = $3
	`, r.tableName)

	result, err := r.pool.Exec(ctx, query, url, todoID, createdAt)
	if err != nil {
		return fmt.Errorf("set attachment url: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("set attachment url: %w", todovault.ErrNotFound)
	}

	return nil
}
