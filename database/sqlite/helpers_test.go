package sqlite_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	_ "modernc.org/sqlite"

	"github.com/todovault/todovault"
	"github.com/todovault/todovault/database/sqlite"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// getTestDatabase creates an in-memory SQLite database for testing
func getTestDatabase(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	assert.NoError(t, err, "failed to open sqlite database")

	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
	}

	return db, cleanup
}

// setupTestRepo creates a repo with a unique table name for test isolation
func setupTestRepo(t *testing.T) (todovault.TodoRepo, func()) {
	t.Helper()

	db, dbCleanup := getTestDatabase(t)
	ctx := context.Background()

	// Use a unique table name for each test to avoid conflicts
	tableName := fmt.Sprintf("todos_%s", getRandomString(t))
	tables := todovault.Tables{Todos: tableName}

	err := sqlite.Migrate(ctx, db, tables)
	assert.NoError(t, err, "failed to migrate")

	repo, err := sqlite.NewRepo(db, tables)
	assert.NoError(t, err, "failed to create repo")

	cleanup := func() {
		_ = sqlite.DropTables(ctx, db, tables)
		dbCleanup()
	}

	return repo, cleanup
}

func mustCreate(t *testing.T, repo todovault.TodoRepo, ownerID, name, dueDate string) todovault.TodoItem {
	t.Helper()

	item := todovault.TodoItem{
		TodoID:    uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Name:      name,
		DueDate:   dueDate,
	}

	_, err := repo.Create(context.Background(), item)
	assert.NoError(t, err, "failed to create todo")
	// keep successive creates strictly ordered by timestamp
	time.Sleep(time.Millisecond)
	return item
}
