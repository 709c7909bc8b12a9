package todovault

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// TodoItem is one user-owned task record.
//
// TodoID is the caller-facing handle and the partition half of the store's
// composite primary key; CreatedAt (an ISO-8601 string) is the sort half.
// Mutations address records by TodoID alone and resolve CreatedAt through the
// repository before touching the store.
type TodoItem struct {
	TodoID        string `json:"todoId" dynamodbav:"todoId"`
	OwnerID       string `json:"ownerId" dynamodbav:"ownerId"`
	CreatedAt     string `json:"createdAt" dynamodbav:"createdAt"`
	Name          string `json:"name" dynamodbav:"name"`
	DueDate       string `json:"dueDate" dynamodbav:"dueDate"`
	Done          bool   `json:"done" dynamodbav:"done"`
	AttachmentURL string `json:"attachmentUrl" dynamodbav:"attachmentUrl"`
}

// CreateTodoRequest is the caller-supplied body for creating a todo.
type CreateTodoRequest struct {
	Name    string `json:"name" validate:"required"`
	DueDate string `json:"dueDate"`
}

// UpdateTodoRequest is the caller-supplied body for updating a todo.
// Exactly these three fields are mutable; everything else is fixed at creation.
type UpdateTodoRequest struct {
	Name    string `json:"name" validate:"required"`
	DueDate string `json:"dueDate"`
	Done    bool   `json:"done"`
}

// TodoUpdate holds the mutable fields as applied by an update. It reflects
// intent, not re-read store state.
type TodoUpdate struct {
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
	Done    bool   `json:"done"`
}

// WildcardResource is the resource scope attached to authorization decisions.
const WildcardResource = "*"

// Decision is a structural allow/deny authorization outcome. A failed
// verification yields a deny decision, never an error, so the transport layer
// always has something to enforce.
type Decision struct {
	Principal string
	Allow     bool
	Resource  string
}

// IsValidTodoID reports whether s is a well-formed todo identifier.
// Identifiers are generated as UUIDs at creation.
func IsValidTodoID(s string) bool {
	return uuid.Validate(s) == nil
}

// Tables holds configurable table names for record storage.
// This allows multi-tenant deployments to use different table names.
type Tables struct {
	Todos string `mapstructure:"todos"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Todos == "" {
		return errors.New("validate tables: todos table name cannot be empty")
	}

	if !IsValidTableName(t.Todos) {
		return fmt.Errorf("validate tables: invalid todos table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Todos)
	}

	return nil
}
