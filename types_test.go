package todovault_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/todovault/todovault"
)

func TestIsValidTodoID(t *testing.T) {
	assert.True(t, todovault.IsValidTodoID(uuid.NewString()))
	assert.False(t, todovault.IsValidTodoID(""))
	assert.False(t, todovault.IsValidTodoID("not-a-uuid"))
	assert.False(t, todovault.IsValidTodoID("2c3f8f6a-9a44-4b21-9d19"))
}

func TestIsValidTableName(t *testing.T) {
	tests := []struct {
		name  string
		table string
		want  bool
	}{
		{"simple", "todos", true},
		{"with underscore", "todos_test", true},
		{"leading underscore", "_todos", true},
		{"with digits", "todos2", true},
		{"empty", "", false},
		{"uppercase", "Todos", false},
		{"leading digit", "2todos", false},
		{"hyphen", "todos-test", false},
		{"sql injection", "todos; DROP TABLE users", false},
		{"too long", strings.Repeat("a", 64), false},
		{"max length", strings.Repeat("a", 63), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, todovault.IsValidTableName(tt.table))
		})
	}
}

func TestTables_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, todovault.Tables{Todos: "todos"}.Validate())
	})

	t.Run("empty", func(t *testing.T) {
		err := todovault.Tables{}.Validate()
		assert.ErrorContains(t, err, "cannot be empty")
	})

	t.Run("invalid name", func(t *testing.T) {
		err := todovault.Tables{Todos: "Bad-Name"}.Validate()
		assert.ErrorContains(t, err, "invalid todos table name")
	})
}
