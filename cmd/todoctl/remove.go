package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <todo-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a todo",
	Long: `Remove a todo by id.

Examples:
  todoctl remove 3f8a...
  todoctl rm -q 3f8a...`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	todoID := args[0]
	if err := client.Delete(context.Background(), todoID); err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		return err
	}

	return getFormatter().FormatDelete(os.Stdout, todoID)
}
