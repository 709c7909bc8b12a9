package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/todovault/todovault/clientcli"
)

var (
	updateName    string
	updateDueDate string
	updateDone    bool
)

var updateCmd = &cobra.Command{
	Use:   "update <todo-id>",
	Short: "Update a todo",
	Long: `Update a todo's name, due date, and done state.

The server replaces all three fields, so pass the full desired state.

Examples:
  todoctl update 3f8a... --name "buy oat milk" --due 2026-09-01
  todoctl update 3f8a... --name "buy oat milk" --due 2026-09-01 --done`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateName, "name", "n", "", "todo name (required)")
	updateCmd.Flags().StringVarP(&updateDueDate, "due", "d", "", "due date (e.g. 2026-04-15)")
	updateCmd.Flags().BoolVar(&updateDone, "done", false, "mark the todo as done")
	_ = updateCmd.MarkFlagRequired("name")
}

func runUpdate(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	todoID := args[0]
	err = client.Update(context.Background(), todoID, clientcli.UpdateTodoInput{
		Name:    updateName,
		DueDate: updateDueDate,
		Done:    updateDone,
	})
	if err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		return err
	}

	if !quiet && !jsonOutput {
		fmt.Printf("Updated: %s\n", todoID)
	}
	return nil
}
