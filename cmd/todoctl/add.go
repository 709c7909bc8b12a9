package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/todovault/todovault/clientcli"
)

var addDueDate string

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new todo",
	Long: `Add a new todo with the given name.

Examples:
  todoctl add "buy milk"
  todoctl add "file taxes" --due 2026-04-15`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addDueDate, "due", "d", "", "due date (e.g. 2026-04-15)")
}

func runAdd(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	todo, err := client.Create(context.Background(), clientcli.CreateTodoInput{
		Name:    args[0],
		DueDate: addDueDate,
	})
	if err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		return err
	}

	return getFormatter().FormatTodo(os.Stdout, todo)
}
