package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your todos",
	Long: `List all todos belonging to the authenticated user.

Examples:
  todoctl list
  todoctl list --json
  todoctl --profile prod list`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	todos, err := client.List(context.Background())
	if err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		return err
	}

	return getFormatter().FormatTodoList(os.Stdout, todos)
}
