package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var attachLinkOnly bool

var attachCmd = &cobra.Command{
	Use:   "attach <todo-id> [local-file]",
	Short: "Upload an attachment for a todo",
	Long: `Request a signed upload URL for a todo and upload a local file to it.

With --link-only, prints the signed URL instead of uploading.

Examples:
  todoctl attach 3f8a... ./receipt.png
  todoctl attach 3f8a... --link-only`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAttach,
}

func init() {
	attachCmd.Flags().BoolVar(&attachLinkOnly, "link-only", false, "print the signed upload URL without uploading")
}

func runAttach(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	todoID := args[0]

	if attachLinkOnly {
		link, linkErr := client.AttachmentLink(context.Background(), todoID)
		if linkErr != nil {
			_ = getFormatter().FormatError(os.Stderr, linkErr)
			return linkErr
		}
		fmt.Println(link.UploadURL)
		return nil
	}

	if len(args) < 2 {
		return fmt.Errorf("a local file is required unless --link-only is set")
	}

	result, err := client.UploadAttachment(context.Background(), todoID, args[1])
	if err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		return err
	}

	return getFormatter().FormatUpload(os.Stdout, result)
}
