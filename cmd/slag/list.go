package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list <target>",
	Short:   "List top-level comments on a target",
	GroupID: "comments",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]

		col, err := commentsClient.ListComments(context.Background(), target)
		if err != nil {
			return fmt.Errorf("listing comments: %w", err)
		}

		if jsonOutput {
			printCollectionJSON(col)
			return nil
		}

		if col.TotalItems == 0 {
			fmt.Println("No comments found.")
			return nil
		}
		comments := fetchComments(context.Background(), col.IDs())
		printCommentListTable(comments, col.TotalItems)
		return nil
	},
}
