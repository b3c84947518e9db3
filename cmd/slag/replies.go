package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var repliesCmd = &cobra.Command{
	Use:     "replies <id>",
	Short:   "List replies to a comment",
	GroupID: "comments",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		col, err := commentsClient.ListReplies(context.Background(), id)
		if err != nil {
			return fmt.Errorf("listing replies for %s: %w", id, err)
		}

		if jsonOutput {
			printCollectionJSON(col)
			return nil
		}

		if col.TotalItems == 0 {
			fmt.Println("No replies found.")
			return nil
		}
		comments := fetchComments(context.Background(), col.IDs())
		printCommentListTable(comments, col.TotalItems)
		return nil
	},
}
