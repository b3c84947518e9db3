package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/slagdev/slag/internal/client"
	"github.com/spf13/cobra"
)

var commentParentFlag string

var commentCmd = &cobra.Command{
	Use:     "comment",
	Short:   "Manage comments",
	GroupID: "comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <target> <text>...",
	Short: "Post a comment on a target",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		text := strings.Join(args[1:], " ")

		req := &client.CreateCommentRequest{
			Author:  author,
			Content: text,
			Parent:  commentParentFlag,
		}

		c, err := commentsClient.CreateComment(context.Background(), target, req)
		if err != nil {
			return fmt.Errorf("adding comment: %w", err)
		}

		if jsonOutput {
			printCommentJSON(c)
		} else {
			printCommentTable(c)
		}
		return nil
	},
}

var commentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show details of a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		render, _ := cmd.Flags().GetBool("html")

		c, err := commentsClient.GetComment(context.Background(), id, render)
		if err != nil {
			return fmt.Errorf("getting comment %s: %w", id, err)
		}

		if jsonOutput {
			printCommentJSON(c)
		} else {
			printCommentTable(c)
			if c.ContentHTML != "" {
				fmt.Println()
				fmt.Println("HTML:")
				fmt.Printf("  %s\n", c.ContentHTML)
			}
		}
		return nil
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <id> <text>...",
	Short: "Replace a comment's content",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		text := strings.Join(args[1:], " ")

		c, err := commentsClient.UpdateComment(context.Background(), id, text)
		if err != nil {
			return fmt.Errorf("editing comment %s: %w", id, err)
		}

		if jsonOutput {
			printCommentJSON(c)
		} else {
			printCommentTable(c)
		}
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Soft-delete one or more comments",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			if err := commentsClient.DeleteComment(context.Background(), id); err != nil {
				return fmt.Errorf("deleting %s: %w", id, err)
			}

			fmt.Printf("Deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	commentAddCmd.Flags().StringVar(&commentParentFlag, "parent", "", "parent comment ID (posts a reply)")
	commentShowCmd.Flags().Bool("html", false, "include the rendered HTML content")

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentShowCmd)
	commentCmd.AddCommand(commentEditCmd)
	commentCmd.AddCommand(commentDeleteCmd)
}
