package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:     "purge <id>...",
	Short:   "Permanently remove one or more comments",
	GroupID: "moderation",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			if err := commentsClient.PurgeComment(context.Background(), id); err != nil {
				return fmt.Errorf("purging %s: %w", id, err)
			}

			fmt.Printf("Purged %s\n", id)
		}
		return nil
	},
}
