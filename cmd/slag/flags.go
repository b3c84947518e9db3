package main

import (
	"context"
	"fmt"

	"github.com/slagdev/slag/internal/model"
	"github.com/spf13/cobra"
)

var flagsCmd = &cobra.Command{
	Use:     "flags",
	Short:   "Manage moderation flags",
	GroupID: "moderation",
}

var flagsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a comment's moderation flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		f, err := commentsClient.GetFlags(context.Background(), id)
		if err != nil {
			return fmt.Errorf("getting flags for %s: %w", id, err)
		}

		if jsonOutput {
			printFlagsJSON(f)
		} else {
			printFlagsTable(id, f)
		}
		return nil
	},
}

var flagsSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Update a comment's moderation flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		var patch model.FlagsPatch
		if cmd.Flags().Changed("hidden") {
			v, _ := cmd.Flags().GetBool("hidden")
			patch.Hidden = &v
		}
		if cmd.Flags().Changed("moderated") {
			v, _ := cmd.Flags().GetBool("moderated")
			patch.Moderated = &v
		}
		if cmd.Flags().Changed("reported") {
			v, _ := cmd.Flags().GetBool("reported")
			patch.Reported = &v
		}
		if cmd.Flags().Changed("deleted") {
			v, _ := cmd.Flags().GetBool("deleted")
			patch.Deleted = &v
		}
		if patch.IsZero() {
			return fmt.Errorf("no flags given (use --hidden, --moderated, --reported, or --deleted)")
		}

		f, err := commentsClient.UpdateFlags(context.Background(), id, patch)
		if err != nil {
			return fmt.Errorf("updating flags for %s: %w", id, err)
		}

		if jsonOutput {
			printFlagsJSON(f)
		} else {
			printFlagsTable(id, f)
		}
		return nil
	},
}

func init() {
	flagsSetCmd.Flags().Bool("hidden", false, "hide the comment from listings")
	flagsSetCmd.Flags().Bool("moderated", false, "mark the comment as moderated")
	flagsSetCmd.Flags().Bool("reported", false, "mark the comment as reported")
	flagsSetCmd.Flags().Bool("deleted", false, "soft-delete the comment")

	flagsCmd.AddCommand(flagsShowCmd)
	flagsCmd.AddCommand(flagsSetCmd)
}
