package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Short:   "Export a snapshot of index and flag state",
	GroupID: "maintenance",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := commentsClient.Snapshot(context.Background())
		if err != nil {
			return fmt.Errorf("exporting snapshot: %w", err)
		}

		if jsonOutput {
			printSnapshotJSON(snap)
		} else {
			printSnapshotTable(snap)
		}
		return nil
	},
}
