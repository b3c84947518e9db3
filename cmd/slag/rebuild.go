package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:     "rebuild",
	Short:   "Rebuild the target and reply indexes from comment files",
	GroupID: "maintenance",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := commentsClient.Rebuild(context.Background())
		if err != nil {
			return fmt.Errorf("rebuilding indexes: %w", err)
		}

		if jsonOutput {
			printReportJSON(report)
		} else {
			printReportTable(report)
		}
		return nil
	},
}
