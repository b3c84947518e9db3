package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/slagdev/slag/internal/client"
	"github.com/slagdev/slag/internal/ui"
	"github.com/spf13/cobra"
)

var (
	httpURL     string
	jsonOutput  bool
	author      string
	noColorFlag bool

	commentsClient client.CommentsClient
)

func defaultAuthor() string {
	out, err := exec.Command("git", "config", "user.name").Output()
	if err == nil {
		name := strings.TrimSpace(string(out))
		if name != "" {
			return name
		}
	}
	return "anonymous"
}

func defaultHTTPURL() string {
	if s := os.Getenv("SLAG_HTTP_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:   "slag <command>",
	Short: "CLI client for the slag comment service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColorFlag {
			ui.ForceNoColor()
		}
		commentsClient = client.NewHTTPClient(httpURL)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if commentsClient != nil {
			commentsClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&author, "author", defaultAuthor(), "author name for new comments")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable ANSI colors")

	rootCmd.AddGroup(
		&cobra.Group{ID: "comments", Title: "Comments:"},
		&cobra.Group{ID: "moderation", Title: "Moderation:"},
		&cobra.Group{ID: "maintenance", Title: "Maintenance:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Comments
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(repliesCmd)
	rootCmd.AddCommand(watchCmd)

	// Moderation
	rootCmd.AddCommand(flagsCmd)
	rootCmd.AddCommand(purgeCmd)

	// Maintenance
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(snapshotCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
