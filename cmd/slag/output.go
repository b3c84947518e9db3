package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/slagdev/slag/internal/client"
	"github.com/slagdev/slag/internal/model"
)

func printCommentJSON(c *client.Comment) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printCommentTable(c *client.Comment) {
	fmt.Printf("ID:         %s\n", c.ID)
	fmt.Printf("Target:     %s\n", c.Target)
	fmt.Printf("Author:     %s\n", c.Author)
	if c.Parent != "" {
		fmt.Printf("Parent:     %s\n", c.Parent)
	}
	if !c.Published.IsZero() {
		fmt.Printf("Published:  %s\n", c.Published.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Content:    %s\n", c.Content)
	if c.URL != "" {
		fmt.Printf("URL:        %s\n", c.URL)
	}
}

func printCollectionJSON(col *client.Collection) {
	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// fetchComments resolves collection item IDs to full comments for table
// output. Items that fail to load are skipped with a warning.
func fetchComments(ctx context.Context, ids []string) []*client.Comment {
	comments := make([]*client.Comment, 0, len(ids))
	for _, id := range ids {
		c, err := commentsClient.GetComment(ctx, id, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", id, err)
			continue
		}
		comments = append(comments, c)
	}
	return comments
}

func printCommentListJSON(comments []*client.Comment) {
	data, err := json.MarshalIndent(comments, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printCommentListTable(comments []*client.Comment, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPUBLISHED\tAUTHOR\tCONTENT")
	for _, c := range comments {
		content := strings.ReplaceAll(c.Content, "\n", " ")
		if len(content) > 50 {
			content = content[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			c.ID,
			c.Published.Format("2006-01-02 15:04"),
			c.Author,
			content,
		)
	}
	w.Flush()
	fmt.Printf("\n%d comments (%d total)\n", len(comments), total)
}

func printFlagsJSON(f *model.Flags) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printFlagsTable(id string, f *model.Flags) {
	fmt.Printf("ID:         %s\n", id)
	fmt.Printf("Hidden:     %t\n", f.Hidden)
	fmt.Printf("Moderated:  %t\n", f.Moderated)
	fmt.Printf("Reported:   %t\n", f.Reported)
	fmt.Printf("Deleted:    %t\n", f.Deleted)
}

func printReportJSON(r *model.RebuildReport) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printReportTable(r *model.RebuildReport) {
	fmt.Printf("Comments Scanned:    %d\n", r.CommentsScanned)
	fmt.Printf("Targets Discovered:  %d\n", r.TargetsDiscovered)
	fmt.Printf("Replies Indexed:     %d\n", r.RepliesIndexed)
	fmt.Printf("Orphans Found:       %d\n", r.OrphansFound)
	if len(r.OrphanIDs) > 0 {
		fmt.Printf("Orphan IDs:          %s\n", strings.Join(r.OrphanIDs, ", "))
	}
	fmt.Printf("Duration:            %dms\n", r.DurationMS)
}

func printSnapshotJSON(s *model.Snapshot) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printSnapshotTable(s *model.Snapshot) {
	replies := 0
	for _, ids := range s.Replies {
		replies += len(ids)
	}
	fmt.Printf("Version:  %d\n", s.Version)
	fmt.Printf("Targets:  %d\n", len(s.Targets))
	fmt.Printf("Replies:  %d\n", replies)
	fmt.Printf("Flags:    %d\n", len(s.Flags))
}
