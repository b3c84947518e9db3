package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/slagdev/slag/internal/client"
	"github.com/slagdev/slag/internal/events"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch <target>",
	Short:   "Watch a target's comments for changes",
	GroupID: "comments",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[string]string)

		// Initial query.
		if err := queryAndPrint(ctx, target, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		// Choose event-driven or polling mode.
		if natsURL := os.Getenv("SLAG_NATS_URL"); natsURL != "" {
			return watchNATS(ctx, natsURL, target, seen)
		}
		return watchPoll(ctx, interval, target, seen)
	},
}

// watchNATS subscribes to NATS events and re-queries on changes with debounce.
func watchNATS(ctx context.Context, natsURL, target string, seen map[string]string) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("comments.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := queryAndPrint(ctx, target, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll polls for changes at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, target string, seen map[string]string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, target, seen); err != nil {
			return err
		}
	}
}

// queryAndPrint lists the target's comments, diffs against the seen map, and
// prints any changes.
func queryAndPrint(ctx context.Context, target string, seen map[string]string) error {
	changed, total, err := queryAndDiff(ctx, target, seen)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(changed) > 0 {
		if jsonOutput {
			printCommentListJSON(changed)
		} else {
			printCommentListTable(changed, total)
		}
	}
	return nil
}

// queryAndDiff lists the target's top-level comments and returns those that
// are new or edited since last seen. It updates the seen map in place.
func queryAndDiff(ctx context.Context, target string, seen map[string]string) ([]*client.Comment, int, error) {
	col, err := commentsClient.ListComments(ctx, target)
	if err != nil {
		return nil, 0, err
	}
	comments := fetchComments(ctx, col.IDs())
	return diffComments(comments, seen), col.TotalItems, nil
}

// diffComments compares comments against the seen map and returns those that
// are new or whose content changed. It updates seen in place.
func diffComments(comments []*client.Comment, seen map[string]string) []*client.Comment {
	var changed []*client.Comment
	for _, c := range comments {
		prev, ok := seen[c.ID]
		if !ok || c.Content != prev {
			changed = append(changed, c)
		}
		seen[c.ID] = c.Content
	}
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after the first query")
}
