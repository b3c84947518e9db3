// Package server exposes the comment store over HTTP and streams change
// events to NATS and connected SSE clients.
package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/slagdev/slag/internal/events"
	"github.com/slagdev/slag/internal/metrics"
	"github.com/slagdev/slag/internal/store"
)

// CommentsServer serves the HTTP API backed by the given store and publisher.
type CommentsServer struct {
	store     store.Store
	publisher events.Publisher
	sseHub    *sseHub
	baseURL   string
}

// NewCommentsServer returns a new CommentsServer. baseURL is used to mint
// absolute comment URLs in responses.
func NewCommentsServer(s store.Store, p events.Publisher, baseURL string) *CommentsServer {
	return &CommentsServer{
		store:     s,
		publisher: p,
		sseHub:    newSSEHub(),
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// publish emits an event to the bus and fans it out to SSE clients.
// Both are best-effort; failures are logged but do not block the caller.
func (s *CommentsServer) publish(ctx context.Context, topic, commentID string, event any) {
	err := s.publisher.Publish(ctx, topic, event)
	metrics.ObserveEventPublished(topic, err)
	if err != nil {
		slog.Warn("failed to publish event", "topic", topic, "comment_id", commentID, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// commentURL mints the absolute URL a comment is served under.
func (s *CommentsServer) commentURL(id string) string {
	return s.baseURL + "/v1/comment/" + id
}
