package events

import (
	"context"

	"github.com/slagdev/slag/internal/model"
)

// Event topic constants
const (
	TopicCommentCreated = "comments.comment.created"
	TopicCommentUpdated = "comments.comment.updated"
	TopicCommentDeleted = "comments.comment.deleted" // soft delete via the deleted flag
	TopicCommentPurged  = "comments.comment.purged"  // physical removal by maintenance

	TopicFlagsUpdated = "comments.flags.updated"

	// Maintenance events
	TopicIndexRebuilt    = "comments.index.rebuilt"
	TopicSnapshotWritten = "comments.snapshot.written"
)

// Event types

type CommentCreated struct {
	Comment *model.Comment `json:"comment"`
}

type CommentUpdated struct {
	Comment *model.Comment `json:"comment"`
}

type CommentDeleted struct {
	CommentID string       `json:"comment_id"`
	Flags     *model.Flags `json:"flags"`
}

type CommentPurged struct {
	CommentID string `json:"comment_id"`
}

type FlagsUpdated struct {
	CommentID string       `json:"comment_id"`
	Flags     *model.Flags `json:"flags"`
}

type IndexRebuilt struct {
	Report *model.RebuildReport `json:"report"`
}

type SnapshotWritten struct {
	Targets int `json:"targets"`
	Replies int `json:"replies"`
	Flags   int `json:"flags"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
