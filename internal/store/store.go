package store

import (
	"context"

	"github.com/slagdev/slag/internal/model"
)

// Store defines the persistence interface for comments, their moderation
// flags, and the derived per-target indexes.
type Store interface {
	// Comments
	CreateComment(ctx context.Context, req *model.NewComment) (*model.Comment, error)
	GetComment(ctx context.Context, id string) (*model.Comment, error)
	UpdateComment(ctx context.Context, id, content string) (*model.Comment, error)
	// PurgeComment physically removes a comment record and its flag record.
	// Stale index entries are healed by the next Rebuild.
	PurgeComment(ctx context.Context, id string) error

	// Flags
	GetFlags(ctx context.Context, id string) (*model.Flags, error)
	UpdateFlags(ctx context.Context, id string, patch model.FlagsPatch) (*model.Flags, error)

	// Listings return comment IDs in stored order. Comments whose deleted
	// flag is set are filtered out.
	ListTopLevel(ctx context.Context, target string) ([]string, error)
	ListReplies(ctx context.Context, parent string) ([]string, error)

	// Maintenance
	Rebuild(ctx context.Context) (*model.RebuildReport, error)
	Snapshot(ctx context.Context) (*model.Snapshot, error)

	// Lifecycle
	Close() error
}
