// Package client provides a transport-agnostic interface for the slag
// service and an HTTP/JSON implementation that talks to the slag REST API.
package client

import (
	"context"
	"strings"

	"github.com/slagdev/slag/internal/model"
)

// CommentsClient is the interface that all slag CLI commands use to
// communicate with the comments server. It is implemented by HTTPClient
// (default) and can be backed by any transport.
type CommentsClient interface {
	// Comment lifecycle
	CreateComment(ctx context.Context, target string, req *CreateCommentRequest) (*Comment, error)
	GetComment(ctx context.Context, id string, renderHTML bool) (*Comment, error)
	UpdateComment(ctx context.Context, id, content string) (*Comment, error)
	DeleteComment(ctx context.Context, id string) error

	// Listings and replies
	ListComments(ctx context.Context, target string) (*Collection, error)
	ListReplies(ctx context.Context, id string) (*Collection, error)
	CreateReply(ctx context.Context, parentID string, req *CreateCommentRequest) (*Comment, error)

	// Moderation flags
	GetFlags(ctx context.Context, id string) (*model.Flags, error)
	UpdateFlags(ctx context.Context, id string, patch model.FlagsPatch) (*model.Flags, error)

	// Maintenance
	Rebuild(ctx context.Context) (*model.RebuildReport, error)
	Snapshot(ctx context.Context) (*model.Snapshot, error)
	PurgeComment(ctx context.Context, id string) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateCommentRequest holds parameters for creating a comment. Parent is
// only honored on CreateComment; CreateReply takes the parent from its
// argument.
type CreateCommentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
	Parent  string `json:"parent,omitempty"`
}

// Comment is the wire shape of a comment returned by the server: the stored
// record plus its minted URL and, on request, the rendered body.
type Comment struct {
	model.Comment
	URL         string `json:"url"`
	ContentHTML string `json:"contentHtml,omitempty"`
}

// Collection is an ordered listing of comments. Items are comment URLs in
// stored order.
type Collection struct {
	Target       string   `json:"target,omitempty"`
	Parent       string   `json:"parent,omitempty"`
	TotalItems   int      `json:"totalItems"`
	OrderedItems []string `json:"orderedItems"`
}

// IDs extracts the comment IDs from the collection's URLs.
func (c *Collection) IDs() []string {
	ids := make([]string, 0, len(c.OrderedItems))
	for _, item := range c.OrderedItems {
		if i := strings.LastIndexByte(item, '/'); i >= 0 {
			ids = append(ids, item[i+1:])
		} else {
			ids = append(ids, item)
		}
	}
	return ids
}
