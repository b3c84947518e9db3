package model

import "time"

// Comment is a single stored comment. ID is the storage key and never
// changes. Target is fixed at creation. Content and Author may be amended
// in place.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Published time.Time `json:"published"`
	Content   string    `json:"content"`
	Target    string    `json:"target"`
	Parent    string    `json:"parent,omitempty"`
}

// IsReply reports whether the comment addresses another comment rather than
// its target directly.
func (c *Comment) IsReply() bool {
	return c.Parent != ""
}

// NewComment carries the caller-supplied fields for comment creation.
// ID and Published are assigned by the store.
type NewComment struct {
	Target  string
	Author  string
	Content string
	Parent  string // optional parent comment ID; empty for top-level
}
