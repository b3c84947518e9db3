package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/slagdev/slag/internal/events"
	"github.com/slagdev/slag/internal/model"
	"github.com/slagdev/slag/internal/render"
	"github.com/slagdev/slag/internal/store"
)

// createCommentInput holds the caller-supplied fields for a new comment.
// The target always comes from the URL, never the body.
type createCommentInput struct {
	Author  string `json:"author"`
	Content string `json:"content"`
	Parent  string `json:"parent,omitempty"`
}

// updateCommentInput holds the caller-supplied fields for amending a comment.
type updateCommentInput struct {
	Content string `json:"content"`
}

// commentResponse is the wire shape of a comment: the stored record plus a
// minted URL and, on request, the rendered body.
type commentResponse struct {
	*model.Comment
	URL         string `json:"url"`
	ContentHTML string `json:"contentHtml,omitempty"`
}

// orderedCollection is the wire shape of a comment listing. Items are
// comment URLs in stored order.
type orderedCollection struct {
	Target       string   `json:"target,omitempty"`
	Parent       string   `json:"parent,omitempty"`
	TotalItems   int      `json:"totalItems"`
	OrderedItems []string `json:"orderedItems"`
}

// toResponse builds the response shape for a comment, rendering the body to
// HTML when asked. A render failure degrades to the raw content.
func (s *CommentsServer) toResponse(c *model.Comment, renderHTML bool) commentResponse {
	resp := commentResponse{Comment: c, URL: s.commentURL(c.ID)}
	if renderHTML {
		html, err := render.HTML(c.Content)
		if err != nil {
			slog.Warn("failed to render comment body", "comment_id", c.ID, "error", err)
		} else {
			resp.ContentHTML = html
		}
	}
	return resp
}

// toCollection mints URLs for a list of comment IDs.
func (s *CommentsServer) toCollection(ids []string) []string {
	items := make([]string, 0, len(ids))
	for _, id := range ids {
		items = append(items, s.commentURL(id))
	}
	return items
}

// handleCreateComment handles POST /v1/comments/{target...}.
func (s *CommentsServer) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	target := r.PathValue("target")
	if target == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	var in createCommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := s.store.CreateComment(r.Context(), &model.NewComment{
		Target:  target,
		Author:  in.Author,
		Content: in.Content,
		Parent:  in.Parent,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCommentCreated, c.ID, events.CommentCreated{Comment: c})

	writeJSON(w, http.StatusCreated, s.toResponse(c, false))
}

// handleListComments handles GET /v1/comments/{target...}.
func (s *CommentsServer) handleListComments(w http.ResponseWriter, r *http.Request) {
	target := r.PathValue("target")
	if target == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	ids, err := s.store.ListTopLevel(r.Context(), target)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orderedCollection{
		Target:       target,
		TotalItems:   len(ids),
		OrderedItems: s.toCollection(ids),
	})
}

// handleGetComment handles GET /v1/comment/{id}. With ?render=html the
// response carries a contentHtml field alongside the raw body.
func (s *CommentsServer) handleGetComment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	c, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	renderHTML := r.URL.Query().Get("render") == "html"
	writeJSON(w, http.StatusOK, s.toResponse(c, renderHTML))
}

// handleUpdateComment handles PATCH /v1/comment/{id}.
func (s *CommentsServer) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in updateCommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := s.store.UpdateComment(r.Context(), id, in.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCommentUpdated, c.ID, events.CommentUpdated{Comment: c})

	writeJSON(w, http.StatusOK, s.toResponse(c, false))
}

// handleDeleteComment handles DELETE /v1/comment/{id}. Deletion is soft: the
// record stays on disk and the deleted flag drops it from listings.
func (s *CommentsServer) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Resolve first so deleting a nonexistent comment is a 404 rather than
	// a fabricated flag record.
	c, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	deleted := true
	flags, err := s.store.UpdateFlags(r.Context(), c.ID, model.FlagsPatch{Deleted: &deleted})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCommentDeleted, c.ID, events.CommentDeleted{
		CommentID: c.ID,
		Flags:     flags,
	})

	w.WriteHeader(http.StatusNoContent)
}

// handleGetFlags handles GET /v1/comment/{id}/flags. Flags are an overlay;
// a comment with no moderation history reports all-false.
func (s *CommentsServer) handleGetFlags(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	flags, err := s.store.GetFlags(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, flags)
}

// handleUpdateFlags handles PATCH /v1/comment/{id}/flags. Only the flags
// present in the body change; the rest keep their stored values.
func (s *CommentsServer) handleUpdateFlags(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.FlagsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	flags, err := s.store.UpdateFlags(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicFlagsUpdated, id, events.FlagsUpdated{
		CommentID: id,
		Flags:     flags,
	})

	writeJSON(w, http.StatusOK, flags)
}

// handleListReplies handles GET /v1/comment/{id}/replies.
func (s *CommentsServer) handleListReplies(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ids, err := s.store.ListReplies(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orderedCollection{
		Parent:       id,
		TotalItems:   len(ids),
		OrderedItems: s.toCollection(ids),
	})
}

// handleCreateReply handles POST /v1/comment/{id}/replies. The reply
// inherits the parent's target.
func (s *CommentsServer) handleCreateReply(w http.ResponseWriter, r *http.Request) {
	parent := r.PathValue("id")

	var in createCommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := s.store.CreateComment(r.Context(), &model.NewComment{
		Author:  in.Author,
		Content: in.Content,
		Parent:  parent,
	})
	if err != nil {
		// A parent that isn't a well-formed ID reads as a missing comment
		// here, not a field error on the body.
		var verr *model.ValidationError
		if errors.As(err, &verr) && hasParentError(verr) {
			writeError(w, http.StatusNotFound, "comment not found")
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "comment not found")
			return
		}
		writeStoreError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCommentCreated, c.ID, events.CommentCreated{Comment: c})

	writeJSON(w, http.StatusCreated, s.toResponse(c, false))
}

// hasParentError reports whether a validation error is about the parent field.
func hasParentError(verr *model.ValidationError) bool {
	for _, fe := range verr.Errors {
		if fe.Field == "parent" {
			return true
		}
	}
	return false
}
