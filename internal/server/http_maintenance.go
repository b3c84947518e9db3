package server

import (
	"net/http"

	"github.com/slagdev/slag/internal/events"
)

// handleRebuild handles POST /v1/maintenance/rebuild. It rescans every
// comment record, replaces the derived indexes wholesale, and reports what
// it found.
func (s *CommentsServer) handleRebuild(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.Rebuild(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicIndexRebuilt, "", events.IndexRebuilt{Report: report})

	writeJSON(w, http.StatusOK, report)
}

// handleSnapshot handles POST /v1/maintenance/snapshot. It exports a fresh
// snapshot, rewrites snapshot.json in the data directory, and returns the
// snapshot in the response.
func (s *CommentsServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicSnapshotWritten, "", events.SnapshotWritten{
		Targets: len(snap.Targets),
		Replies: len(snap.Replies),
		Flags:   len(snap.Flags),
	})

	writeJSON(w, http.StatusOK, snap)
}

// handlePurgeComment handles DELETE /v1/maintenance/comments/{id}. Unlike
// the soft delete on /v1/comment/{id}, this physically removes the comment
// record and its flags. Stale index entries heal on the next rebuild.
func (s *CommentsServer) handlePurgeComment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.PurgeComment(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCommentPurged, id, events.CommentPurged{CommentID: id})

	w.WriteHeader(http.StatusNoContent)
}
