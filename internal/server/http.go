package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slagdev/slag/internal/model"
	"github.com/slagdev/slag/internal/store"
)

// NewHTTPHandler returns an http.Handler with all routes registered and the
// middleware chain applied.
func (s *CommentsServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Comment collections, keyed by target. Targets are URL-escaped into
	// the path.
	mux.HandleFunc("POST /v1/comments/{target...}", s.handleCreateComment)
	mux.HandleFunc("GET /v1/comments/{target...}", s.handleListComments)

	// Individual comments and their moderation flags.
	mux.HandleFunc("GET /v1/comment/{id}", s.handleGetComment)
	mux.HandleFunc("PATCH /v1/comment/{id}", s.handleUpdateComment)
	mux.HandleFunc("DELETE /v1/comment/{id}", s.handleDeleteComment)
	mux.HandleFunc("GET /v1/comment/{id}/flags", s.handleGetFlags)
	mux.HandleFunc("PATCH /v1/comment/{id}/flags", s.handleUpdateFlags)
	mux.HandleFunc("GET /v1/comment/{id}/replies", s.handleListReplies)
	mux.HandleFunc("POST /v1/comment/{id}/replies", s.handleCreateReply)

	// Maintenance operations.
	mux.HandleFunc("POST /v1/maintenance/rebuild", s.handleRebuild)
	mux.HandleFunc("POST /v1/maintenance/snapshot", s.handleSnapshot)
	mux.HandleFunc("DELETE /v1/maintenance/comments/{id}", s.handlePurgeComment)

	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	var h http.Handler = mux
	h = RecoveryMiddleware(h)
	h = MetricsMiddleware(mux, h)
	h = LoggingMiddleware(h)
	h = RequestIDMiddleware(h)
	return h
}

// handleRoot handles GET /.
func (s *CommentsServer) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "slag",
		"status":  "ok",
	})
}

// handleHealth handles GET /v1/health.
func (s *CommentsServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps store errors onto HTTP status codes: validation
// failures to 400, missing comments to 404, everything else to 500.
func writeStoreError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "comment not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
