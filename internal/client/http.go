package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/slagdev/slag/internal/model"
)

// HTTPClient implements CommentsClient using the slag HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Comment lifecycle ---

func (c *HTTPClient) CreateComment(ctx context.Context, target string, req *CreateCommentRequest) (*Comment, error) {
	var comment Comment
	if err := c.doJSON(ctx, http.MethodPost, "/v1/comments/"+url.PathEscape(target), req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *HTTPClient) GetComment(ctx context.Context, id string, renderHTML bool) (*Comment, error) {
	path := "/v1/comment/" + url.PathEscape(id)
	if renderHTML {
		path += "?render=html"
	}
	var comment Comment
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *HTTPClient) UpdateComment(ctx context.Context, id, content string) (*Comment, error) {
	body := map[string]string{"content": content}
	var comment Comment
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/comment/"+url.PathEscape(id), body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *HTTPClient) DeleteComment(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/comment/"+url.PathEscape(id), nil, nil)
}

// --- Listings and replies ---

func (c *HTTPClient) ListComments(ctx context.Context, target string) (*Collection, error) {
	var coll Collection
	if err := c.doJSON(ctx, http.MethodGet, "/v1/comments/"+url.PathEscape(target), nil, &coll); err != nil {
		return nil, err
	}
	return &coll, nil
}

func (c *HTTPClient) ListReplies(ctx context.Context, id string) (*Collection, error) {
	var coll Collection
	if err := c.doJSON(ctx, http.MethodGet, "/v1/comment/"+url.PathEscape(id)+"/replies", nil, &coll); err != nil {
		return nil, err
	}
	return &coll, nil
}

func (c *HTTPClient) CreateReply(ctx context.Context, parentID string, req *CreateCommentRequest) (*Comment, error) {
	var comment Comment
	if err := c.doJSON(ctx, http.MethodPost, "/v1/comment/"+url.PathEscape(parentID)+"/replies", req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// --- Moderation flags ---

func (c *HTTPClient) GetFlags(ctx context.Context, id string) (*model.Flags, error) {
	var flags model.Flags
	if err := c.doJSON(ctx, http.MethodGet, "/v1/comment/"+url.PathEscape(id)+"/flags", nil, &flags); err != nil {
		return nil, err
	}
	return &flags, nil
}

func (c *HTTPClient) UpdateFlags(ctx context.Context, id string, patch model.FlagsPatch) (*model.Flags, error) {
	var flags model.Flags
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/comment/"+url.PathEscape(id)+"/flags", patch, &flags); err != nil {
		return nil, err
	}
	return &flags, nil
}

// --- Maintenance ---

func (c *HTTPClient) Rebuild(ctx context.Context) (*model.RebuildReport, error) {
	var report model.RebuildReport
	if err := c.doJSON(ctx, http.MethodPost, "/v1/maintenance/rebuild", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *HTTPClient) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	if err := c.doJSON(ctx, http.MethodPost, "/v1/maintenance/snapshot", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *HTTPClient) PurgeComment(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/maintenance/comments/"+url.PathEscape(id), nil, nil)
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content: success with no body to decode.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
