package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/lifts/internal/models"
	"github.com/claude/lifts/internal/tracker"
)

// errRejected marks a 400 response from the server.
var errRejected = errors.New("rejected")

// HTTPClient implements DataSource by calling the lifts REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// lift state lives on the server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API key
// is only sent on writes.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: marshal body: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return data, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", tracker.ErrNotFound, remoteError(data))
	case http.StatusBadRequest:
		return nil, fmt.Errorf("httpclient: %s %w: %s", path, errRejected, remoteError(data))
	}
	return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
}

// remoteError extracts the message from a {"error": "..."} body.
func remoteError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func liftPath(ref string) string {
	return "/api/v1/lifts/" + url.PathEscape(ref)
}

// Lifts calls GET /api/v1/lifts.
func (c *HTTPClient) Lifts(ctx context.Context) ([]models.Lift, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/lifts", nil)
	if err != nil {
		return nil, err
	}
	var lifts []models.Lift
	if err := json.Unmarshal(body, &lifts); err != nil {
		return nil, fmt.Errorf("httpclient: decode lifts: %w", err)
	}
	return lifts, nil
}

// Detail calls GET /api/v1/lifts/{lift}.
func (c *HTTPClient) Detail(ctx context.Context, ref string) (*models.LiftDetail, error) {
	body, err := c.do(ctx, http.MethodGet, liftPath(ref), nil)
	if err != nil {
		return nil, err
	}
	var d models.LiftDetail
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("httpclient: decode lift detail: %w", err)
	}
	return &d, nil
}

// SetWorkWeight calls PUT /api/v1/lifts/{lift}/work-weight.
func (c *HTTPClient) SetWorkWeight(ctx context.Context, ref string, workWeight float64) (*models.LiftDetail, error) {
	body, err := c.do(ctx, http.MethodPut, liftPath(ref)+"/work-weight", map[string]float64{"work_weight": workWeight})
	if errors.Is(err, errRejected) {
		return nil, fmt.Errorf("%w: %w", tracker.ErrInvalidWeight, err)
	}
	if err != nil {
		return nil, err
	}
	var d models.LiftDetail
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("httpclient: decode lift detail: %w", err)
	}
	return &d, nil
}

// SetNotes calls PUT /api/v1/lifts/{lift}/notes.
func (c *HTTPClient) SetNotes(ctx context.Context, ref, notes string) (*models.Lift, error) {
	body, err := c.do(ctx, http.MethodPut, liftPath(ref)+"/notes", map[string]string{"notes": notes})
	if err != nil {
		return nil, err
	}
	var l models.Lift
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("httpclient: decode lift: %w", err)
	}
	return &l, nil
}
