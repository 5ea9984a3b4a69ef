package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/amishk599/jobmatch/internal/model"
)

// DefaultBaseURL is the local address the backend listens on.
const DefaultBaseURL = "http://localhost:8000"

// Ensure Client implements model.Backend.
var _ model.Backend = (*Client)(nil)

// Client talks to the job matcher backend: preference extraction, job search
// and match advice.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for the backend at baseURL. An empty baseURL selects
// DefaultBaseURL; a nil httpClient selects http.DefaultClient.
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    trimmed,
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &model.UnexpectedError{Op: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &model.UnexpectedError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &model.UnexpectedError{Op: "create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// do sends req and returns the body of a 2xx response. Anything else becomes
// a *model.TransportError.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, &model.TransportError{
			Message: fmt.Sprintf("could not reach backend: %v", err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.UnexpectedError{Op: "read response", Err: err}
	}

	c.logger.Debug("backend request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

// errorBody covers the diagnostic shapes the backend uses on failure:
// FastAPI's {"detail": ...} and the agents' {"error": ...}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   json.RawMessage `json:"error"`
	Message json.RawMessage `json:"message"`
}

func statusError(code int, body []byte) *model.TransportError {
	msg := diagnostic(body)
	if msg == "" {
		msg = fmt.Sprintf("request failed: %d", code)
		if text := http.StatusText(code); text != "" {
			msg += " " + text
		}
	}
	return &model.TransportError{StatusCode: code, Message: msg}
}

// diagnostic returns the first non-empty string diagnostic in body, or "".
func diagnostic(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{eb.Detail, eb.Error, eb.Message} {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// isNull reports whether raw is absent or the JSON literal null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}
