package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amishk599/jobmatch/internal/model"
)

// newTestClient starts a server running handler and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client(), nil)
}

// respondJSON writes body verbatim with the given status.
func respondJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestNew_DefaultsAndTrimsBaseURL(t *testing.T) {
	if got := New("", nil, nil).BaseURL(); got != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", got, DefaultBaseURL)
	}
	if got := New(" http://api.local:9000/ ", nil, nil).BaseURL(); got != "http://api.local:9000" {
		t.Errorf("BaseURL = %q, want trimmed", got)
	}
}

func TestStatusError_UsesDiagnosticFromBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "fastapi detail", body: `{"detail":"Not Found"}`, want: "Not Found"},
		{name: "error field", body: `{"error":"upstream timeout"}`, want: "upstream timeout"},
		{name: "message field", body: `{"message":"  quota exceeded "}`, want: "quota exceeded"},
		{name: "non-string detail falls back", body: `{"detail":[{"loc":["query"]}]}`, want: "request failed: 422 Unprocessable Entity"},
		{name: "not json", body: `<html>oops</html>`, want: "request failed: 422 Unprocessable Entity"},
		{name: "empty body", body: ``, want: "request failed: 422 Unprocessable Entity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, respondJSON(http.StatusUnprocessableEntity, tt.body))

			_, err := c.SearchJobs(context.Background(), "Berlin", model.SearchOptions{})
			var te *model.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransportError, got %v", err)
			}
			if te.StatusCode != http.StatusUnprocessableEntity {
				t.Errorf("StatusCode = %d, want 422", te.StatusCode)
			}
			if te.Message != tt.want {
				t.Errorf("Message = %q, want %q", te.Message, tt.want)
			}
		})
	}
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil, nil)
	_, err := c.ClarifyPreferences(context.Background(), "anything")
	var te *model.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for network failure", te.StatusCode)
	}
	if te.Err == nil {
		t.Error("expected wrapped network error")
	}
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("path = %s, want /", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Welcome to the Open Job Matcher API"})
	})

	msg, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Welcome to the Open Job Matcher API" {
		t.Errorf("Ping = %q", msg)
	}
}
