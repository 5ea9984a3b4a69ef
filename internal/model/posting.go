package model

import (
	"context"
	"time"
)

// Preferences are the structured search criteria the backend extracts from a
// free-text query. All three fields are required; a response missing any of
// them is never treated as partially usable.
type Preferences struct {
	Keywords []string `json:"keywords"`
	Location string   `json:"location"`
	Remote   bool     `json:"remote"`
}

// JobPosting is one listing returned by the search backend.
type JobPosting struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Company  string `json:"company"`
	URL      string `json:"url,omitempty"` // empty when the backend has no link
}

// Session is one completed search kept in the local history.
type Session struct {
	ID          int64
	Query       string
	Preferences Preferences
	JobCount    int
	Advice      string
	CreatedAt   time.Time
}

// SearchOptions carries the optional paging parameters of the job search.
// Zero values are not sent.
type SearchOptions struct {
	Page  int
	Limit int
}

// Backend is the remote service that does the interpretation, search and
// match scoring.
type Backend interface {
	ClarifyPreferences(ctx context.Context, query string) (Preferences, error)
	SearchJobs(ctx context.Context, location string, opts SearchOptions) ([]JobPosting, error)
	MatchAdvice(ctx context.Context, prefs Preferences, jobs []JobPosting) (string, error)
}

// JobFilter decides whether a posting is kept after a search.
type JobFilter interface {
	Match(job JobPosting) bool
}

// SessionStore records completed searches.
type SessionStore interface {
	Record(s Session) (int64, error)
	AttachAdvice(id int64, advice string) error
	Recent(limit int) ([]Session, error)
	Cleanup(olderThan time.Duration) error
}
