package workflow

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/amishk599/jobmatch/internal/model"
)

// Options tunes a Controller. The zero value sends only the location and
// keeps every posting the backend returns.
type Options struct {
	Search model.SearchOptions
	// Filter, when set, builds a client-side filter from the current
	// preferences and is applied to every search result.
	Filter func(prefs model.Preferences) model.JobFilter
}

// Controller drives the clarify → search → advice workflow against a backend.
// At most one operation runs at a time; a trigger while another is in flight
// returns model.ErrBusy without touching state or the network.
type Controller struct {
	backend  model.Backend
	sessions model.SessionStore
	opts     Options
	logger   *slog.Logger

	inflight atomic.Bool

	mu        sync.Mutex
	state     State
	sessionID int64 // history row of the current search, 0 if none
}

// NewController wires a controller. sessions may be nil.
func NewController(backend model.Backend, sessions model.SessionStore, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		backend:  backend,
		sessions: sessions,
		opts:     opts,
		logger:   logger,
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Busy reports whether an operation is in flight.
func (c *Controller) Busy() bool {
	return c.inflight.Load()
}

// ClarifyPreferences turns query into Preferences. A blank query is a no-op.
// Failures are recorded in State.Err and also returned.
func (c *Controller) ClarifyPreferences(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	release, err := c.acquire()
	if err != nil {
		return err
	}
	defer release()

	c.update(func(s State) State { return BeginClarify(s, query) })
	c.setSession(0)

	prefs, err := c.backend.ClarifyPreferences(ctx, query)
	if err != nil {
		c.logger.Warn("clarify failed", "error", err)
		c.update(func(s State) State { return ClarifyFailed(s, err) })
		return err
	}

	c.logger.Info("preferences clarified",
		"keywords", prefs.Keywords,
		"location", prefs.Location,
		"remote", prefs.Remote,
	)
	c.update(func(s State) State { return ClarifySucceeded(s, prefs) })
	return nil
}

// SearchJobs fetches postings for the current preferences. Without
// preferences it is a no-op.
func (c *Controller) SearchJobs(ctx context.Context) error {
	release, err := c.acquire()
	if err != nil {
		return err
	}
	defer release()

	snap := c.State()
	if !snap.HasPreferences() {
		return nil
	}
	prefs := *snap.Preferences

	c.update(BeginSearch)

	jobs, err := c.backend.SearchJobs(ctx, prefs.Location, c.opts.Search)
	if err != nil {
		c.logger.Warn("search failed", "location", prefs.Location, "error", err)
		c.update(func(s State) State { return SearchFailed(s, err) })
		return err
	}

	fetched := len(jobs)
	if c.opts.Filter != nil {
		jobs = filterJobs(c.opts.Filter(prefs), jobs)
	}

	c.logger.Info("jobs fetched",
		"location", prefs.Location,
		"fetched", fetched,
		"kept", len(jobs),
	)
	c.update(func(s State) State { return SearchSucceeded(s, jobs) })
	c.recordSession(snap.Query, prefs, len(jobs))
	return nil
}

// RequestMatchAdvice asks for a narrative analysis of the current jobs. It is
// a no-op unless preferences are set and at least one job is listed.
func (c *Controller) RequestMatchAdvice(ctx context.Context) error {
	release, err := c.acquire()
	if err != nil {
		return err
	}
	defer release()

	snap := c.State()
	if !snap.CanAdvise() {
		return nil
	}

	c.update(BeginAdvice)

	advice, err := c.backend.MatchAdvice(ctx, *snap.Preferences, snap.Jobs)
	if err != nil {
		c.logger.Warn("match advice failed", "error", err)
		c.update(func(s State) State { return AdviceFailed(s, err) })
		return err
	}

	c.logger.Info("match advice received", "chars", len(advice))
	c.update(func(s State) State { return AdviceSucceeded(s, advice) })
	c.attachAdvice(advice)
	return nil
}

// acquire claims the single in-flight slot. The returned release always
// clears Loading before freeing the slot.
func (c *Controller) acquire() (func(), error) {
	if !c.inflight.CompareAndSwap(false, true) {
		return nil, model.ErrBusy
	}
	return func() {
		c.mu.Lock()
		c.state.Loading = false
		c.mu.Unlock()
		c.inflight.Store(false)
	}, nil
}

func (c *Controller) update(fn func(State) State) {
	c.mu.Lock()
	c.state = fn(c.state)
	c.mu.Unlock()
}

func (c *Controller) setSession(id int64) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

func (c *Controller) recordSession(query string, prefs model.Preferences, count int) {
	if c.sessions == nil {
		return
	}
	id, err := c.sessions.Record(model.Session{
		Query:       query,
		Preferences: prefs,
		JobCount:    count,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		c.logger.Warn("failed to record session", "error", err)
		return
	}
	c.setSession(id)
}

func (c *Controller) attachAdvice(advice string) {
	if c.sessions == nil {
		return
	}
	c.mu.Lock()
	id := c.sessionID
	c.mu.Unlock()
	if id == 0 {
		return
	}
	if err := c.sessions.AttachAdvice(id, advice); err != nil {
		c.logger.Warn("failed to attach advice to session", "session", id, "error", err)
	}
}

func filterJobs(f model.JobFilter, jobs []model.JobPosting) []model.JobPosting {
	kept := make([]model.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		if f.Match(j) {
			kept = append(kept, j)
		}
	}
	return kept
}
