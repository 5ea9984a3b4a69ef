package workflow

import (
	"github.com/amishk599/jobmatch/internal/model"
)

// Fixed messages for failures that carry nothing worth showing.
const (
	msgClarifyFailed = "Failed to clarify preferences."
	msgSearchFailed  = "Failed to fetch jobs."
	msgAdviceFailed  = "Failed to get match advice."
)

// State is everything the front end renders. Transitions below are pure:
// they take a State by value and return the next one.
type State struct {
	Query       string
	Preferences *model.Preferences
	Jobs        []model.JobPosting
	Advice      string
	Loading     bool
	Err         string
}

// HasPreferences reports whether a search can run.
func (s State) HasPreferences() bool {
	return s.Preferences != nil
}

// CanAdvise reports whether match advice can be requested.
func (s State) CanAdvise() bool {
	return s.Preferences != nil && len(s.Jobs) > 0
}

// BeginClarify starts a new cycle for query. Everything derived from a
// previous query is dropped.
func BeginClarify(s State, query string) State {
	return State{
		Query:   query,
		Loading: true,
	}
}

// ClarifySucceeded stores prefs. Jobs and advice derive from preferences, so
// they are cleared.
func ClarifySucceeded(s State, prefs model.Preferences) State {
	p := prefs
	s.Preferences = &p
	s.Jobs = nil
	s.Advice = ""
	s.Err = ""
	s.Loading = false
	return s
}

// ClarifyFailed leaves preferences unset and records the error.
func ClarifyFailed(s State, err error) State {
	s.Preferences = nil
	s.Jobs = nil
	s.Advice = ""
	s.Err = model.UserMessage(err, msgClarifyFailed)
	s.Loading = false
	return s
}

// BeginSearch marks a search in flight.
func BeginSearch(s State) State {
	s.Loading = true
	s.Err = ""
	return s
}

// SearchSucceeded replaces the job list. Any earlier analysis no longer
// applies to it.
func SearchSucceeded(s State, jobs []model.JobPosting) State {
	if jobs == nil {
		jobs = []model.JobPosting{}
	}
	s.Jobs = jobs
	s.Advice = ""
	s.Loading = false
	return s
}

// SearchFailed records the error. Preferences and the previous job list stay.
func SearchFailed(s State, err error) State {
	s.Advice = ""
	s.Err = model.UserMessage(err, msgSearchFailed)
	s.Loading = false
	return s
}

// BeginAdvice marks an advice request in flight.
func BeginAdvice(s State) State {
	s.Loading = true
	s.Err = ""
	return s
}

// AdviceSucceeded stores the advice text.
func AdviceSucceeded(s State, advice string) State {
	s.Advice = advice
	s.Loading = false
	return s
}

// AdviceFailed records the error; jobs and preferences are untouched.
func AdviceFailed(s State, err error) State {
	s.Err = model.UserMessage(err, msgAdviceFailed)
	s.Loading = false
	return s
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	if s.Preferences != nil {
		p := *s.Preferences
		if p.Keywords != nil {
			p.Keywords = append([]string{}, p.Keywords...)
		}
		s.Preferences = &p
	}
	if s.Jobs != nil {
		s.Jobs = append([]model.JobPosting{}, s.Jobs...)
	}
	return s
}
