package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobmatch/internal/model"
	"github.com/amishk599/jobmatch/internal/workflow"
)

// stubBackend returns canned responses and counts calls.
type stubBackend struct {
	prefs    model.Preferences
	prefsErr error
	jobs     []model.JobPosting
	advice   string

	clarifyCalls int
	searchCalls  int
	adviceCalls  int
}

func (s *stubBackend) ClarifyPreferences(_ context.Context, _ string) (model.Preferences, error) {
	s.clarifyCalls++
	return s.prefs, s.prefsErr
}

func (s *stubBackend) SearchJobs(_ context.Context, _ string, _ model.SearchOptions) ([]model.JobPosting, error) {
	s.searchCalls++
	return s.jobs, nil
}

func (s *stubBackend) MatchAdvice(_ context.Context, _ model.Preferences, _ []model.JobPosting) (string, error) {
	s.adviceCalls++
	return s.advice, nil
}

// --- helpers ---

func newTestModel(b model.Backend) appModel {
	ctrl := workflow.NewController(b, nil, workflow.Options{}, nil)
	m := newAppModel(context.Background(), ctrl)
	m.openURL = nil
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(appModel)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and feeds any resulting opDoneMsg back into the model.
func press(m appModel, msg tea.Msg) appModel {
	updated, cmd := m.Update(msg)
	m = updated.(appModel)
	for _, out := range collect(cmd) {
		if done, ok := out.(opDoneMsg); ok {
			updated, _ = m.Update(done)
			m = updated.(appModel)
		}
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// --- tests ---

func TestEnter_BlankQueryDoesNothing(t *testing.T) {
	b := &stubBackend{}
	m := newTestModel(b)
	m.input.SetValue("   ")

	m = press(m, key("enter"))
	if b.clarifyCalls != 0 {
		t.Errorf("expected no backend call, got %d", b.clarifyCalls)
	}
	if m.state.Loading {
		t.Error("expected Loading false")
	}
}

func TestWorkflow_EndToEnd(t *testing.T) {
	b := &stubBackend{
		prefs:  model.Preferences{Keywords: []string{"frontend", "developer"}, Location: "Europe", Remote: true},
		jobs:   []model.JobPosting{{Title: "UI Engineer", Company: "Acme", Location: "Berlin", URL: "https://x/1"}},
		advice: "Strong match.",
	}
	m := newTestModel(b)
	var opened string
	m.openURL = func(url string) { opened = url }

	m.input.SetValue("remote frontend developer in Europe")
	m = press(m, key("enter"))

	if m.focus != focusResults {
		t.Error("expected focus to move to results after clarify")
	}
	view := m.View()
	for _, want := range []string{"frontend, developer", "Europe", "yes"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q after clarify", want)
		}
	}

	m = press(m, key("s"))
	view = m.View()
	for _, want := range []string{"Jobs (1)", "UI Engineer", "Acme — Berlin", "https://x/1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q after search", want)
		}
	}

	m = press(m, key("a"))
	if !strings.Contains(m.View(), "Strong match.") {
		t.Error("view missing advice text")
	}

	m = press(m, key("o"))
	if opened != "https://x/1" {
		t.Errorf("opened URL = %q", opened)
	}

	if b.clarifyCalls != 1 || b.searchCalls != 1 || b.adviceCalls != 1 {
		t.Errorf("calls = %d/%d/%d, want 1/1/1", b.clarifyCalls, b.searchCalls, b.adviceCalls)
	}
}

func TestTrigger_IgnoredWhileLoading(t *testing.T) {
	b := &stubBackend{prefs: model.Preferences{Keywords: []string{}, Location: "Berlin"}}
	m := newTestModel(b)
	m.input.SetValue("go in berlin")
	m = press(m, key("enter"))

	// Start a search but do not run its command yet.
	updated, cmd := m.Update(key("s"))
	m = updated.(appModel)
	if cmd == nil || !m.state.Loading {
		t.Fatal("expected search to start")
	}

	_, second := m.Update(key("s"))
	if second != nil {
		t.Error("expected second trigger to be ignored while loading")
	}
}

func TestAdvice_IgnoredWithoutJobs(t *testing.T) {
	b := &stubBackend{prefs: model.Preferences{Keywords: []string{}, Location: "Berlin"}, jobs: []model.JobPosting{}}
	m := newTestModel(b)
	m.input.SetValue("go in berlin")
	m = press(m, key("enter"))
	m = press(m, key("s"))

	updated, cmd := m.Update(key("a"))
	if cmd != nil || updated.(appModel).state.Loading {
		t.Error("expected advice trigger to be a no-op with no jobs")
	}
	if !strings.Contains(m.View(), "(no jobs found)") {
		t.Error("expected empty list message")
	}
}

func TestClarifyError_IsShown(t *testing.T) {
	b := &stubBackend{prefsErr: &model.InvalidInputError{Message: "input not clear"}}
	m := newTestModel(b)
	m.input.SetValue("???")
	m = press(m, key("enter"))

	if m.focus != focusInput {
		t.Error("expected focus to stay on input after a failed clarify")
	}
	if !strings.Contains(m.View(), "input not clear") {
		t.Error("view missing error message")
	}
}

func TestRenderResults_UnknownCompanyAndNoLink(t *testing.T) {
	s := workflow.State{Jobs: []model.JobPosting{{Title: "Backend Engineer", Location: "Remote"}}}
	out := renderResults(s, 0, false, 80)
	if !strings.Contains(out, "Unknown Company — Remote") {
		t.Errorf("expected unknown company fallback, got %q", out)
	}
	if strings.Contains(out, "View Job") {
		t.Error("expected no link for a posting without URL")
	}
}

func TestAdvice_ScrolledIntoViewWithManyJobs(t *testing.T) {
	jobs := make([]model.JobPosting, 12)
	for i := range jobs {
		jobs[i] = model.JobPosting{
			Title:    fmt.Sprintf("Engineer %d", i),
			Company:  "Acme",
			Location: "Berlin",
			URL:      fmt.Sprintf("https://x/%d", i),
		}
	}
	b := &stubBackend{
		prefs:  model.Preferences{Keywords: []string{"go"}, Location: "Berlin"},
		jobs:   jobs,
		advice: "Strong match.",
	}
	m := newTestModel(b)
	m = press(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m.input.SetValue("go in berlin")
	m = press(m, key("enter"))
	m = press(m, key("s"))
	if strings.Contains(m.View(), "Engineer 11") {
		t.Fatal("expected the job list to overflow the results pane")
	}

	m = press(m, key("a"))
	view := m.View()
	if !strings.Contains(view, "Strong match.") {
		t.Errorf("advice not visible after it arrived (yoffset=%d)", m.results.YOffset)
	}
	if !strings.Contains(view, "Match Analysis") {
		t.Error("match analysis heading not visible")
	}
}

func TestRenderResults_DividerSpansWrapWidth(t *testing.T) {
	s := workflow.State{Jobs: []model.JobPosting{{Title: "Go Developer"}}, Advice: "Fits."}
	out := renderResults(s, 0, false, 80)
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, adviceHeading) {
			if got := lipgloss.Width(line); got != 76 {
				t.Errorf("divider width = %d, want 76", got)
			}
			return
		}
	}
	t.Fatal("divider not rendered")
}

func TestWordWrap_KeepsSpacing(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "short lines untouched", text: "Fit:\n  - Go  (strong)\n\tremote", width: 40, want: "Fit:\n  - Go  (strong)\n\tremote"},
		{name: "indent carried over", text: "  alpha beta gamma", width: 12, want: "  alpha beta\n  gamma"},
		{name: "long word kept whole", text: "supercalifragilistic", width: 5, want: "supercalifragilistic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wordWrap(tt.text, tt.width); got != tt.want {
				t.Errorf("wordWrap = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("wordWrap = %q", got)
	}
}
