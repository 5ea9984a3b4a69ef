package tui

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobmatch/internal/workflow"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusResults
)

type operation string

const (
	opClarify operation = "clarify"
	opSearch  operation = "search"
	opAdvice  operation = "advice"
)

// Lines per job item in the results view (title + company/location + link + blank separator).
const jobItemHeight = 4

// opDoneMsg is sent when a workflow operation returns.
type opDoneMsg struct {
	op  operation
	err error
}

type appModel struct {
	ctx  context.Context
	ctrl *workflow.Controller

	input   textinput.Model
	spinner spinner.Model
	results viewport.Model

	state   workflow.State
	pending operation
	focus   focusArea
	cursor  int

	width  int
	height int
	ready  bool

	openURL func(url string)
}

func newAppModel(ctx context.Context, ctrl *workflow.Controller) appModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. remote frontend developer in Europe"
	ti.Prompt = "› "
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return appModel{
		ctx:     ctx,
		ctrl:    ctrl,
		input:   ti,
		spinner: sp,
		state:   ctrl.State(),
		openURL: openURL,
	}
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opDoneMsg:
		m.state = m.ctrl.State()
		m.pending = ""
		if msg.op == opClarify && msg.err == nil && m.state.HasPreferences() {
			m.setFocus(focusResults)
		}
		if msg.op == opSearch {
			m.cursor = 0
			m.results.SetYOffset(0)
		}
		m.cursor = clamp(m.cursor, 0, max(len(m.state.Jobs)-1, 0))
		m.recalcContent()
		if msg.op == opAdvice && msg.err == nil {
			m.scrollToAdvice()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateResults(msg)
	}

	return m, nil
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := m.input.Value()
		if strings.TrimSpace(query) == "" {
			return m, nil
		}
		return m.trigger(opClarify, func(ctx context.Context) error {
			return m.ctrl.ClarifyPreferences(ctx, query)
		})
	case "tab":
		m.setFocus(focusResults)
		return m, nil
	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "esc", "/":
		m.setFocus(focusInput)
		return m, nil
	case "s":
		if !m.state.HasPreferences() {
			return m, nil
		}
		return m.trigger(opSearch, m.ctrl.SearchJobs)
	case "a":
		if !m.state.CanAdvise() {
			return m, nil
		}
		return m.trigger(opAdvice, m.ctrl.RequestMatchAdvice)
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, max(len(m.state.Jobs)-1, 0))
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, max(len(m.state.Jobs)-1, 0))
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "o", "enter":
		if m.cursor < len(m.state.Jobs) && m.state.Jobs[m.cursor].URL != "" && m.openURL != nil {
			m.openURL(m.state.Jobs[m.cursor].URL)
		}
		return m, nil
	}

	// Forward other keys (pgup/pgdn/home/end) to the results viewport.
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// trigger starts op unless one is already running. Controls stay inert until
// the matching opDoneMsg arrives.
func (m appModel) trigger(op operation, fn func(ctx context.Context) error) (tea.Model, tea.Cmd) {
	if m.state.Loading || m.ctrl.Busy() {
		return m, nil
	}
	m.pending = op
	m.state.Loading = true
	m.state.Err = ""

	ctx := m.ctx
	run := func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m *appModel) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *appModel) recalcLayout() {
	// Title, input, status, preferences, blank, results header = 6 lines;
	// border top/bottom (2) + key bar (1) = 3 more.
	paneHeight := max(m.height-9, 3)
	paneWidth := max(m.width-4, 20)
	m.input.Width = max(m.width-6, 10)

	if !m.ready {
		m.results = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.results.Width = paneWidth
		m.results.Height = paneHeight
	}
	m.recalcContent()
}

func (m *appModel) recalcContent() {
	if !m.ready {
		return
	}
	m.results.SetContent(renderResults(m.state, m.cursor, m.focus == focusResults, m.results.Width))
}

// scrollToAdvice brings the match analysis heading to the top of the results
// pane, or as close as the content allows.
func (m *appModel) scrollToAdvice() {
	content := renderResults(m.state, m.cursor, m.focus == focusResults, m.results.Width)
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(line, adviceHeading) {
			m.results.SetYOffset(i)
			return
		}
	}
}

func (m *appModel) ensureCursorVisible() {
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < m.results.YOffset {
		m.results.SetYOffset(cursorTop)
	} else if cursorBottom >= m.results.YOffset+m.results.Height {
		m.results.SetYOffset(cursorBottom - m.results.Height + 1)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the interactive workflow TUI on the alternate screen and
// blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctrl *workflow.Controller) error {
	m := newAppModel(ctx, ctrl)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
