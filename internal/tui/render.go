package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobmatch/internal/model"
	"github.com/amishk599/jobmatch/internal/workflow"
)

const (
	unknownCompany = "Unknown Company"
	adviceHeading  = "── Match Analysis"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Underline(true)

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m appModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🔍 Open Job Matcher"))
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(renderPreferences(m.state.Preferences))
	b.WriteString("\n\n")

	header := fmt.Sprintf("Jobs (%d)", len(m.state.Jobs))
	border := inactiveBorderStyle
	if m.focus == focusResults {
		border = activeBorderStyle
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteByte('\n')
	b.WriteString(border.Width(m.results.Width).Render(m.results.View()))
	b.WriteByte('\n')
	b.WriteString(statusBarStyle.Width(m.width).Render(m.keyHints()))

	return b.String()
}

func (m appModel) statusLine() string {
	switch {
	case m.state.Loading:
		return m.spinner.View() + " " + loadingText(m.pending, m.state)
	case m.state.Err != "":
		return errorStyle.Render("⚠ " + m.state.Err)
	case !m.state.HasPreferences():
		return hintStyle.Render("  describe the job you want and press enter")
	case m.state.Jobs == nil:
		return hintStyle.Render("  press s to search jobs")
	case len(m.state.Jobs) > 0 && m.state.Advice == "":
		return hintStyle.Render("  press a for match analysis")
	case m.state.Advice != "":
		return hintStyle.Render("  match analysis is below the jobs")
	}
	return ""
}

func loadingText(op operation, s workflow.State) string {
	switch op {
	case opClarify:
		return "Clarifying preferences..."
	case opSearch:
		if s.Preferences != nil {
			return fmt.Sprintf("Searching jobs in %s...", s.Preferences.Location)
		}
		return "Searching jobs..."
	case opAdvice:
		return "Analyzing matches..."
	}
	return "Working..."
}

func (m appModel) keyHints() string {
	if m.focus == focusInput {
		return " enter clarify  tab results  esc/ctrl+c quit"
	}
	hints := []string{"tab input"}
	if m.state.HasPreferences() && !m.state.Loading {
		hints = append(hints, "s search")
	}
	if m.state.CanAdvise() && !m.state.Loading {
		hints = append(hints, "a advice")
	}
	if len(m.state.Jobs) > 0 {
		hints = append(hints, "↑/↓ cursor", "o open URL")
	}
	hints = append(hints, "q quit")
	return " " + strings.Join(hints, "  ")
}

func renderPreferences(p *model.Preferences) string {
	if p == nil {
		return hintStyle.Render("  no preferences yet")
	}
	keywords := strings.Join(p.Keywords, ", ")
	if keywords == "" {
		keywords = "—"
	}
	location := p.Location
	if location == "" {
		location = "—"
	}
	remote := "no"
	if p.Remote {
		remote = "yes"
	}
	return fmt.Sprintf("  %s %s   %s %s   %s %s",
		labelStyle.Render("Keywords:"), keywords,
		labelStyle.Render("Location:"), location,
		labelStyle.Render("Remote:"), remote,
	)
}

// renderResults renders the job list followed by the match analysis, if any.
// Jobs come first so cursor offsets are multiples of jobItemHeight.
func renderResults(s workflow.State, cursor int, isActive bool, width int) string {
	var b strings.Builder

	switch {
	case s.Jobs == nil:
		b.WriteString("  (no search yet)")
	case len(s.Jobs) == 0:
		b.WriteString("  (no jobs found)")
	default:
		for i, j := range s.Jobs {
			isSelected := isActive && i == cursor

			titleSt := jobTitleStyle
			subtitleSt := jobSubtitleStyle
			prefix := "  "
			if isSelected {
				titleSt = selectedJobTitleStyle
				subtitleSt = selectedJobSubtitleStyle
				prefix = "> "
			}

			b.WriteString(prefix)
			b.WriteString(titleSt.Render(j.Title))
			b.WriteByte('\n')

			b.WriteString(prefix)
			b.WriteString(subtitleSt.Render(fmt.Sprintf("%s — %s", companyName(j), j.Location)))
			b.WriteByte('\n')

			b.WriteString(prefix)
			if j.URL != "" {
				b.WriteString(linkStyle.Render("View Job → " + j.URL))
			}
			b.WriteByte('\n')

			if i < len(s.Jobs)-1 {
				b.WriteByte('\n')
			}
		}
	}

	if s.Advice != "" {
		wrapWidth := max(width-4, 20)
		heading := adviceHeading + " "
		fill := strings.Repeat("─", max(wrapWidth-lipgloss.Width(heading), 3))
		b.WriteString("\n\n")
		b.WriteString(dividerStyle.Render(heading + fill))
		b.WriteString("\n\n")
		b.WriteString(adviceStyle.Render(wordWrap(s.Advice, wrapWidth)))
		b.WriteByte('\n')
	}

	return b.String()
}

func companyName(j model.JobPosting) string {
	if j.Company == "" {
		return unknownCompany
	}
	return j.Company
}

// wordWrap wraps each line of text at spaces so that no piece is wider than
// width cells. Spacing inside a piece is kept as sent, and continuation
// pieces reuse the line's indentation.
func wordWrap(text string, width int) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

	var out []string
	for lipgloss.Width(line) > width {
		r := []rune(line)
		cut := 0
		for i := len(indent); i < len(r); i++ {
			if lipgloss.Width(string(r[:i])) > width {
				break
			}
			if r[i] == ' ' {
				cut = i
			}
		}
		if cut <= len(indent) {
			// A single word wider than the pane stays on its own line.
			break
		}
		out = append(out, strings.TrimRight(string(r[:cut]), " "))
		line = indent + strings.TrimLeft(string(r[cut:]), " ")
	}
	return append(out, line)
}
