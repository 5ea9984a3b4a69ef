package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobmatch/internal/model"
	"github.com/amishk599/jobmatch/internal/workflow"
)

var (
	runAdvice        bool
	runPage          int
	runLimit         int
	runMatchKeywords bool
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var runCmd = &cobra.Command{
	Use:   "run <query...>",
	Short: "Clarify, search and optionally advise without the TUI",
	Long: "Runs the workflow once: the query is turned into preferences, jobs are " +
		"searched by the extracted location and, with --advice, a match analysis is requested.",
	Args: cobra.MinimumNArgs(1),
	RunE: runOnce,
}

func init() {
	runCmd.Flags().BoolVar(&runAdvice, "advice", false, "request match advice for the results")
	runCmd.Flags().IntVar(&runPage, "page", 0, "results page to request (overrides config)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "results per page (overrides config)")
	runCmd.Flags().BoolVar(&runMatchKeywords, "match-keywords", false, "keep only postings mentioning an extracted keyword")
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		return err
	}

	search := cfg.Search
	if cmd.Flags().Changed("page") {
		search.Page = runPage
	}
	if cmd.Flags().Changed("limit") {
		search.Limit = runLimit
	}
	if cmd.Flags().Changed("match-keywords") {
		search.MatchKeywords = runMatchKeywords
	}
	if err := search.Validate(); err != nil {
		return err
	}

	sessions, closeStore, err := setupHistory(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ctrl := setupController(cfg, search, sessions, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("query is empty")
	}

	out := cmd.OutOrStdout()

	if err := ctrl.ClarifyPreferences(ctx, query); err != nil {
		return workflowError(ctrl, err)
	}
	printPreferences(out, ctrl.State())

	if err := ctrl.SearchJobs(ctx); err != nil {
		return workflowError(ctrl, err)
	}
	printJobs(out, ctrl.State())

	if !runAdvice {
		return nil
	}
	st := ctrl.State()
	if !st.CanAdvise() {
		fmt.Fprintln(out, dimStyle.Render("No jobs to analyze."))
		return nil
	}
	if err := ctrl.RequestMatchAdvice(ctx); err != nil {
		return workflowError(ctrl, err)
	}
	printAdvice(out, ctrl.State())
	return nil
}

// workflowError prefers the message the controller recorded for the user.
func workflowError(ctrl *workflow.Controller, err error) error {
	if msg := ctrl.State().Err; msg != "" {
		return errors.New(msg)
	}
	return errors.New(model.UserMessage(err, "workflow failed"))
}

func printPreferences(w io.Writer, s workflow.State) {
	if s.Preferences == nil {
		return
	}
	p := s.Preferences
	remote := "no"
	if p.Remote {
		remote = "yes"
	}
	fmt.Fprintln(w, sectionStyle.Render("Preferences"))
	fmt.Fprintf(w, "  Keywords: %s\n", strings.Join(p.Keywords, ", "))
	fmt.Fprintf(w, "  Location: %s\n", p.Location)
	fmt.Fprintf(w, "  Remote:   %s\n\n", remote)
}

func printJobs(w io.Writer, s workflow.State) {
	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Jobs (%d)", len(s.Jobs))))
	if len(s.Jobs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  no jobs found"))
		return
	}
	for _, j := range s.Jobs {
		company := j.Company
		if company == "" {
			company = "Unknown Company"
		}
		fmt.Fprintf(w, "  %s\n", j.Title)
		fmt.Fprintf(w, "    %s — %s\n", company, j.Location)
		if j.URL != "" {
			fmt.Fprintf(w, "    %s\n", dimStyle.Render(j.URL))
		}
	}
	fmt.Fprintln(w)
}

func printAdvice(w io.Writer, s workflow.State) {
	fmt.Fprintln(w, sectionStyle.Render("Match Analysis"))
	fmt.Fprintln(w, s.Advice)
}
