package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobmatch/internal/history"
)

const noSessions = "No sessions recorded."

var (
	historyLimit     int
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	Long:  "Lists searches recorded in the local history database, newest first.",
	RunE:  runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete searches older than a duration",
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of sessions to show")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "delete sessions older than this (e.g. 720h)")
	_ = historyPruneCmd.MarkFlagRequired("older-than")
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory opens the configured database even when recording is
// disabled, so earlier sessions stay browsable. It returns a nil store when
// no database file exists yet, without creating one.
func openHistory() (*history.SQLiteStore, error) {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		logger.Debug("history recording is disabled", "path", cfg.History.Path)
	}
	if _, err := os.Stat(cfg.History.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("history database: %w", err)
	}
	return history.NewSQLiteStore(cfg.History.Path)
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	store, err := openHistory()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(out, noSessions)
		return nil
	}
	defer store.Close()

	sessions, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Fprintln(out, noSessions)
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintf(out, "#%d  %s  %q\n", s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Query)
		fmt.Fprintf(out, "     keywords=%s location=%s remote=%t jobs=%d\n",
			strings.Join(s.Preferences.Keywords, ","), s.Preferences.Location, s.Preferences.Remote, s.JobCount)
		if s.Advice != "" {
			fmt.Fprintf(out, "     advice: %s\n", firstLine(s.Advice, 100))
		}
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if historyOlderThan <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}
	store, err := openHistory()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(cmd.OutOrStdout(), noSessions)
		return nil
	}
	defer store.Close()

	if err := store.Cleanup(historyOlderThan); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned sessions older than %s.\n", historyOlderThan)
	return nil
}

func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > max {
		return string(r[:max]) + "…"
	}
	return s
}
