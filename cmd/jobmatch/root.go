package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobmatch/internal/backend"
	"github.com/amishk599/jobmatch/internal/config"
	"github.com/amishk599/jobmatch/internal/filter"
	"github.com/amishk599/jobmatch/internal/history"
	"github.com/amishk599/jobmatch/internal/model"
	"github.com/amishk599/jobmatch/internal/tui"
	"github.com/amishk599/jobmatch/internal/workflow"
)

const debugLogFile = "jobmatch.log"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobmatch",
	Short: "Describe a job, find postings, get match advice",
	Long: "jobmatch turns a free-text job description into structured preferences, " +
		"searches the job matcher backend and asks it how well the results fit.",
	SilenceUsage: true,
	RunE:         runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBMATCH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func runInteractive(cmd *cobra.Command, args []string) error {
	// An alt-screen TUI must not interleave log lines, so logs go to a file
	// with --debug and nowhere otherwise.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if debug {
		f, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		return err
	}

	sessions, closeStore, err := setupHistory(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ctrl := setupController(cfg, cfg.Search, sessions, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, ctrl)
}

// loadConfig loads .env, then resolves the config path and parses it.
// Priority: explicit path arg > JOBMATCH_CONFIG env var > "./config.yaml".
// Only an explicitly named file has to exist.
func loadConfig(path string, logger *slog.Logger) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	explicit := true
	if path == "" {
		if env := os.Getenv("JOBMATCH_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
			explicit = false
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if explicit {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger.Debug("config loaded",
		"path", path,
		"base_url", cfg.Backend.BaseURL,
		"timeout", cfg.Backend.Timeout.String(),
		"history", cfg.History.Enabled,
	)
	return cfg, nil
}

// setupLogger logs to stderr so command output on stdout stays clean.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func setupBackend(cfg *config.Config, logger *slog.Logger) *backend.Client {
	httpClient := &http.Client{Timeout: cfg.Backend.Timeout}
	return backend.New(cfg.Backend.BaseURL, httpClient, logger)
}

// setupHistory opens the session store. With history disabled it returns a
// NopStore. The returned func closes whatever was opened.
func setupHistory(cfg *config.Config, logger *slog.Logger) (model.SessionStore, func(), error) {
	if !cfg.History.Enabled {
		return history.NewNopStore(), func() {}, nil
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	if cfg.History.Retention > 0 {
		if err := store.Cleanup(cfg.History.Retention); err != nil {
			logger.Warn("history cleanup failed", "error", err)
		}
	}
	return store, func() { store.Close() }, nil
}

func setupController(cfg *config.Config, search config.SearchConfig, sessions model.SessionStore, logger *slog.Logger) *workflow.Controller {
	opts := workflow.Options{
		Search: model.SearchOptions{Page: search.Page, Limit: search.Limit},
	}
	if search.MatchKeywords {
		opts.Filter = filter.ForPreferences
	}
	return workflow.NewController(setupBackend(cfg, logger), sessions, opts, logger)
}
