package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the jobmatch client.
type Config struct {
	Backend BackendConfig
	Search  SearchConfig
	History HistoryConfig
}

// BackendConfig locates the job matcher backend.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration // zero means requests never time out
}

// SearchConfig tunes the job search step.
type SearchConfig struct {
	Page          int  // sent as ?page= when > 0
	Limit         int  // sent as ?limit= when > 0
	MatchKeywords bool // drop postings that mention none of the extracted keywords
}

// HistoryConfig controls the optional local session history.
type HistoryConfig struct {
	Enabled   bool
	Path      string
	Retention time.Duration // sessions older than this are pruned on startup; an explicit 0 keeps all
}

const (
	defaultBaseURL     = "http://localhost:8000"
	defaultHistoryPath = "jobmatch.db"
	defaultRetention   = 30 * 24 * time.Hour
	maxSearchLimit     = 100
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Backend rawBackendConfig `yaml:"backend"`
	Search  rawSearchConfig  `yaml:"search"`
	History rawHistoryConfig `yaml:"history"`
}

type rawBackendConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type rawSearchConfig struct {
	Page          int  `yaml:"page"`
	Limit         int  `yaml:"limit"`
	MatchKeywords bool `yaml:"match_keywords"`
}

type rawHistoryConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{BaseURL: defaultBaseURL},
		History: HistoryConfig{Path: defaultHistoryPath, Retention: defaultRetention},
	}
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load but returns Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse expands environment variables in data and decodes it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var timeout time.Duration
	if raw.Backend.Timeout != "" {
		d, err := time.ParseDuration(raw.Backend.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse backend.timeout %q: %w", raw.Backend.Timeout, err)
		}
		timeout = d
	}

	retention := defaultRetention
	if raw.History.Retention != "" {
		d, err := time.ParseDuration(raw.History.Retention)
		if err != nil {
			return nil, fmt.Errorf("parse history.retention %q: %w", raw.History.Retention, err)
		}
		retention = d
	}

	baseURL := raw.Backend.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	historyPath := raw.History.Path
	if historyPath == "" {
		historyPath = defaultHistoryPath
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: baseURL,
			Timeout: timeout,
		},
		Search: SearchConfig{
			Page:          raw.Search.Page,
			Limit:         raw.Search.Limit,
			MatchKeywords: raw.Search.MatchKeywords,
		},
		History: HistoryConfig{
			Enabled:   raw.History.Enabled,
			Path:      historyPath,
			Retention: retention,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url %q: %w", cfg.Backend.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url must be an http(s) URL, got %q", cfg.Backend.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend.base_url must include a host, got %q", cfg.Backend.BaseURL)
	}

	if cfg.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %v", cfg.Backend.Timeout)
	}
	if err := cfg.Search.Validate(); err != nil {
		return err
	}
	if cfg.History.Retention < 0 {
		return fmt.Errorf("history.retention must not be negative, got %v", cfg.History.Retention)
	}

	return nil
}

// Validate checks paging bounds. It also guards command-line overrides.
func (s SearchConfig) Validate() error {
	if s.Page < 0 {
		return fmt.Errorf("search.page must not be negative, got %d", s.Page)
	}
	if s.Limit < 0 || s.Limit > maxSearchLimit {
		return fmt.Errorf("search.limit must be between 0 and %d, got %d", maxSearchLimit, s.Limit)
	}
	return nil
}
