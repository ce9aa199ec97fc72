package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
	// APIToken, when set, is required as a bearer token on job endpoints.
	APIToken string `toml:"api_token"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey                string `toml:"api_key"`
	BaseURL               string `toml:"base_url"`
	ImageBaseURL          string `toml:"image_base_url"`
	Language              string `toml:"language"`
	Region                string `toml:"region"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Store selects the record store backend.
type Store struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// Importer controls catalog imports.
type Importer struct {
	MaxPages      int  `toml:"max_pages"`
	MaxNewRecords int  `toml:"max_new_records"`
	MinSeedCount  int  `toml:"min_seed_count"`
	SeedOnStart   bool `toml:"seed_on_start"`
}

// Refresh controls the periodic rating refresh of stale records.
type Refresh struct {
	Enabled       bool `toml:"enabled"`
	IntervalHours int  `toml:"interval_hours"`
	MaxAgeDays    int  `toml:"max_age_days"`
	MaxRecords    int  `toml:"max_records"`
}

// Selector controls random picks.
type Selector struct {
	// NoMatch is either "not_found" or "unfiltered".
	NoMatch string `toml:"no_match"`
}

// Session controls the per-visitor recency tracking.
type Session struct {
	CookieName     string `toml:"cookie_name"`
	IdleTTLMinutes int    `toml:"idle_ttl_minutes"`
	MaxSessions    int    `toml:"max_sessions"`
	SecureCookie   bool   `toml:"secure_cookie"`
}

// Notifications controls ntfy job notifications.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for the roulette service.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories, API bind address
//   - TMDB: upstream catalog credentials and request settings
//   - Store: sqlite (default) or postgres record store
//   - Importer: page/record limits and startup seeding
//   - Refresh: periodic rating refresh of stale records
//   - Selector: behaviour when a filter matches nothing
//   - Session: recency cookie and idle expiry
//   - Notifications: optional ntfy topic for job results
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	TMDB          TMDB          `toml:"tmdb"`
	Store         Store         `toml:"store"`
	Importer      Importer      `toml:"importer"`
	Refresh       Refresh       `toml:"refresh"`
	Selector      Selector      `toml:"selector"`
	Session       Session       `toml:"session"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("roulette.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SQLitePath is the database file used by the sqlite store driver.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Paths.DataDir, "roulette.db")
}

// DaemonLockPath guards against two daemons sharing a data directory.
func (c *Config) DaemonLockPath() string {
	return filepath.Join(c.Paths.DataDir, "roulette.lock")
}

// ImportLockPath is the file lock shared by every process that imports into the store.
func (c *Config) ImportLockPath() string {
	return filepath.Join(c.Paths.DataDir, "import.lock")
}

// TMDBRequestTimeout bounds every single upstream call.
func (c *Config) TMDBRequestTimeout() time.Duration {
	return time.Duration(c.TMDB.RequestTimeoutSeconds) * time.Second
}

// RefreshInterval is the period of the background stale-record refresh.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh.IntervalHours) * time.Hour
}

// SessionIdleTTL is how long an untouched visitor session is kept.
func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.Session.IdleTTLMinutes) * time.Minute
}

// NtfyRequestTimeout bounds a single notification delivery.
func (c *Config) NtfyRequestTimeout() time.Duration {
	return time.Duration(c.Notifications.RequestTimeoutSeconds) * time.Second
}

// HasTMDB reports whether upstream imports can run.
func (c *Config) HasTMDB() bool {
	return strings.TrimSpace(c.TMDB.APIKey) != ""
}

// RequireTMDB returns a descriptive error when no TMDB key is configured.
func (c *Config) RequireTMDB() error {
	if c.HasTMDB() {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'roulette config init')", defaultPath)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
