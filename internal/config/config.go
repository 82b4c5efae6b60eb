package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the forkboard dashboard.
type Config struct {
	API     API     `yaml:"api"`
	Refresh Refresh `yaml:"refresh"`
	Logging Logging `yaml:"logging"`
}

// API holds the connection settings for the Forkalytics backend.
type API struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// Timeout returns the per-request timeout as a duration.
func (a API) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Refresh controls the polling cycle: the interval and the time windows and
// limits passed to each endpoint.
type Refresh struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	PostsHours      int `yaml:"posts_hours"`
	PostsLimit      int `yaml:"posts_limit"`
	HourlyHours     int `yaml:"hourly_hours"`
	HashtagsHours   int `yaml:"hashtags_hours"`
	HashtagsLimit   int `yaml:"hashtags_limit"`
	SummariesDays   int `yaml:"summaries_days"`
	TopicsHours     int `yaml:"topics_hours"`
}

// Interval returns the refresh interval as a duration.
func (r Refresh) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the built-in configuration: a local backend polled every
// minute with the standard dashboard windows.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 30,
			MaxRetries:     2,
		},
		Refresh: Refresh{
			IntervalSeconds: 60,
			PostsHours:      24,
			PostsLimit:      10,
			HourlyHours:     24,
			HashtagsHours:   24,
			HashtagsLimit:   10,
			SummariesDays:   30,
			TopicsHours:     72,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML configuration file at the given path on top of the
// defaults, then applies environment variable overrides. An empty path or a
// missing file is not an error; defaults and environment still apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORKALYTICS_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}

	if v := os.Getenv("FORKALYTICS_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutSeconds = n
		}
	}

	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Refresh.IntervalSeconds = n
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
