package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/titanous/json5"
)

// Config is the root configuration for PosterBot.
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	TMDB     TMDBConfig     `json:"tmdb"`
	Poll     PollConfig     `json:"poll"`
}

// TelegramConfig holds Bot API credentials.
type TelegramConfig struct {
	Token string `json:"token"`
}

// TMDBConfig holds the catalog service credentials and endpoints.
type TMDBConfig struct {
	APIKey          string  `json:"api_key"`
	BaseURL         string  `json:"base_url"`
	ImageBaseURL    string  `json:"image_base_url"`
	BackdropBaseURL string  `json:"backdrop_base_url"`
	Language        string  `json:"language"`
	RatePerSecond   float64 `json:"rate_per_second"` // client-side cap on catalog calls
}

// PollConfig tunes the getUpdates long-poll loop.
type PollConfig struct {
	TimeoutSec     int `json:"timeout_sec"`      // server-side long-poll wait
	BatchLimit     int `json:"batch_limit"`      // max updates per poll
	MaxFailures    int `json:"max_failures"`     // consecutive failures before cooldown
	RetryDelaySec  int `json:"retry_delay_sec"`  // sleep after a single poll failure
	CooldownSec    int `json:"cooldown_sec"`     // sleep after MaxFailures in a row
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:         "https://api.themoviedb.org/3",
			ImageBaseURL:    "https://image.tmdb.org/t/p/w500",
			BackdropBaseURL: "https://image.tmdb.org/t/p/w1280",
			Language:        "en-US",
			RatePerSecond:   4,
		},
		Poll: PollConfig{
			TimeoutSec:    30,
			BatchLimit:    100,
			MaxFailures:   5,
			RetryDelaySec: 2,
			CooldownSec:   10,
		},
	}
}

// Load reads config from a JSON5 file, then overlays env vars.
// A missing file is not an error: defaults plus env vars apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envStr("POSTERBOT_TELEGRAM_TOKEN", &c.Telegram.Token)
	envStr("POSTERBOT_TMDB_API_KEY", &c.TMDB.APIKey)
	envStr("POSTERBOT_TMDB_BASE_URL", &c.TMDB.BaseURL)
	envStr("POSTERBOT_TMDB_LANGUAGE", &c.TMDB.Language)
}

// Validate checks that the config is usable. Missing credentials are fatal
// at startup rather than surfacing as poll or search failures later.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("telegram.token is required (or POSTERBOT_TELEGRAM_TOKEN)"))
	}
	if c.TMDB.APIKey == "" {
		errs = append(errs, errors.New("tmdb.api_key is required (or POSTERBOT_TMDB_API_KEY)"))
	}
	if c.Poll.TimeoutSec <= 0 {
		errs = append(errs, errors.New("poll.timeout_sec must be positive"))
	}
	return errors.Join(errs...)
}
