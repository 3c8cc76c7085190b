package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"EquityScreener/internal/model"
	"EquityScreener/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Feed struct {
		SnapshotPath string   `yaml:"snapshot_path" toml:"snapshot_path"`
		MetricPaths  []string `yaml:"metric_paths" toml:"metric_paths"`
		HARPath      string   `yaml:"har_path" toml:"har_path"`
		DerivePivots bool     `yaml:"derive_pivots" toml:"derive_pivots"`
		FetchBars    bool     `yaml:"fetch_bars" toml:"fetch_bars"`
		YahooSuffix  string   `yaml:"yahoo_suffix" toml:"yahoo_suffix"`
		BarDays      int      `yaml:"bar_days" toml:"bar_days"`
	} `yaml:"feed" toml:"feed"`
	Screen struct {
		Live         bool               `yaml:"live" toml:"live"`
		Strategies   []string           `yaml:"strategies" toml:"strategies"`
		TopN         int                `yaml:"top_n" toml:"top_n"`
		SwingWeights map[string]float64 `yaml:"swing_weights" toml:"swing_weights"`
	} `yaml:"screen" toml:"screen"`
	Telegram struct {
		BotToken string `yaml:"bot_token" toml:"bot_token"`
		ChatID   string `yaml:"chat_id" toml:"chat_id"`
	} `yaml:"telegram" toml:"telegram"`
	Schedule struct {
		CloseCron    string `yaml:"close_cron" toml:"close_cron"`
		IntradayCron string `yaml:"intraday_cron" toml:"intraday_cron"`
	} `yaml:"schedule" toml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`
	} `yaml:"database" toml:"database"`
	HTTP struct {
		Addr string `yaml:"addr" toml:"addr"`
	} `yaml:"http" toml:"http"`
	Proxy string `yaml:"proxy" toml:"proxy"`
}

// Load reads config from a YAML or TOML file (by extension), then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			err = toml.Unmarshal(data, cfg)
		} else {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SCREENER_FEED_PATH"); v != "" {
		cfg.Feed.SnapshotPath = v
	}
	if v := os.Getenv("SCREENER_LIVE"); v != "" {
		if live, err := strconv.ParseBool(v); err == nil {
			cfg.Screen.Live = live
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}

	// Defaults
	if cfg.Feed.SnapshotPath == "" {
		cfg.Feed.SnapshotPath = "stocks.json"
	}
	if cfg.Feed.BarDays == 0 {
		cfg.Feed.BarDays = 120
	}
	if len(cfg.Screen.Strategies) == 0 {
		for _, s := range model.AllStrategies {
			cfg.Screen.Strategies = append(cfg.Screen.Strategies, string(s))
		}
	}
	if cfg.Screen.TopN == 0 {
		cfg.Screen.TopN = 10
	}
	if cfg.Schedule.CloseCron == "" {
		cfg.Schedule.CloseCron = "0 30 16 * * 1-5"
	}
	if cfg.Schedule.IntradayCron == "" {
		cfg.Schedule.IntradayCron = "0 */30 10-15 * * 1-5"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}

	return cfg, nil
}

// Validate checks the fields a run depends on.
func (c *Config) Validate() error {
	if c.Feed.SnapshotPath == "" {
		return fmt.Errorf("feed.snapshot_path is required")
	}
	if c.Feed.BarDays < 0 {
		return fmt.Errorf("feed.bar_days must not be negative")
	}
	if c.Screen.TopN <= 0 {
		return fmt.Errorf("screen.top_n must be positive")
	}
	if _, err := c.Strategies(); err != nil {
		return err
	}
	if err := strategy.ValidateWeights(c.Screen.SwingWeights); err != nil {
		return fmt.Errorf("screen.swing_weights: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Strategies resolves the configured strategy names.
func (c *Config) Strategies() ([]model.Strategy, error) {
	out := make([]model.Strategy, 0, len(c.Screen.Strategies))
	for _, name := range c.Screen.Strategies {
		s, err := strategy.ParseStrategy(name)
		if err != nil {
			return nil, fmt.Errorf("screen.strategies: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
