package config

import (
	"golang-invest-backoffice/pkg/config"
)

// Trading holds trade execution configuration.
type Trading struct {
	FeeRate  string `mapstructure:"fee_rate"` // decimal fraction, e.g. "0.01"
	Currency string `mapstructure:"currency"` // ISO code used for transactions
}

// Quotes holds external price source configuration.
type Quotes struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	Timeout             string `mapstructure:"timeout"`
	CacheTTL            string `mapstructure:"cache_ttl"`
}

// Revaluation holds batch revaluation configuration.
type Revaluation struct {
	Schedule string `mapstructure:"schedule"` // cron expression, e.g. "0 18 * * *"
}

// Telegram holds operational notification configuration.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the back office service.
type Config struct {
	App         config.App      `mapstructure:"app"`
	Logger      config.Logger   `mapstructure:"logger"`
	Database    config.Database `mapstructure:"database"`
	Redis       config.Redis    `mapstructure:"redis"`
	API         config.API      `mapstructure:"api"`
	Trading     Trading         `mapstructure:"trading"`
	Quotes      Quotes          `mapstructure:"quotes"`
	Revaluation Revaluation     `mapstructure:"revaluation"`
	Telegram    Telegram        `mapstructure:"telegram"`
}

// Load loads the back office configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
