// Package config loads runtime configuration from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/bansungju/youtube/internal/core/domain"
	errs "github.com/bansungju/youtube/internal/core/errors"
)

// Config is constructed once at process start and passed by reference into
// each collaborator constructor. Requiredness depends on the selected mode,
// so it is checked by ValidateSync/ValidateWatch rather than env tags.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"local"`

	SlackBotToken   string `env:"SLACK_BOT_TOKEN"`
	SlackChannelID  string `env:"SLACK_CHANNEL_ID"`
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`

	NotionAPIKey     string  `env:"NOTION_API_KEY"`
	NotionDatabaseID string  `env:"NOTION_DATABASE_ID" envDefault:"24ce4d83b1cb44839ae83a9a5bfe6e00"`
	NotionRPS        float64 `env:"NOTION_RATE_LIMIT_RPS" envDefault:"3"`

	YouTubeAPIKey string `env:"YOUTUBE_API_KEY"`

	LLMAPIKey  string        `env:"LLM_API_KEY"`
	LLMBaseURL string        `env:"LLM_BASE_URL"`
	LLMModel   string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeout time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	LLMRPS     float64       `env:"LLM_RATE_LIMIT_RPS" envDefault:"1"`

	SyncLookback  time.Duration `env:"SYNC_LOOKBACK" envDefault:"2h"`
	RetentionDays int           `env:"RETENTION_DAYS" envDefault:"7"`

	FirstRunGrace time.Duration `env:"FIRST_RUN_GRACE" envDefault:"1h"`
	MaxFeedItems  int           `env:"MAX_FEED_ITEMS" envDefault:"5"`
	ChannelsPath  string        `env:"CHANNELS_PATH" envDefault:"./channels.json"`
	WatermarkPath string        `env:"WATERMARK_PATH" envDefault:"./last_checked.json"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateSync checks the credentials the sync pipeline needs before any
// network call is made.
func (c *Config) ValidateSync() error {
	for _, v := range []struct{ name, value string }{
		{"SLACK_BOT_TOKEN", c.SlackBotToken},
		{"SLACK_CHANNEL_ID", c.SlackChannelID},
		{"NOTION_API_KEY", c.NotionAPIKey},
		{"NOTION_DATABASE_ID", c.NotionDatabaseID},
	} {
		if v.value == "" {
			return fmt.Errorf("%w: %s", errs.ErrConfigMissing, v.name)
		}
	}

	return nil
}

// ValidateWatch checks the credentials the watch pipeline needs. The LLM key
// is deliberately absent here: the scorer is a soft-optional capability.
func (c *Config) ValidateWatch() error {
	if c.SlackWebhookURL == "" {
		return fmt.Errorf("%w: SLACK_WEBHOOK_URL", errs.ErrConfigMissing)
	}

	return nil
}

type channelsFile struct {
	Channels []domain.Channel `json:"channels"`
}

// LoadChannels reads the tracked-channels config file.
func LoadChannels(path string) ([]domain.Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channels file: %w", err)
	}

	var f channelsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse channels file: %w", err)
	}

	return f.Channels, nil
}
