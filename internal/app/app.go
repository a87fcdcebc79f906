// Package app wires the collaborators into the two pipelines.
//
// Modes:
//   - Sync mode: chat messages → extracted recommendation records → store.
//   - Watch mode: tracked video feeds → watermark gate → [suitability scorer]
//     → webhook notifications.
//
// Each mode is one sequential run per invocation; the scheduler that re-runs
// the binary is the retry mechanism.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bansungju/youtube/internal/core/extract"
	"github.com/bansungju/youtube/internal/core/llm"
	"github.com/bansungju/youtube/internal/core/topics"
	"github.com/bansungju/youtube/internal/core/watermark"
	"github.com/bansungju/youtube/internal/notion"
	"github.com/bansungju/youtube/internal/platform/config"
	"github.com/bansungju/youtube/internal/process/syncer"
	"github.com/bansungju/youtube/internal/process/watcher"
	"github.com/bansungju/youtube/internal/slack"
	"github.com/bansungju/youtube/internal/youtube"
)

// App holds the application dependencies and provides methods to run each mode.
type App struct {
	cfg    *config.Config
	logger *zerolog.Logger
}

func New(cfg *config.Config, logger *zerolog.Logger) *App {
	return &App{cfg: cfg, logger: logger}
}

// RunSync runs the chat-to-store sync pipeline once.
func (a *App) RunSync(ctx context.Context) error {
	if err := a.cfg.ValidateSync(); err != nil {
		return err
	}

	a.logger.Info().Msg("starting sync mode")

	reader := slack.NewReader(a.cfg.SlackBotToken, a.logger)
	store := notion.New(a.cfg.NotionAPIKey, a.cfg.NotionDatabaseID, a.cfg.NotionRPS, a.logger)
	extractor := extract.New(topics.NewDefault())

	s := syncer.New(
		reader,
		store,
		extractor,
		a.cfg.SlackChannelID,
		a.cfg.SyncLookback,
		a.cfg.RetentionDays,
		a.logger,
	)

	return s.Run(ctx)
}

// RunWatch runs the feed-polling pipeline once.
func (a *App) RunWatch(ctx context.Context) error {
	if err := a.cfg.ValidateWatch(); err != nil {
		return err
	}

	channels, err := config.LoadChannels(a.cfg.ChannelsPath)
	if err != nil {
		return fmt.Errorf("load channels: %w", err)
	}

	if len(channels) == 0 {
		a.logger.Warn().Str("path", a.cfg.ChannelsPath).Msg("no tracked channels configured")

		return nil
	}

	a.logger.Info().Int("channels", len(channels)).Msg("starting watch mode")

	feed := youtube.New(a.cfg.YouTubeAPIKey, a.logger)
	sender := slack.NewWebhook(a.cfg.SlackWebhookURL, a.logger)
	snapshots := watermark.NewStore(a.cfg.WatermarkPath)

	w := watcher.New(
		feed,
		sender,
		a.newScorer(),
		snapshots,
		channels,
		a.cfg.MaxFeedItems,
		a.cfg.FirstRunGrace,
		a.logger,
	)

	return w.Run(ctx)
}

// newScorer returns nil when no generation credential is configured; the
// watch pipeline treats a nil scorer as "capability absent".
func (a *App) newScorer() llm.Scorer {
	if a.cfg.LLMAPIKey == "" {
		a.logger.Info().Msg("no LLM API key, suitability scoring disabled")

		return nil
	}

	return llm.NewOpenAI(llm.Options{
		APIKey:  a.cfg.LLMAPIKey,
		Model:   a.cfg.LLMModel,
		BaseURL: a.cfg.LLMBaseURL,
		Timeout: a.cfg.LLMTimeout,
		RPS:     a.cfg.LLMRPS,
	}, a.logger)
}
