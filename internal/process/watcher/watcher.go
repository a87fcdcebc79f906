// Package watcher runs the feed-polling pipeline: detect newly published
// videos per tracked channel, optionally score them, and dispatch
// notifications.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bansungju/youtube/internal/core/domain"
	"github.com/bansungju/youtube/internal/core/llm"
	"github.com/bansungju/youtube/internal/core/watermark"
	"github.com/bansungju/youtube/internal/output/notify"
)

// FeedClient is the video-feed collaborator.
type FeedClient interface {
	RecentUploads(ctx context.Context, channelID string, maxItems int) ([]domain.VideoItem, error)
}

// Sender is the notification-dispatch collaborator.
type Sender interface {
	Send(ctx context.Context, payload notify.Payload) error
}

// SnapshotStore persists the per-source watermarks between runs.
type SnapshotStore interface {
	Load() (watermark.Snapshot, error)
	Save(watermark.Snapshot) error
}

type Watcher struct {
	feed      FeedClient
	sender    Sender
	scorer    llm.Scorer // nil when no generation credential is configured
	snapshots SnapshotStore
	channels  []domain.Channel
	maxItems  int
	grace     time.Duration
	now       func() time.Time
	logger    *zerolog.Logger
}

func New(
	feed FeedClient,
	sender Sender,
	scorer llm.Scorer,
	snapshots SnapshotStore,
	channels []domain.Channel,
	maxItems int,
	grace time.Duration,
	logger *zerolog.Logger,
) *Watcher {
	return &Watcher{
		feed:      feed,
		sender:    sender,
		scorer:    scorer,
		snapshots: snapshots,
		channels:  channels,
		maxItems:  maxItems,
		grace:     grace,
		now:       time.Now,
		logger:    logger,
	}
}

// Run executes one polling pass. A failed channel fetch is isolated: the
// channel keeps its old watermark and the others still advance. Notification
// send failures are logged and do not suppress the advance; the next
// scheduled run is the retry mechanism.
func (w *Watcher) Run(ctx context.Context) error {
	marks, err := w.snapshots.Load()
	if err != nil {
		return fmt.Errorf("load watermarks: %w", err)
	}

	tracker := watermark.NewTracker(marks, w.now(), w.grace)

	notified := 0

	for _, ch := range w.channels {
		logger := w.logger.With().Str("channel", ch.Name).Logger()

		items, err := w.feed.RecentUploads(ctx, ch.ChannelID, w.maxItems)
		if err != nil {
			logger.Warn().Err(err).Msg("feed fetch failed, skipping channel")

			continue
		}

		for _, item := range items {
			if !tracker.IsNew(ch.ChannelID, item.PublishedAt) {
				continue
			}

			var verdict *domain.Verdict
			if w.scorer != nil {
				verdict = w.scorer.Score(ctx, item)
			}

			payload := notify.Render(ch.Name, item, verdict, w.scorer != nil)

			if err := w.sender.Send(ctx, payload); err != nil {
				logger.Error().Err(err).Str("video_id", item.VideoID).Msg("notification send failed")

				continue
			}

			logger.Info().Str("title", item.Title).Msg("notification sent")

			notified++
		}

		tracker.Advance(ch.ChannelID)
	}

	if err := w.snapshots.Save(tracker.Marks()); err != nil {
		return fmt.Errorf("save watermarks: %w", err)
	}

	w.logger.Info().Int("notified", notified).Msg("watch complete")

	return nil
}
