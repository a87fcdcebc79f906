// Package syncer runs the chat-to-store sync pipeline: fetch curated
// messages, gate on identity tokens, extract records, upsert, and archive
// stale entries.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bansungju/youtube/internal/core/dedup"
	"github.com/bansungju/youtube/internal/core/domain"
	"github.com/bansungju/youtube/internal/core/extract"
)

// MessageReader is the chat-read collaborator.
type MessageReader interface {
	FetchMessages(ctx context.Context, channelID string, oldest time.Time) ([]domain.Message, error)
}

// Store is the remote record store collaborator.
type Store interface {
	KnownTokens(ctx context.Context) (dedup.SeenSet, error)
	SaveRecommendation(ctx context.Context, rec domain.Recommendation, token string) error
	ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

const hoursPerDay = 24

type Syncer struct {
	reader    MessageReader
	store     Store
	extractor *extract.Extractor
	channelID string
	lookback  time.Duration
	retention time.Duration
	now       func() time.Time
	logger    *zerolog.Logger
}

func New(
	reader MessageReader,
	store Store,
	extractor *extract.Extractor,
	channelID string,
	lookback time.Duration,
	retentionDays int,
	logger *zerolog.Logger,
) *Syncer {
	return &Syncer{
		reader:    reader,
		store:     store,
		extractor: extractor,
		channelID: channelID,
		lookback:  lookback,
		retention: time.Duration(retentionDays) * hoursPerDay * time.Hour,
		now:       time.Now,
		logger:    logger,
	}
}

// Run executes one sync pass. A failed identity scan aborts the run: without
// the full known-set there is no safe way to dedup. Individual message
// failures (non-recommendation text, a rejected save) skip that message only.
// Re-running against an unchanged store and unchanged messages saves nothing.
func (s *Syncer) Run(ctx context.Context) error {
	known, err := s.store.KnownTokens(ctx)
	if err != nil {
		return fmt.Errorf("build known set: %w", err)
	}

	s.logger.Info().Int("existing", known.Len()).Msg("identity scan complete")

	oldest := s.now().Add(-s.lookback)

	messages, err := s.reader.FetchMessages(ctx, s.channelID, oldest)
	if err != nil {
		return fmt.Errorf("fetch messages: %w", err)
	}

	s.logger.Info().Int("messages", len(messages)).Msg("messages fetched")

	saved := 0

	for _, msg := range messages {
		if !known.IsNew(msg.TS) {
			continue
		}

		rec, ok := s.extractor.Extract(msg.Text, msg.Attachments)
		if !ok {
			continue
		}

		if err := s.store.SaveRecommendation(ctx, rec, msg.TS); err != nil {
			s.logger.Error().Err(err).Str("ts", msg.TS).Msg("save failed")

			continue
		}

		saved++
	}

	s.logger.Info().Int("saved", saved).Msg("sync complete")

	cutoff := s.now().Add(-s.retention)

	archived, err := s.store.ArchiveOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warn().Err(err).Msg("retention archive failed")

		return nil
	}

	if archived > 0 {
		s.logger.Info().Int("archived", archived).Msg("stale records archived")
	}

	return nil
}
