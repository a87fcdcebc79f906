package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bansungju/youtube/internal/core/domain"
	"github.com/bansungju/youtube/internal/core/llm"
	"github.com/bansungju/youtube/internal/core/watermark"
	"github.com/bansungju/youtube/internal/output/notify"
)

var runStart = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

type fakeFeed struct {
	items map[string][]domain.VideoItem
	errs  map[string]error
}

func (f *fakeFeed) RecentUploads(_ context.Context, channelID string, _ int) ([]domain.VideoItem, error) {
	if err := f.errs[channelID]; err != nil {
		return nil, err
	}

	return f.items[channelID], nil
}

type fakeSender struct {
	payloads []notify.Payload
	err      error
}

func (s *fakeSender) Send(_ context.Context, payload notify.Payload) error {
	if s.err != nil {
		return s.err
	}

	s.payloads = append(s.payloads, payload)

	return nil
}

func video(id string, publishedAt time.Time) domain.VideoItem {
	return domain.VideoItem{VideoID: id, Title: "영상 " + id, PublishedAt: publishedAt, ChannelTitle: "채널"}
}

func newTestWatcher(t *testing.T, feed *fakeFeed, sender *fakeSender, scorer llm.Scorer, channels []domain.Channel) (*Watcher, *watermark.Store) {
	t.Helper()

	store := watermark.NewStore(filepath.Join(t.TempDir(), "last_checked.json"))
	logger := zerolog.Nop()

	w := New(feed, sender, scorer, store, channels, 5, time.Hour, &logger)
	w.now = func() time.Time { return runStart }

	return w, store
}

func TestWatcher_FirstRunAnnouncesOnlyRecentItems(t *testing.T) {
	feed := &fakeFeed{items: map[string][]domain.VideoItem{
		"ch1": {
			video("recent", runStart.Add(-2*time.Minute)),
			video("old", runStart.Add(-2*time.Hour)),
		},
	}}
	sender := &fakeSender{}

	w, store := newTestWatcher(t, feed, sender, nil, []domain.Channel{{ChannelID: "ch1", Name: "채널A"}})

	require.NoError(t, w.Run(context.Background()))

	require.Len(t, sender.payloads, 1)
	assert.Contains(t, sender.payloads[0].Blocks[1].Text.Text, "recent")

	marks, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, runStart, marks["ch1"])
}

func TestWatcher_WatermarkSuppressesSeenItems(t *testing.T) {
	published := runStart.Add(-30 * time.Minute)
	feed := &fakeFeed{items: map[string][]domain.VideoItem{
		"ch1": {video("v1", published)},
	}}

	channels := []domain.Channel{{ChannelID: "ch1", Name: "채널A"}}

	// Prior watermark equal to the item's own timestamp: strict greater-than
	// means not new.
	sender := &fakeSender{}
	w, store := newTestWatcher(t, feed, sender, nil, channels)
	require.NoError(t, store.Save(watermark.Snapshot{"ch1": published}))

	require.NoError(t, w.Run(context.Background()))
	assert.Empty(t, sender.payloads)

	// An older watermark admits it.
	sender = &fakeSender{}
	w, store = newTestWatcher(t, feed, sender, nil, channels)
	require.NoError(t, store.Save(watermark.Snapshot{"ch1": published.Add(-time.Second)}))

	require.NoError(t, w.Run(context.Background()))
	assert.Len(t, sender.payloads, 1)
}

func TestWatcher_SecondRunSendsNothingNew(t *testing.T) {
	feed := &fakeFeed{items: map[string][]domain.VideoItem{
		"ch1": {video("v1", runStart.Add(-time.Minute))},
	}}
	sender := &fakeSender{}

	w, _ := newTestWatcher(t, feed, sender, nil, []domain.Channel{{ChannelID: "ch1", Name: "채널A"}})

	require.NoError(t, w.Run(context.Background()))
	require.Len(t, sender.payloads, 1)

	// Same items, later run: everything is at or below the stored watermark.
	w.now = func() time.Time { return runStart.Add(10 * time.Minute) }

	require.NoError(t, w.Run(context.Background()))
	assert.Len(t, sender.payloads, 1)
}

func TestWatcher_FeedFailureIsolatedPerChannel(t *testing.T) {
	feed := &fakeFeed{
		items: map[string][]domain.VideoItem{
			"ok": {video("v1", runStart.Add(-time.Minute))},
		},
		errs: map[string]error{"down": errors.New("feed unavailable")},
	}
	sender := &fakeSender{}

	w, store := newTestWatcher(t, feed, sender, nil, []domain.Channel{
		{ChannelID: "down", Name: "다운 채널"},
		{ChannelID: "ok", Name: "정상 채널"},
	})

	require.NoError(t, w.Run(context.Background()))

	assert.Len(t, sender.payloads, 1, "healthy channel still notifies")

	marks, err := store.Load()
	require.NoError(t, err)
	assert.Contains(t, marks, "ok")
	assert.NotContains(t, marks, "down", "failed channel must keep its old watermark")
}

func TestWatcher_ScorerVerdictRendered(t *testing.T) {
	feed := &fakeFeed{items: map[string][]domain.VideoItem{
		"ch1": {video("v1", runStart.Add(-time.Minute))},
	}}
	sender := &fakeSender{}
	scorer := &llm.Mock{Verdict: &domain.Verdict{Suitable: true, Score: 9, Type: "튜토리얼", Reason: "좋음"}}

	w, _ := newTestWatcher(t, feed, sender, scorer, []domain.Channel{{ChannelID: "ch1", Name: "채널A"}})

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, 1, scorer.Calls)
	require.Len(t, sender.payloads, 1)
	assert.Contains(t, sender.payloads[0].Blocks[2].Text.Text, "✅ *추천*")
}

func TestWatcher_AbsentVerdictStillNotifies(t *testing.T) {
	feed := &fakeFeed{items: map[string][]domain.VideoItem{
		"ch1": {video("v1", runStart.Add(-time.Minute))},
	}}
	sender := &fakeSender{}
	scorer := &llm.Mock{Verdict: nil}

	w, _ := newTestWatcher(t, feed, sender, scorer, []domain.Channel{{ChannelID: "ch1", Name: "채널A"}})

	require.NoError(t, w.Run(context.Background()))

	require.Len(t, sender.payloads, 1)
	assert.Contains(t, sender.payloads[0].Blocks[2].Text.Text, "판정 불가")
}

func TestWatcher_SendFailureDoesNotBlockWatermark(t *testing.T) {
	feed := &fakeFeed{items: map[string][]domain.VideoItem{
		"ch1": {video("v1", runStart.Add(-time.Minute))},
	}}
	sender := &fakeSender{err: errors.New("webhook down")}

	w, store := newTestWatcher(t, feed, sender, nil, []domain.Channel{{ChannelID: "ch1", Name: "채널A"}})

	require.NoError(t, w.Run(context.Background()))

	marks, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, runStart, marks["ch1"])
}

func TestWatcher_WatermarkNeverDecreases(t *testing.T) {
	feed := &fakeFeed{items: map[string][]domain.VideoItem{}}
	sender := &fakeSender{}

	future := runStart.Add(2 * time.Hour)

	w, store := newTestWatcher(t, feed, sender, nil, []domain.Channel{{ChannelID: "ch1", Name: "채널A"}})
	require.NoError(t, store.Save(watermark.Snapshot{"ch1": future}))

	require.NoError(t, w.Run(context.Background()))

	marks, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, future, marks["ch1"])
}
