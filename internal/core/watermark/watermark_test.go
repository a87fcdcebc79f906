package watermark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var runStart = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

func TestTracker_FirstRunGraceWindow(t *testing.T) {
	grace := time.Hour
	tr := NewTracker(Snapshot{}, runStart, grace)

	tests := []struct {
		name        string
		publishedAt time.Time
		want        bool
	}{
		{
			name:        "two minutes old is new",
			publishedAt: runStart.Add(-2 * time.Minute),
			want:        true,
		},
		{
			name:        "exactly at the grace edge is new",
			publishedAt: runStart.Add(-grace),
			want:        true,
		},
		{
			name:        "one second past the edge is not new",
			publishedAt: runStart.Add(-grace - time.Second),
			want:        false,
		},
		{
			name:        "published after run start is new",
			publishedAt: runStart.Add(time.Minute),
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.IsNew("ch1", tt.publishedAt))
		})
	}
}

func TestTracker_StrictlyGreaterThanWatermark(t *testing.T) {
	mark := runStart.Add(-24 * time.Hour)
	tr := NewTracker(Snapshot{"ch1": mark}, runStart, time.Hour)

	assert.True(t, tr.IsNew("ch1", mark.Add(time.Second)), "newer than mark should be new")
	assert.False(t, tr.IsNew("ch1", mark), "equal to mark should not be new")
	assert.False(t, tr.IsNew("ch1", mark.Add(-time.Second)), "older than mark should not be new")
}

func TestTracker_GraceDoesNotApplyWithWatermark(t *testing.T) {
	// An old watermark admits everything after it, ignoring the grace window.
	mark := runStart.Add(-30 * 24 * time.Hour)
	tr := NewTracker(Snapshot{"ch1": mark}, runStart, time.Hour)

	assert.True(t, tr.IsNew("ch1", runStart.Add(-10*24*time.Hour)))
}

func TestTracker_AdvanceSetsRunStart(t *testing.T) {
	tr := NewTracker(Snapshot{"ch1": runStart.Add(-time.Hour)}, runStart, time.Hour)

	tr.Advance("ch1")
	tr.Advance("ch2")

	marks := tr.Marks()
	assert.Equal(t, runStart, marks["ch1"])
	assert.Equal(t, runStart, marks["ch2"])
}

func TestTracker_AdvanceNeverDecreases(t *testing.T) {
	future := runStart.Add(time.Hour)
	tr := NewTracker(Snapshot{"ch1": future}, runStart, time.Hour)

	tr.Advance("ch1")

	assert.Equal(t, future, tr.Marks()["ch1"], "advance must not lower an existing watermark")
}

func TestTracker_SourcesAreIndependent(t *testing.T) {
	tr := NewTracker(Snapshot{"ch1": runStart.Add(-time.Hour)}, runStart, time.Hour)

	tr.Advance("ch1")
	// ch2 failed its fetch and is never advanced.

	marks := tr.Marks()
	assert.Contains(t, marks, "ch1")
	assert.NotContains(t, marks, "ch2")
}
