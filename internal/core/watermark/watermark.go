// Package watermark decides item novelty against per-source last-seen timestamps.
package watermark

import "time"

// Tracker evaluates candidate items against per-source watermarks for one run.
// Sources are independent: a failed source is simply never advanced, and the
// others still are.
type Tracker struct {
	marks    Snapshot
	runStart time.Time
	grace    time.Duration
}

// NewTracker wraps a loaded snapshot for a run starting at runStart. The grace
// window applies only to sources with no prior watermark, bounding how far
// back a first-ever check may announce.
func NewTracker(marks Snapshot, runStart time.Time, grace time.Duration) *Tracker {
	if marks == nil {
		marks = Snapshot{}
	}

	return &Tracker{marks: marks, runStart: runStart, grace: grace}
}

// IsNew reports whether the item should be treated as unseen.
//
// With a prior watermark the item must be strictly newer than it. Without one
// the item must be no older than the grace window measured from run start;
// the boundary itself is included.
func (t *Tracker) IsNew(source string, publishedAt time.Time) bool {
	mark, ok := t.marks[source]
	if !ok {
		return t.runStart.Sub(publishedAt) <= t.grace
	}

	return publishedAt.After(mark)
}

// Advance moves the source's watermark to the run start time, not to the
// newest item's timestamp. Items published between the snapshot read and run
// completion surface on the next run only if they beat the new mark. Advance
// never lowers an existing watermark.
func (t *Tracker) Advance(source string) {
	if mark, ok := t.marks[source]; ok && mark.After(t.runStart) {
		return
	}

	t.marks[source] = t.runStart
}

// Marks returns the snapshot to persist at run end.
func (t *Tracker) Marks() Snapshot {
	return t.marks
}
