// Package extract turns semi-structured recommendation messages into typed records.
//
// Fields are delimited by labeled markers. Each body field is described by an
// ordered (start marker, candidate end markers) tuple and captured via
// leftmost-match scanning, so adding a field is a table change, not a regexp
// rewrite.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bansungju/youtube/internal/core/domain"
	"github.com/bansungju/youtube/internal/core/topics"
)

const (
	recommendationMarker = "블로그 추천"
	scoreMarker          = "점수:"
	videoService         = "YouTube"
	titleMaxRunes        = 50
	ellipsis             = "..."
)

var (
	scoreRe = regexp.MustCompile(`점수:\s*(\d+)/10`)
	typeRe  = regexp.MustCompile(`유형:\s*(.+)`)
	dateRe  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

type fieldSpec struct {
	start string
	ends  []string
	set   func(*domain.Recommendation, string)
}

// Marker precedence: each field ends at the leftmost of its end markers, or
// end-of-text. End markers cover both the emoji-prefixed line starts used in
// formatted messages and the bare labels, anchored to a newline.
var bodyFields = []fieldSpec{
	{
		start: "핵심:",
		ends:  []string{"\n💡", "\n✍️", "\n📅", "\n이유:", "\n칼럼 관점:"},
		set:   func(r *domain.Recommendation, v string) { r.Core = v },
	},
	{
		start: "이유:",
		ends:  []string{"\n✍️", "\n📅", "\n칼럼 관점:"},
		set:   func(r *domain.Recommendation, v string) { r.Reason = v },
	},
	{
		start: "칼럼 관점:",
		ends:  []string{"\n📅"},
		set:   func(r *domain.Recommendation, v string) { r.ColumnAngle = v },
	},
}

// Extractor parses raw message text (plus optional attachment metadata) into
// a Recommendation. The clock is injectable for tests.
type Extractor struct {
	classifier *topics.Classifier
	now        func() time.Time
}

func New(classifier *topics.Classifier) *Extractor {
	return &Extractor{classifier: classifier, now: time.Now}
}

// Extract returns the parsed record and true, or a zero record and false when
// the text is not a recommendation. A message without an explicit N/10 score
// is not a recommendation, whatever else it contains.
func (e *Extractor) Extract(text string, attachments []domain.Attachment) (domain.Recommendation, bool) {
	if !strings.Contains(text, recommendationMarker) && !strings.Contains(text, scoreMarker) {
		return domain.Recommendation{}, false
	}

	var rec domain.Recommendation

	scored := false
	if m := scoreRe.FindStringSubmatch(text); m != nil {
		rec.Score, _ = strconv.Atoi(m[1])
		scored = true
	}

	if m := typeRe.FindStringSubmatch(text); m != nil {
		rec.Type = strings.TrimSpace(m[1])
	}

	for _, f := range bodyFields {
		if v, ok := captureBetween(text, f.start, f.ends); ok {
			f.set(&rec, v)
		}
	}

	if d := dateRe.FindString(text); d != "" {
		rec.Date = d
	} else {
		rec.Date = e.now().Format("2006-01-02")
	}

	applyAttachments(&rec, attachments)

	if rec.Title == "" && rec.Core != "" {
		rec.Title = truncateRunes(rec.Core, titleMaxRunes)
	}

	rec.Topic = e.classifier.Classify(rec.Core + " " + rec.Reason + " " + rec.Title)

	if !scored {
		return domain.Recommendation{}, false
	}

	return rec, true
}

// captureBetween finds the start marker and captures everything up to the
// leftmost end marker, or end-of-text when none follows.
func captureBetween(text, start string, ends []string) (string, bool) {
	idx := strings.Index(text, start)
	if idx < 0 {
		return "", false
	}

	rest := text[idx+len(start):]

	end := len(rest)

	for _, e := range ends {
		if j := strings.Index(rest, e); j >= 0 && j < end {
			end = j
		}
	}

	return strings.TrimSpace(rest[:end]), true
}

// applyAttachments lets video unfurl metadata override the text-derived
// title, channel name, and URL. The first video-hosting attachment wins.
func applyAttachments(rec *domain.Recommendation, attachments []domain.Attachment) {
	for _, att := range attachments {
		if att.ServiceName != videoService && !strings.Contains(strings.ToLower(att.FromURL), "youtube") {
			continue
		}

		rec.Title = att.Title
		rec.ChannelName = att.AuthorName

		if att.TitleLink != "" {
			rec.URL = att.TitleLink
		} else {
			rec.URL = att.FromURL
		}

		return
	}
}

func truncateRunes(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}

	return string(runes[:maxRunes]) + ellipsis
}
