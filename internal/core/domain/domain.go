// Package domain holds the core data types shared across the pipelines.
package domain

import "time"

// Recommendation is a structured record extracted from a curated chat message.
// It is constructed once per qualifying message and persisted as-is; there are
// no in-place updates afterwards.
type Recommendation struct {
	Title       string
	ChannelName string
	URL         string
	Score       int
	Type        string
	Core        string
	Reason      string
	ColumnAngle string
	Topic       string
	Date        string // ISO calendar date (YYYY-MM-DD)
}

// Message is a single chat message as returned by the chat-read collaborator.
// TS doubles as the message's identity token for deduplication.
type Message struct {
	Text        string
	TS          string
	Attachments []Attachment
}

// Attachment is the structured unfurl metadata Slack adds to a message.
type Attachment struct {
	ServiceName string `json:"service_name"`
	Title       string `json:"title"`
	AuthorName  string `json:"author_name"`
	TitleLink   string `json:"title_link"`
	FromURL     string `json:"from_url"`
}

// VideoItem is a candidate video from a tracked channel feed. It is never
// persisted; it is consumed immediately into a notification.
type VideoItem struct {
	VideoID      string
	Title        string
	Description  string
	PublishedAt  time.Time
	Thumbnail    string
	ChannelTitle string
}

// URL returns the canonical watch URL for the item.
func (v VideoItem) URL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

// Verdict is the structured suitability assessment for a video item. A nil
// *Verdict means "undetermined" (scorer unavailable or its output was
// malformed), which is a valid state, not an error.
type Verdict struct {
	Suitable    bool   `json:"suitable"`
	Score       int    `json:"score"`
	Type        string `json:"type"`
	Reason      string `json:"reason"`
	ColumnAngle string `json:"column_angle"`
	KeyMessage  string `json:"key_message"`
}

// Channel is a tracked video channel from the channels config file.
type Channel struct {
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
}
