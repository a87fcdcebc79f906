// Package notify renders video items into Slack Block Kit payloads.
package notify

import (
	"fmt"

	"github.com/bansungju/youtube/internal/core/domain"
)

const dateLayout = "2006-01-02"

// Payload is a Slack Block Kit message body.
type Payload struct {
	Blocks []Block `json:"blocks"`
}

type Block struct {
	Type      string `json:"type"`
	Text      *Text  `json:"text,omitempty"`
	Accessory *Image `json:"accessory,omitempty"`
	Elements  []Text `json:"elements,omitempty"`
}

type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Image struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
	AltText  string `json:"alt_text"`
}

const (
	blockSection = "section"
	blockContext = "context"
	blockDivider = "divider"
	blockImage   = "image"
	textMarkdown = "mrkdwn"
)

// Render builds the notification payload. Pure and deterministic.
//
// The verdict section carries a distinct marker per outcome: recommended,
// skip, or undetermined. When no scorer is configured at all the section is
// omitted entirely, as is the thumbnail accessory when the item has none.
func Render(channelName string, item domain.VideoItem, verdict *domain.Verdict, scorerEnabled bool) Payload {
	body := Block{
		Type: blockSection,
		Text: &Text{
			Type: textMarkdown,
			Text: fmt.Sprintf("*<%s|%s>*\n\n%s", item.URL(), item.Title, item.Description),
		},
	}

	if item.Thumbnail != "" {
		body.Accessory = &Image{Type: blockImage, ImageURL: item.Thumbnail, AltText: item.Title}
	}

	blocks := []Block{
		{
			Type: blockSection,
			Text: &Text{Type: textMarkdown, Text: fmt.Sprintf("🎬 *%s* 새 영상 업로드!", channelName)},
		},
		body,
	}

	if verdictText := renderVerdict(verdict, scorerEnabled); verdictText != "" {
		blocks = append(blocks, Block{
			Type: blockSection,
			Text: &Text{Type: textMarkdown, Text: verdictText},
		})
	}

	blocks = append(blocks,
		Block{
			Type:     blockContext,
			Elements: []Text{{Type: textMarkdown, Text: "📅 " + item.PublishedAt.Format(dateLayout)}},
		},
		Block{Type: blockDivider},
	)

	return Payload{Blocks: blocks}
}

func renderVerdict(verdict *domain.Verdict, scorerEnabled bool) string {
	if verdict == nil {
		if !scorerEnabled {
			return ""
		}

		return "❔ *판정 불가* — 평가 결과를 받지 못했습니다."
	}

	marker := "⏭️ *스킵*"
	if verdict.Suitable {
		marker = "✅ *추천*"
	}

	text := fmt.Sprintf("%s (%d/10, %s)\n%s", marker, verdict.Score, verdict.Type, verdict.Reason)

	if verdict.Suitable && verdict.ColumnAngle != "" {
		text += "\n✍️ " + verdict.ColumnAngle
	}

	if verdict.KeyMessage != "" {
		text += "\n💬 " + verdict.KeyMessage
	}

	return text
}
