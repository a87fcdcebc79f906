package youtube

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/bansungju/youtube/internal/core/domain"
	errs "github.com/bansungju/youtube/internal/core/errors"
)

const rssFeedURLFormat = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

type rssClient struct {
	feedURLFormat string
	parser        *gofeed.Parser
	httpClient    *http.Client
	logger        *zerolog.Logger
}

// NewRSS creates a Feed backed by the public per-channel RSS feed. It needs
// no credentials but exposes less metadata than the Data API.
func NewRSS(logger *zerolog.Logger) Feed {
	return &rssClient{
		feedURLFormat: rssFeedURLFormat,
		parser:        gofeed.NewParser(),
		httpClient:    &http.Client{Timeout: defaultTimeout},
		logger:        logger,
	}
}

func (c *rssClient) RecentUploads(ctx context.Context, channelID string, maxItems int) ([]domain.VideoItem, error) {
	feedURL := fmt.Sprintf(c.feedURLFormat, channelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed returned %d", errs.ErrUnexpectedStatus, resp.StatusCode)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]domain.VideoItem, 0, maxItems)

	for _, it := range feed.Items {
		if len(items) >= maxItems {
			break
		}

		publishedAt, ok := itemPublishedAt(it)
		if !ok {
			c.logger.Warn().Str("link", it.Link).Msg("feed item without publish time, skipping")

			continue
		}

		items = append(items, domain.VideoItem{
			VideoID:      rssVideoID(it),
			Title:        it.Title,
			Description:  truncateDescription(rssDescription(it)),
			PublishedAt:  publishedAt,
			Thumbnail:    rssThumbnail(it),
			ChannelTitle: feed.Title,
		})
	}

	return items, nil
}

func itemPublishedAt(it *gofeed.Item) (time.Time, bool) {
	if it.PublishedParsed != nil {
		return *it.PublishedParsed, true
	}

	if it.Published == "" {
		return time.Time{}, false
	}

	t, err := dateparse.ParseAny(it.Published)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func rssVideoID(it *gofeed.Item) string {
	if exts, ok := it.Extensions["yt"]["videoId"]; ok && len(exts) > 0 {
		return exts[0].Value
	}

	return ""
}

// The feed nests description and thumbnail inside a media:group element.
func rssDescription(it *gofeed.Item) string {
	for _, group := range it.Extensions["media"]["group"] {
		if desc := group.Children["description"]; len(desc) > 0 {
			return desc[0].Value
		}
	}

	return it.Description
}

func rssThumbnail(it *gofeed.Item) string {
	for _, group := range it.Extensions["media"]["group"] {
		if thumbs := group.Children["thumbnail"]; len(thumbs) > 0 {
			return thumbs[0].Attrs["url"]
		}
	}

	return ""
}
