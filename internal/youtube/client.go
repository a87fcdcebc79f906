// Package youtube implements the video-feed collaborator.
//
// With an API key the Data API path is used (channel uploads playlist); without
// one the client falls back to the public per-channel RSS feed.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bansungju/youtube/internal/core/domain"
	errs "github.com/bansungju/youtube/internal/core/errors"
)

const (
	dataAPIBaseURL     = "https://www.googleapis.com/youtube/v3"
	defaultTimeout     = 30 * time.Second
	descriptionMax     = 200
	descriptionTrailer = "..."
)

// Feed lists recently published items for a tracked channel.
type Feed interface {
	RecentUploads(ctx context.Context, channelID string, maxItems int) ([]domain.VideoItem, error)
}

// New picks the Data API client when an API key is configured and the RSS
// fallback otherwise.
func New(apiKey string, logger *zerolog.Logger) Feed {
	if apiKey == "" {
		logger.Info().Msg("no YouTube API key, using RSS feed fallback")

		return NewRSS(logger)
	}

	return NewAPI(apiKey, logger)
}

type apiClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zerolog.Logger
}

// NewAPI creates a Data API backed Feed.
func NewAPI(apiKey string, logger *zerolog.Logger) Feed {
	return &apiClient{
		baseURL:    dataAPIBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

type channelsResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			PublishedAt  string `json:"publishedAt"`
			ChannelTitle string `json:"channelTitle"`
			ResourceID   struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
			Thumbnails map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

func (c *apiClient) RecentUploads(ctx context.Context, channelID string, maxItems int) ([]domain.VideoItem, error) {
	playlistID, err := c.uploadsPlaylist(ctx, channelID)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(maxItems))
	params.Set("key", c.apiKey)

	var resp playlistItemsResponse
	if err := c.get(ctx, "/playlistItems", params, &resp); err != nil {
		return nil, fmt.Errorf("list playlist items: %w", err)
	}

	items := make([]domain.VideoItem, 0, len(resp.Items))

	for _, it := range resp.Items {
		sn := it.Snippet

		publishedAt, err := time.Parse(time.RFC3339, sn.PublishedAt)
		if err != nil {
			c.logger.Warn().Err(err).Str("video_id", sn.ResourceID.VideoID).Msg("unparseable publish time, skipping item")

			continue
		}

		thumbnail := sn.Thumbnails["high"].URL
		if thumbnail == "" {
			thumbnail = sn.Thumbnails["default"].URL
		}

		items = append(items, domain.VideoItem{
			VideoID:      sn.ResourceID.VideoID,
			Title:        sn.Title,
			Description:  truncateDescription(sn.Description),
			PublishedAt:  publishedAt,
			Thumbnail:    thumbnail,
			ChannelTitle: sn.ChannelTitle,
		})
	}

	return items, nil
}

func (c *apiClient) uploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", channelID)
	params.Set("key", c.apiKey)

	var resp channelsResponse
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return "", fmt.Errorf("resolve channel: %w", err)
	}

	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: %s", errs.ErrChannelNotFound, channelID)
	}

	return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

func (c *apiClient) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", errs.ErrUnexpectedStatus, path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionMax {
		return s
	}

	return string(runes[:descriptionMax]) + descriptionTrailer
}
