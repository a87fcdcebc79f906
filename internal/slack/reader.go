// Package slack implements the chat-read and webhook-dispatch collaborators.
package slack

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
	defaultAPIBaseURL    = "https://slack.com/api"
	historyMethod        = "conversations.history"
	historyPageLimit     = 100
	readerDefaultTimeout = 30 * time.Second
)

// Reader fetches messages from a Slack channel via conversations.history.
type Reader struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewReader(token string, logger *zerolog.Logger) *Reader {
	return &Reader{
		baseURL:    defaultAPIBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: readerDefaultTimeout},
		logger:     logger,
	}
}

type historyResponse struct {
	OK       bool             `json:"ok"`
	Error    string           `json:"error"`
	Messages []historyMessage `json:"messages"`
}

type historyMessage struct {
	Text        string              `json:"text"`
	TS          string              `json:"ts"`
	Attachments []domain.Attachment `json:"attachments"`
}

// FetchMessages returns channel messages no older than oldest.
func (r *Reader) FetchMessages(ctx context.Context, channelID string, oldest time.Time) ([]domain.Message, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("oldest", strconv.FormatFloat(float64(oldest.UnixNano())/1e9, 'f', 6, 64))
	params.Set("limit", strconv.Itoa(historyPageLimit))

	reqURL := r.baseURL + "/" + historyMethod + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create history request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read history response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: history returned %d", errs.ErrUnexpectedStatus, resp.StatusCode)
	}

	var parsed historyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}

	if !parsed.OK {
		return nil, fmt.Errorf("%w: %s", errs.ErrSlackAPI, parsed.Error)
	}

	messages := make([]domain.Message, 0, len(parsed.Messages))
	for _, m := range parsed.Messages {
		messages = append(messages, domain.Message{Text: m.Text, TS: m.TS, Attachments: m.Attachments})
	}

	return messages, nil
}
