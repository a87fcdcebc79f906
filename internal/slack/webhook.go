package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	errs "github.com/bansungju/youtube/internal/core/errors"
	"github.com/bansungju/youtube/internal/output/notify"
)

const webhookDefaultTimeout = 15 * time.Second

// Webhook posts rendered notification payloads to an incoming-webhook URL.
type Webhook struct {
	url        string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewWebhook(url string, logger *zerolog.Logger) *Webhook {
	return &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: webhookDefaultTimeout},
		logger:     logger,
	}
}

func (w *Webhook) Send(ctx context.Context, payload notify.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("%w: webhook returned %d: %s", errs.ErrUnexpectedStatus, resp.StatusCode, detail)
	}

	return nil
}
