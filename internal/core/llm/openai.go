package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/bansungju/youtube/internal/core/domain"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRPS       = 1
	rateLimiterBurst = 1
	temperature      = 0.2
)

// Options configures the OpenAI-backed scorer. BaseURL is overridable for
// OpenAI-compatible gateways and for tests.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	RPS     float64
}

type openaiScorer struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger
}

// NewOpenAI creates a Scorer backed by a chat-completion API.
func NewOpenAI(opts Options, logger *zerolog.Logger) Scorer {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rps := opts.RPS
	if rps <= 0 {
		rps = defaultRPS
	}

	return &openaiScorer{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		timeout:     timeout,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), rateLimiterBurst),
		logger:      logger,
	}
}

// Score sends the evaluation prompt with a bounded wait. Expiry, transport
// failure, and malformed output all yield nil.
func (s *openaiScorer) Score(ctx context.Context, item domain.VideoItem) *domain.Verdict {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.rateLimiter.Wait(ctx); err != nil {
		s.logger.Warn().Err(err).Str("video_id", item.VideoID).Msg("scorer rate limiter wait failed")

		return nil
	}

	prompt := fmt.Sprintf(suitabilityPrompt, item.Title, item.ChannelTitle, item.Description)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("video_id", item.VideoID).Msg("suitability completion failed")

		return nil
	}

	if len(resp.Choices) == 0 {
		s.logger.Warn().Str("video_id", item.VideoID).Msg("suitability completion returned no choices")

		return nil
	}

	payload := extractJSON(resp.Choices[0].Message.Content)

	var verdict domain.Verdict
	if err := json.Unmarshal([]byte(payload), &verdict); err != nil {
		s.logger.Warn().Err(err).Str("video_id", item.VideoID).Msg("suitability verdict is not valid JSON")

		return nil
	}

	return &verdict
}
