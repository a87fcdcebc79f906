// Package notion implements the remote store collaborator on the Notion API.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bansungju/youtube/internal/core/dedup"
	"github.com/bansungju/youtube/internal/core/domain"
	errs "github.com/bansungju/youtube/internal/core/errors"
)

const (
	defaultBaseURL  = "https://api.notion.com/v1"
	notionVersion   = "2022-06-28"
	queryPageSize   = 100
	richTextMax     = 2000
	defaultTimeout  = 30 * time.Second
	limiterBurst    = 1
	identityProp    = "Slack TS"
	dateProp        = "날짜"
	dateLayout      = "2006-01-02"
	propTitle       = "제목"
	propScore       = "점수"
	propType        = "유형"
	propTopic       = "토픽"
	propURL         = "YouTube URL"
	untitledDefault = "Untitled"
)

// knownTypes is the closed set of the store's type select. A free-text type
// value maps to the first set member it contains; anything else is dropped
// rather than creating new select options.
var knownTypes = []string{"강연/교육", "뉴스/트렌드", "튜토리얼", "리뷰/분석", "인터뷰"}

// richTextProps are the free-text record fields persisted as rich text.
var richTextProps = []struct {
	name  string
	value func(domain.Recommendation) string
}{
	{"핵심", func(r domain.Recommendation) string { return r.Core }},
	{"이유", func(r domain.Recommendation) string { return r.Reason }},
	{"칼럼관점", func(r domain.Recommendation) string { return r.ColumnAngle }},
	{"채널명", func(r domain.Recommendation) string { return r.ChannelName }},
}

// Store talks to one Notion database. All calls go through a shared rate
// limiter to stay under the API's published request ceiling.
type Store struct {
	baseURL    string
	apiKey     string
	databaseID string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

func New(apiKey, databaseID string, rps float64, logger *zerolog.Logger) *Store {
	if rps <= 0 {
		rps = 3
	}

	return &Store{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		databaseID: databaseID,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), limiterBurst),
		logger:     logger,
	}
}

type queryRequest struct {
	PageSize    int             `json:"page_size,omitempty"`
	StartCursor string          `json:"start_cursor,omitempty"`
	Filter      json.RawMessage `json:"filter,omitempty"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type page struct {
	ID         string                  `json:"id"`
	Properties map[string]pageProperty `json:"properties"`
}

type pageProperty struct {
	RichText []struct {
		PlainText string `json:"plain_text"`
	} `json:"rich_text"`
}

// KnownTokens scans the whole database and collects the hidden identity
// property of every record. Built fresh each run; never cached.
func (s *Store) KnownTokens(ctx context.Context) (dedup.SeenSet, error) {
	seen := dedup.NewSeenSet()

	cursor := ""

	for {
		resp, err := s.query(ctx, queryRequest{PageSize: queryPageSize, StartCursor: cursor})
		if err != nil {
			return nil, fmt.Errorf("scan identity tokens: %w", err)
		}

		for _, p := range resp.Results {
			if rt := p.Properties[identityProp].RichText; len(rt) > 0 {
				seen.Add(rt[0].PlainText)
			}
		}

		if !resp.HasMore {
			return seen, nil
		}

		cursor = resp.NextCursor
	}
}

// SaveRecommendation creates one page for the record, tagged with the
// originating message's identity token.
func (s *Store) SaveRecommendation(ctx context.Context, rec domain.Recommendation, token string) error {
	body := map[string]any{
		"parent":     map[string]any{"database_id": s.databaseID},
		"properties": buildProperties(rec, token),
	}

	if err := s.do(ctx, http.MethodPost, "/pages", body, nil); err != nil {
		return fmt.Errorf("save recommendation: %w", err)
	}

	s.logger.Info().Str("title", rec.Title).Str("topic", rec.Topic).Msg("recommendation saved")

	return nil
}

// ArchiveOlderThan archives every record whose date predates the cutoff and
// returns how many were archived.
func (s *Store) ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	filter, err := json.Marshal(map[string]any{
		"property": dateProp,
		"date":     map[string]string{"before": cutoff.Format(dateLayout)},
	})
	if err != nil {
		return 0, fmt.Errorf("encode archive filter: %w", err)
	}

	resp, err := s.query(ctx, queryRequest{Filter: filter})
	if err != nil {
		return 0, fmt.Errorf("query stale records: %w", err)
	}

	archived := 0

	for _, p := range resp.Results {
		if err := s.do(ctx, http.MethodPatch, "/pages/"+p.ID, map[string]bool{"archived": true}, nil); err != nil {
			s.logger.Warn().Err(err).Str("page_id", p.ID).Msg("archive failed")

			continue
		}

		archived++
	}

	return archived, nil
}

func (s *Store) query(ctx context.Context, req queryRequest) (*queryResponse, error) {
	var resp queryResponse
	if err := s.do(ctx, http.MethodPost, "/databases/"+s.databaseID+"/query", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d: %s", errs.ErrUnexpectedStatus, path, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func buildProperties(rec domain.Recommendation, token string) map[string]any {
	title := rec.Title
	if title == "" {
		title = untitledDefault
	}

	props := map[string]any{
		propTitle:    map[string]any{"title": []any{textContent(title)}},
		identityProp: map[string]any{"rich_text": []any{textContent(token)}},
		propScore:    map[string]any{"number": rec.Score},
	}

	if name, ok := matchKnownType(rec.Type); ok {
		props[propType] = selectProp(name)
	}

	for _, p := range richTextProps {
		if v := p.value(rec); v != "" {
			props[p.name] = map[string]any{"rich_text": []any{textContent(clampRunes(v, richTextMax))}}
		}
	}

	if rec.URL != "" {
		props[propURL] = map[string]string{"url": rec.URL}
	}

	if rec.Topic != "" {
		props[propTopic] = selectProp(rec.Topic)
	}

	if rec.Date != "" {
		props[dateProp] = map[string]any{"date": map[string]string{"start": rec.Date}}
	}

	return props
}

func matchKnownType(value string) (string, bool) {
	for _, name := range knownTypes {
		if value != "" && strings.Contains(value, name) {
			return name, true
		}
	}

	return "", false
}

func textContent(s string) map[string]any {
	return map[string]any{"text": map[string]string{"content": s}}
}

func selectProp(name string) map[string]any {
	return map[string]any{"select": map[string]string{"name": name}}
}

func clampRunes(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}

	return string(runes[:maxRunes])
}
