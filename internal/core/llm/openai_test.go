package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bansungju/youtube/internal/core/domain"
)

var testItem = domain.VideoItem{
	VideoID:      "abc123",
	Title:        "에이전트 데모",
	ChannelTitle: "채널A",
	Description:  "설명",
	PublishedAt:  time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
}

func newTestScorer(t *testing.T, handler http.HandlerFunc) Scorer {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := zerolog.Nop()

	return NewOpenAI(Options{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL + "/v1",
		Timeout: 5 * time.Second,
		RPS:     100,
	}, &logger)
}

func completionResponse(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
}

func TestOpenAIScorer_ParsesVerdict(t *testing.T) {
	content := `평가 결과입니다: {"suitable":true,"score":8,"type":"리뷰/분석","reason":"좋은 분석","column_angle":"도구 비교 칼럼","key_message":"에이전트 시대가 왔다"}`

	scorer := newTestScorer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse(content)))
	})

	verdict := scorer.Score(context.Background(), testItem)
	require.NotNil(t, verdict)

	assert.True(t, verdict.Suitable)
	assert.Equal(t, 8, verdict.Score)
	assert.Equal(t, "리뷰/분석", verdict.Type)
	assert.Equal(t, "좋은 분석", verdict.Reason)
	assert.Equal(t, "도구 비교 칼럼", verdict.ColumnAngle)
	assert.Equal(t, "에이전트 시대가 왔다", verdict.KeyMessage)
}

func TestOpenAIScorer_MalformedPayloadIsAbsent(t *testing.T) {
	scorer := newTestScorer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("적합해 보입니다만 정해진 형식은 아닙니다")))
	})

	assert.Nil(t, scorer.Score(context.Background(), testItem))
}

func TestOpenAIScorer_ServerErrorIsAbsent(t *testing.T) {
	scorer := newTestScorer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	})

	assert.Nil(t, scorer.Score(context.Background(), testItem))
}

func TestOpenAIScorer_TimeoutIsAbsent(t *testing.T) {
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("{}")))
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	logger := zerolog.Nop()
	scorer := NewOpenAI(Options{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL + "/v1",
		Timeout: 50 * time.Millisecond,
		RPS:     100,
	}, &logger)

	assert.Nil(t, scorer.Score(context.Background(), testItem))
}
