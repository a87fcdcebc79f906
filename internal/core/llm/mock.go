package llm

import (
	"context"

	"github.com/bansungju/youtube/internal/core/domain"
)

// Mock is a Scorer returning a fixed verdict, for tests and dry runs.
type Mock struct {
	Verdict *domain.Verdict
	Calls   int
}

func (m *Mock) Score(_ context.Context, _ domain.VideoItem) *domain.Verdict {
	m.Calls++

	return m.Verdict
}

var _ Scorer = (*Mock)(nil)
