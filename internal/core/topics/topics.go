// Package topics maps free text to a label from a fixed keyword taxonomy.
package topics

import "strings"

// DefaultTopic is the catch-all label when no keyword matches.
const DefaultTopic = "기타"

type entry struct {
	label    string
	keywords []string
}

// Classifier performs case-insensitive substring matching against an ordered
// label table. The first label whose any keyword appears in the text wins;
// ties are broken by table order, not keyword order.
type Classifier struct {
	entries []entry
}

// NewDefault returns a classifier with the editorial topic taxonomy. Keyword
// lists cover Korean and English spellings of the same concept.
func NewDefault() *Classifier {
	return &Classifier{entries: []entry{
		{label: "Moltbot/ClaudeBot", keywords: []string{"moltbot", "몰트봇", "clawdbot", "클로드봇", "claude bot", "claudebot"}},
		{label: "AI 에이전트", keywords: []string{"agent", "에이전트", "agentic", "do anything", "autonomous"}},
		{label: "LLM/GPT", keywords: []string{"llm", "gpt", "claude", "gemini", "chatgpt", "language model"}},
		{label: "노코드/자동화", keywords: []string{"노코드", "no code", "nocode", "자동화", "automation"}},
		{label: "헬스케어", keywords: []string{"healthcare", "헬스케어", "의료", "medical", "health"}},
	}}
}

// Classify returns the first matching label in table order, or DefaultTopic.
// Pure and deterministic.
func (c *Classifier) Classify(text string) string {
	lower := strings.ToLower(text)

	for _, e := range c.entries {
		for _, kw := range e.keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return e.label
			}
		}
	}

	return DefaultTopic
}
