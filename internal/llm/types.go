// Package llm provides LLM completion client implementations.
package llm

import (
	"log/slog"
	"time"
)

// LevelTrace is below Debug, used for wire-level payload logging.
const LevelTrace = slog.Level(-8)

// Request is a provider-neutral completion request. The system prompt
// and the user prompt are kept separate because providers place them
// differently on the wire.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completion is the unified response from any LLM provider.
// All fields use proper Go types — wire format conversion happens
// at provider boundaries (openai.go, anthropic.go, ollama.go).
type Completion struct {
	Model     string
	CreatedAt time.Time
	Text      string

	// Token usage (provider-neutral)
	InputTokens  int
	OutputTokens int
}
