// Package llm provides LLM completion client implementations.
package llm

import "context"

// Client is the interface that all LLM providers must implement.
type Client interface {
	// Complete sends a single blocking completion request and returns
	// the generated text. There is no streaming and no retry; callers
	// control cancellation through ctx.
	Complete(ctx context.Context, req Request) (*Completion, error)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
