package llm

import (
	"context"
	"fmt"
)

// MultiClient routes requests to the appropriate provider based on model name.
type MultiClient struct {
	clients  map[string]Client   // provider name → client
	resolve  func(string) string // model name → provider name
	fallback Client              // default client for unresolved models
}

// NewMultiClient creates a client that routes to multiple providers.
// resolve maps a model name to a provider name; models it cannot place
// go to the fallback client.
func NewMultiClient(resolve func(model string) string, fallback Client) *MultiClient {
	return &MultiClient{
		clients:  make(map[string]Client),
		resolve:  resolve,
		fallback: fallback,
	}
}

// AddProvider registers a client for a provider name.
func (m *MultiClient) AddProvider(name string, client Client) {
	m.clients[name] = client
}

// clientFor returns the appropriate client for a model.
func (m *MultiClient) clientFor(model string) Client {
	if m.resolve != nil {
		if client, ok := m.clients[m.resolve(model)]; ok {
			return client
		}
	}
	return m.fallback
}

// Complete sends a request to the appropriate provider for the model.
func (m *MultiClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	client := m.clientFor(req.Model)
	if client == nil {
		return nil, fmt.Errorf("no provider configured for model %q", req.Model)
	}
	return client.Complete(ctx, req)
}

// Ping checks the fallback provider.
func (m *MultiClient) Ping(ctx context.Context) error {
	if m.fallback != nil {
		return m.fallback.Ping(ctx)
	}
	return fmt.Errorf("no fallback client configured")
}
