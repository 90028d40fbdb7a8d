package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

const requestTimeout = 60 * time.Second

// GenerateRequest carries one benchmark prompt to a provider.
type GenerateRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	WebSearch    bool
}

// Citation is one source reference attached to a response.
type Citation struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Usage is the normalized token accounting of one provider call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the provider-independent shape every adapter reduces to.
// Fields are never nil: absent payload fields degrade to empty/zero.
type Response struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
	Usage     Usage      `json:"usage"`
}

// Client generates one completion against a concrete provider backend.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (*Response, error)
}

// APIError is a provider-call failure carrying the HTTP status and the
// provider's error category, both consumed by retry classification.
type APIError struct {
	Provider Provider
	Status   int
	Kind     string
	Message  string
}

// Error formats the failure with its status and category.
// Parameters: none.
// Returns:
//   - string: human-readable error text.
func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s API error (status code: %d, %s): %s", e.Provider, e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s API error (status code: %d): %s", e.Provider, e.Status, e.Message)
}

// HTTPStatus exposes the carried HTTP status for retry classification.
// Parameters: none.
// Returns:
//   - int: HTTP status code, 0 when unknown.
func (e *APIError) HTTPStatus() int {
	return e.Status
}

// ErrorKind exposes the provider's error category for retry classification.
// Parameters: none.
// Returns:
//   - string: category name, e.g. "rate_limit_error"; may be empty.
func (e *APIError) ErrorKind() string {
	return e.Kind
}

// Factory builds and caches one client per provider. API keys are resolved
// from the environment at first use; a configured override env var applies
// to every provider. The cache is read-mostly and only touched from the
// single-threaded worker loop, but a mutex keeps it safe for shared use.
type Factory struct {
	apiKeyOverride string

	mu      sync.Mutex
	clients map[Provider]Client
}

// NewFactory creates a client factory.
// Parameters:
//   - apiKeyOverride: env var name overriding per-provider key lookup; empty
//     uses provider defaults.
// Returns:
//   - *Factory: initialized factory.
func NewFactory(apiKeyOverride string) *Factory {
	return &Factory{
		apiKeyOverride: apiKeyOverride,
		clients:        make(map[Provider]Client),
	}
}

// ClientFor returns the cached client for a provider, creating it on first
// use. A missing API key is a configuration error, not a retryable one.
// Parameters:
//   - p: provider to build a client for.
// Returns:
//   - Client: provider client.
//   - error: non-nil if the API key env var is unset or empty.
func (f *Factory) ClientFor(p Provider) (Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[p]; ok {
		return client, nil
	}

	envName := ResolveAPIKeyEnv(p, f.apiKeyOverride)
	apiKey := NormalizeAPIKey(os.Getenv(envName))
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key env var %q for provider %q", envName, p)
	}

	var client Client
	switch p {
	case ProviderAnthropic:
		client = newAnthropicClient(apiKey)
	case ProviderGoogle:
		client = newGeminiClient(apiKey)
	default:
		client = newOpenAIClient(apiKey)
	}
	f.clients[p] = client
	return client, nil
}

// normalizeModel strips a provider routing prefix like "anthropic/" or
// "google/" before the name is sent to the provider API.
func normalizeModel(model string) string {
	trimmed := strings.TrimSpace(model)
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
