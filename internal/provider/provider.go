package provider

import "strings"

// Provider identifies an LLM backend family.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// InferProvider maps a model name to its provider by prefix rules. Unknown
// models default to openai.
// Parameters:
//   - model: model name, e.g. "claude-3-5-sonnet" or "gemini-2.0-flash".
// Returns:
//   - Provider: inferred provider.
func InferProvider(model string) Provider {
	normalized := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(normalized, "claude"), strings.HasPrefix(normalized, "anthropic/"):
		return ProviderAnthropic
	case strings.HasPrefix(normalized, "gemini"), strings.HasPrefix(normalized, "google/"):
		return ProviderGoogle
	default:
		return ProviderOpenAI
	}
}

// ParseProvider normalizes an explicit provider string, falling back to
// model-name inference when empty or unknown.
// Parameters:
//   - raw: provider column value, may be empty.
//   - model: model name used for inference fallback.
// Returns:
//   - Provider: resolved provider.
func ParseProvider(raw, model string) Provider {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ProviderOpenAI):
		return ProviderOpenAI
	case string(ProviderAnthropic):
		return ProviderAnthropic
	case string(ProviderGoogle), "gemini":
		return ProviderGoogle
	default:
		return InferProvider(model)
	}
}

// ModelOwner returns the display name of the organization behind a provider.
// Parameters:
//   - p: provider.
// Returns:
//   - string: owner display name.
func ModelOwner(p Provider) string {
	switch p {
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderGoogle:
		return "Google"
	default:
		return "OpenAI"
	}
}

// ResolveAPIKeyEnv returns the environment variable holding the API key for
// a provider. A non-empty override applies to all providers in the run.
// Parameters:
//   - p: provider.
//   - override: operator-supplied env var name, may be empty.
// Returns:
//   - string: env var name to read the key from.
func ResolveAPIKeyEnv(p Provider, override string) string {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return trimmed
	}
	switch p {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGoogle:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// NormalizeAPIKey trims the key and strips accidental quote wrapping from CI
// secrets.
// Parameters:
//   - raw: raw env var value.
// Returns:
//   - string: cleaned key, may be empty.
func NormalizeAPIKey(raw string) string {
	value := strings.TrimSpace(raw)
	if len(value) >= 2 {
		if (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
			(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
			value = strings.TrimSpace(value[1 : len(value)-1])
		}
	}
	return value
}
