package provider

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com/v1"
	anthropicAPIVersion = "2023-06-01"
	anthropicMaxTokens  = 1024
)

// anthropicClient calls the Anthropic Messages API. The web-search flag is
// ignored by this variant.
type anthropicClient struct {
	client   *resty.Client
	endpoint string
}

func newAnthropicClient(apiKey string) *anthropicClient {
	client := resty.New()
	client.SetHeader("x-api-key", apiKey)
	client.SetHeader("anthropic-version", anthropicAPIVersion)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(requestTimeout)

	return &anthropicClient{
		client:   client,
		endpoint: anthropicBaseURL + "/messages",
	}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt to the Messages API and normalizes the result.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: prompt, model, and temperature; WebSearch is ignored.
// Returns:
//   - *Response: normalized text and usage; citations are always empty.
//   - error: non-nil if the request or the API fails.
func (c *anthropicClient) Generate(ctx context.Context, req GenerateRequest) (*Response, error) {
	payload := anthropicRequest{
		Model:       normalizeModel(req.Model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: req.Temperature,
		System:      req.SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.UserPrompt},
		},
	}

	var resp anthropicResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&resp).
		SetError(&resp).
		Post(c.endpoint)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		apiErr := &APIError{Provider: ProviderAnthropic, Status: httpResp.StatusCode()}
		if resp.Error != nil {
			apiErr.Kind = resp.Error.Type
			apiErr.Message = resp.Error.Message
		} else {
			apiErr.Message = string(httpResp.Body())
		}
		return nil, apiErr
	}

	return normalizeAnthropic(&resp), nil
}

// normalizeAnthropic concatenates the text content blocks and maps input and
// output token counts. Missing fields degrade to empty values.
func normalizeAnthropic(resp *anthropicResponse) *Response {
	var texts []string
	for _, block := range resp.Content {
		if block.Type != "" && block.Type != "text" {
			continue
		}
		if text := strings.TrimSpace(block.Text); text != "" {
			texts = append(texts, text)
		}
	}

	return &Response{
		Text:      strings.Join(texts, "\n"),
		Citations: []Citation{},
		Usage: Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}
}
