package provider

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
)

const openAIBaseURL = "https://api.openai.com/v1"

// openAIClient calls the OpenAI Responses API. It is the only variant that
// honors the web-search flag.
type openAIClient struct {
	client   *resty.Client
	endpoint string
}

func newOpenAIClient(apiKey string) *openAIClient {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(requestTimeout)

	return &openAIClient{
		client:   client,
		endpoint: openAIBaseURL + "/responses",
	}
}

type openAIRequest struct {
	Model       string              `json:"model"`
	Temperature float64             `json:"temperature"`
	Input       []openAIInput       `json:"input"`
	Tools       []map[string]string `json:"tools,omitempty"`
}

type openAIInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIAnnotation struct {
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Snippet     string          `json:"snippet"`
	URLCitation *openAICitation `json:"url_citation"`
}

type openAICitation struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	URI     string `json:"uri"`
	Source  string `json:"source"`
	Snippet string `json:"snippet"`
	Text    string `json:"text"`
}

type openAIContent struct {
	Type        string             `json:"type"`
	Text        string             `json:"text"`
	Annotations []openAIAnnotation `json:"annotations"`
	Citations   []openAICitation   `json:"citations"`
}

type openAIOutputItem struct {
	Type    string          `json:"type"`
	Content []openAIContent `json:"content"`
}

type openAIResponse struct {
	OutputText string             `json:"output_text"`
	Output     []openAIOutputItem `json:"output"`
	Citations  []openAICitation   `json:"citations"`
	Sources    []openAICitation   `json:"sources"`
	References []openAICitation   `json:"references"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt to the Responses API and normalizes the result.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: prompt, model, temperature, and web-search flag.
// Returns:
//   - *Response: normalized text, citations, and usage.
//   - error: non-nil if the request or the API fails.
func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*Response, error) {
	payload := openAIRequest{
		Model:       normalizeModel(req.Model),
		Temperature: req.Temperature,
		Input: []openAIInput{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
	}
	if req.WebSearch {
		payload.Tools = []map[string]string{{"type": "web_search_preview"}}
	}

	var resp openAIResponse
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
		apiErr := &APIError{Provider: ProviderOpenAI, Status: httpResp.StatusCode()}
		if resp.Error != nil {
			apiErr.Kind = resp.Error.Type
			apiErr.Message = resp.Error.Message
		} else {
			apiErr.Message = string(httpResp.Body())
		}
		return nil, apiErr
	}

	return normalizeOpenAI(&resp), nil
}

// normalizeOpenAI reduces the Responses API payload to the uniform shape.
// Text prefers output_text, then concatenated output item texts; citations
// are collected from the top-level lists and from content annotations.
// Missing fields degrade to empty values.
func normalizeOpenAI(resp *openAIResponse) *Response {
	out := &Response{Citations: []Citation{}}

	if text := strings.TrimSpace(resp.OutputText); text != "" {
		out.Text = text
	} else {
		var texts []string
		for _, item := range resp.Output {
			for _, content := range item.Content {
				if text := strings.TrimSpace(content.Text); text != "" {
					texts = append(texts, text)
				}
			}
		}
		out.Text = strings.Join(texts, "\n")
	}

	seen := make(map[Citation]struct{})
	appendCitation := func(raw openAICitation) {
		url := strings.TrimSpace(raw.URL)
		if url == "" {
			url = strings.TrimSpace(raw.URI)
		}
		if url == "" {
			return
		}
		title := strings.TrimSpace(raw.Title)
		if title == "" {
			title = strings.TrimSpace(raw.Source)
		}
		snippet := strings.TrimSpace(raw.Snippet)
		if snippet == "" {
			snippet = strings.TrimSpace(raw.Text)
		}
		entry := Citation{Title: title, URL: url, Snippet: snippet}
		if _, dup := seen[entry]; dup {
			return
		}
		seen[entry] = struct{}{}
		out.Citations = append(out.Citations, entry)
	}

	for _, list := range [][]openAICitation{resp.Citations, resp.Sources, resp.References} {
		for _, raw := range list {
			appendCitation(raw)
		}
	}
	for _, item := range resp.Output {
		for _, content := range item.Content {
			for _, raw := range content.Citations {
				appendCitation(raw)
			}
			for _, annotation := range content.Annotations {
				if strings.Contains(strings.ToLower(annotation.Type), "citation") {
					appendCitation(openAICitation{
						Title:   annotation.Title,
						URL:     annotation.URL,
						Snippet: annotation.Snippet,
					})
				}
				if annotation.URLCitation != nil {
					appendCitation(*annotation.URLCitation)
				}
			}
		}
	}

	out.Usage = Usage{
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if out.Usage.TotalTokens == 0 {
		out.Usage.TotalTokens = out.Usage.PromptTokens + out.Usage.CompletionTokens
	}
	return out
}
