package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiClient calls the Gemini generateContent API. The web-search flag is
// ignored by this variant.
type geminiClient struct {
	client *resty.Client
	apiKey string
}

func newGeminiClient(apiKey string) *geminiClient {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(requestTimeout)

	return &geminiClient{client: client, apiKey: apiKey}
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content           geminiContent `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []struct {
				Web struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt to generateContent and normalizes the result.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: prompt, model, and temperature; WebSearch is ignored.
// Returns:
//   - *Response: normalized text, grounding citations, and usage.
//   - error: non-nil if the request or the API fails.
func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*Response, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.UserPrompt}}},
		},
		GenerationConfig: geminiGenerationConfig{Temperature: req.Temperature},
	}
	if req.SystemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", geminiBaseURL, normalizeModel(req.Model))

	var resp geminiResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(payload).
		SetResult(&resp).
		SetError(&resp).
		Post(endpoint)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		apiErr := &APIError{Provider: ProviderGoogle, Status: httpResp.StatusCode()}
		if resp.Error != nil {
			apiErr.Kind = resp.Error.Status
			apiErr.Message = resp.Error.Message
		} else {
			apiErr.Message = string(httpResp.Body())
		}
		return nil, apiErr
	}

	return normalizeGemini(&resp), nil
}

// normalizeGemini joins the first candidate's text parts, lifts grounding
// chunks into citations, and maps the usage metadata. Missing fields degrade
// to empty values.
func normalizeGemini(resp *geminiResponse) *Response {
	out := &Response{Citations: []Citation{}}

	if len(resp.Candidates) > 0 {
		candidate := resp.Candidates[0]

		var texts []string
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				texts = append(texts, text)
			}
		}
		out.Text = strings.Join(texts, "\n")

		seen := make(map[string]struct{})
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			url := strings.TrimSpace(chunk.Web.URI)
			if url == "" {
				continue
			}
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			out.Citations = append(out.Citations, Citation{
				Title: strings.TrimSpace(chunk.Web.Title),
				URL:   url,
			})
		}
	}

	out.Usage = Usage{
		PromptTokens:     resp.UsageMetadata.PromptTokenCount,
		CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
		TotalTokens:      resp.UsageMetadata.TotalTokenCount,
	}
	if out.Usage.TotalTokens == 0 {
		out.Usage.TotalTokens = out.Usage.PromptTokens + out.Usage.CompletionTokens
	}
	return out
}
