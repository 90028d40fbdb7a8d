package provider

import (
	"encoding/json"
	"testing"
)

func TestNormalizeOpenAI(t *testing.T) {
	t.Run("output_text preferred", func(t *testing.T) {
		raw := `{
			"output_text": "Highcharts is great",
			"output": [{"type": "message", "content": [{"type": "output_text", "text": "ignored"}]}],
			"usage": {"input_tokens": 10, "output_tokens": 5, "total_tokens": 15}
		}`
		var resp openAIResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			t.Fatal(err)
		}
		got := normalizeOpenAI(&resp)
		if got.Text != "Highcharts is great" {
			t.Errorf("text = %q", got.Text)
		}
		if got.Usage.PromptTokens != 10 || got.Usage.CompletionTokens != 5 || got.Usage.TotalTokens != 15 {
			t.Errorf("usage = %+v", got.Usage)
		}
	})

	t.Run("output items concatenated", func(t *testing.T) {
		raw := `{
			"output": [
				{"type": "message", "content": [{"type": "output_text", "text": "first"}]},
				{"type": "message", "content": [{"type": "output_text", "text": "second"}]}
			]
		}`
		var resp openAIResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			t.Fatal(err)
		}
		got := normalizeOpenAI(&resp)
		if got.Text != "first\nsecond" {
			t.Errorf("text = %q", got.Text)
		}
	})

	t.Run("citations from annotations", func(t *testing.T) {
		raw := `{
			"output": [{"type": "message", "content": [{
				"type": "output_text",
				"text": "see sources",
				"annotations": [
					{"type": "url_citation", "title": "Docs", "url": "https://a.example"},
					{"type": "tooltip", "url_citation": {"title": "Nested", "url": "https://b.example"}},
					{"type": "url_citation", "title": "Docs", "url": "https://a.example"}
				]
			}]}]
		}`
		var resp openAIResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			t.Fatal(err)
		}
		got := normalizeOpenAI(&resp)
		if len(got.Citations) != 2 {
			t.Fatalf("expected 2 deduped citations, got %d: %+v", len(got.Citations), got.Citations)
		}
		if got.Citations[0].URL != "https://a.example" || got.Citations[1].URL != "https://b.example" {
			t.Errorf("citations = %+v", got.Citations)
		}
	})

	t.Run("uri and source fallbacks", func(t *testing.T) {
		raw := `{"sources": [{"uri": "https://c.example", "source": "C Docs", "text": "snippet text"}]}`
		var resp openAIResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			t.Fatal(err)
		}
		got := normalizeOpenAI(&resp)
		if len(got.Citations) != 1 {
			t.Fatalf("expected 1 citation, got %d", len(got.Citations))
		}
		c := got.Citations[0]
		if c.URL != "https://c.example" || c.Title != "C Docs" || c.Snippet != "snippet text" {
			t.Errorf("citation = %+v", c)
		}
	})

	t.Run("empty payload degrades to defaults", func(t *testing.T) {
		var resp openAIResponse
		if err := json.Unmarshal([]byte(`{}`), &resp); err != nil {
			t.Fatal(err)
		}
		got := normalizeOpenAI(&resp)
		if got.Text != "" || len(got.Citations) != 0 || got.Usage.TotalTokens != 0 {
			t.Errorf("expected zero-value response, got %+v", got)
		}
	})

	t.Run("total derived when absent", func(t *testing.T) {
		raw := `{"usage": {"input_tokens": 7, "output_tokens": 3}}`
		var resp openAIResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			t.Fatal(err)
		}
		if got := normalizeOpenAI(&resp); got.Usage.TotalTokens != 10 {
			t.Errorf("total = %d, want 10", got.Usage.TotalTokens)
		}
	})
}

func TestNormalizeAnthropic(t *testing.T) {
	t.Run("text blocks joined", func(t *testing.T) {
		raw := `{
			"content": [
				{"type": "text", "text": "Highcharts leads"},
				{"type": "tool_use", "text": "skipped"},
				{"type": "text", "text": "chart.js follows"}
			],
			"usage": {"input_tokens": 12, "output_tokens": 8}
		}`
		var resp anthropicResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			t.Fatal(err)
		}
		got := normalizeAnthropic(&resp)
		if got.Text != "Highcharts leads\nchart.js follows" {
			t.Errorf("text = %q", got.Text)
		}
		if got.Usage.PromptTokens != 12 || got.Usage.CompletionTokens != 8 || got.Usage.TotalTokens != 20 {
			t.Errorf("usage = %+v", got.Usage)
		}
		if got.Citations == nil || len(got.Citations) != 0 {
			t.Errorf("citations = %+v, want empty non-nil", got.Citations)
		}
	})

	t.Run("empty payload degrades to defaults", func(t *testing.T) {
		var resp anthropicResponse
		if err := json.Unmarshal([]byte(`{}`), &resp); err != nil {
			t.Fatal(err)
		}
		got := normalizeAnthropic(&resp)
		if got.Text != "" || got.Usage.TotalTokens != 0 {
			t.Errorf("expected zero-value response, got %+v", got)
		}
	})
}

func TestNormalizeGemini(t *testing.T) {
	t.Run("parts and grounding chunks", func(t *testing.T) {
		raw := `{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "echarts"}, {"text": "amcharts"}]},
				"groundingMetadata": {"groundingChunks": [
					{"web": {"uri": "https://g.example", "title": "G"}},
					{"web": {"uri": "https://g.example", "title": "G dup"}},
					{"web": {"uri": "", "title": "no url"}}
				]}
			}],
			"usageMetadata": {"promptTokenCount": 4, "candidatesTokenCount": 6, "totalTokenCount": 10}
		}`
		var resp geminiResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			t.Fatal(err)
		}
		got := normalizeGemini(&resp)
		if got.Text != "echarts\namcharts" {
			t.Errorf("text = %q", got.Text)
		}
		if len(got.Citations) != 1 || got.Citations[0].URL != "https://g.example" {
			t.Errorf("citations = %+v", got.Citations)
		}
		if got.Usage.TotalTokens != 10 {
			t.Errorf("usage = %+v", got.Usage)
		}
	})

	t.Run("no candidates degrades to defaults", func(t *testing.T) {
		var resp geminiResponse
		if err := json.Unmarshal([]byte(`{"usageMetadata": {"promptTokenCount": 2, "candidatesTokenCount": 1}}`), &resp); err != nil {
			t.Fatal(err)
		}
		got := normalizeGemini(&resp)
		if got.Text != "" || len(got.Citations) != 0 {
			t.Errorf("expected empty text/citations, got %+v", got)
		}
		if got.Usage.TotalTokens != 3 {
			t.Errorf("total = %d, want 3", got.Usage.TotalTokens)
		}
	})
}
