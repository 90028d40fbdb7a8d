package domain

import "time"

// BenchmarkResponse is the normalized record of one provider call, successful
// or not. Rows are upserted on (run_id, query_id, run_iteration, model) so a
// re-delivered job converges to a single row instead of duplicating it.
type BenchmarkResponse struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	RunID            string    `gorm:"type:text;not null;uniqueIndex:idx_response_key" json:"run_id"`
	QueryID          int64     `gorm:"not null;uniqueIndex:idx_response_key" json:"query_id"`
	RunIteration     int       `gorm:"default:1;uniqueIndex:idx_response_key" json:"run_iteration"`
	Model            string    `gorm:"type:text;uniqueIndex:idx_response_key" json:"model"`
	ModelRunID       int       `gorm:"default:1" json:"model_run_id"`
	Provider         string    `gorm:"type:text" json:"provider"`
	ModelOwner       string    `gorm:"type:text" json:"model_owner"`
	WebSearchEnabled bool      `gorm:"default:false" json:"web_search_enabled"`
	DurationMs       int       `gorm:"default:0" json:"duration_ms"`
	PromptTokens     int       `gorm:"default:0" json:"prompt_tokens"`
	CompletionTokens int       `gorm:"default:0" json:"completion_tokens"`
	TotalTokens      int       `gorm:"default:0" json:"total_tokens"`
	ResponseText     string    `gorm:"type:text" json:"response_text"`
	Citations        string    `gorm:"type:text" json:"citations"`
	Error            *string   `json:"error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the database table name for BenchmarkResponse.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (BenchmarkResponse) TableName() string {
	return "benchmark_responses"
}
