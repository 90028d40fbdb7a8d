package domain

import "time"

// ResponseMention records whether one competitor was mentioned in one
// response. Upserted on (response_id, competitor_id).
type ResponseMention struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	ResponseID   int64     `gorm:"not null;uniqueIndex:idx_mention_key" json:"response_id"`
	CompetitorID string    `gorm:"type:text;not null;uniqueIndex:idx_mention_key" json:"competitor_id"`
	Mentioned    bool      `gorm:"default:false" json:"mentioned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for ResponseMention.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (ResponseMention) TableName() string {
	return "response_mentions"
}
