package domain

import "time"

// Competitor is a read-only input to mention detection: one named competitor
// of the benchmarked brand.
type Competitor struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	IsActive  bool      `gorm:"index" json:"is_active"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Competitor.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Competitor) TableName() string {
	return "competitors"
}

// CompetitorAlias is an alternate phrase identifying a competitor in
// response text.
type CompetitorAlias struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	CompetitorID string `gorm:"type:text;not null;index" json:"competitor_id"`
	Alias        string `gorm:"type:text;not null" json:"alias"`
}

// TableName returns the database table name for CompetitorAlias.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (CompetitorAlias) TableName() string {
	return "competitor_aliases"
}
