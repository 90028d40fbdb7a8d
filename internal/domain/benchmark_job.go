package domain

import "time"

// JobStatus represents the lifecycle state of a benchmark job.
// Values include JobStatusPending, JobStatusProcessing, JobStatusCompleted,
// JobStatusFailed, and JobStatusDeadLetter.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusDeadLetter JobStatus = "dead_letter"
)

// IsTerminal reports whether the status is a terminal state.
// failed is not terminal: the job stays eligible for re-delivery.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusDeadLetter
}

// BenchmarkJob represents one (query, model, run-iteration) unit of work.
// Rows are created pending by the run dispatcher; the worker owns them
// exclusively while processing.
type BenchmarkJob struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	RunID            string     `gorm:"type:text;not null;index" json:"run_id"`
	QueryID          int64      `gorm:"not null" json:"query_id"`
	QueryText        string     `gorm:"type:text" json:"query_text"`
	Model            string     `gorm:"type:text" json:"model"`
	Provider         string     `gorm:"type:text" json:"provider"`
	RunIteration     int        `gorm:"default:1" json:"run_iteration"`
	Temperature      float64    `gorm:"default:0.7" json:"temperature"`
	WebSearchEnabled bool       `gorm:"default:false" json:"web_search_enabled"`
	OurTerms         string     `gorm:"type:text" json:"our_terms"`
	Status           JobStatus  `gorm:"default:pending;index" json:"status"`
	AttemptCount     int        `gorm:"default:0" json:"attempt_count"`
	MaxAttempts      int        `gorm:"default:3" json:"max_attempts"`
	ResponseID       *int64     `json:"response_id,omitempty"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	LastError        *string    `json:"last_error,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName returns the database table name for BenchmarkJob.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (BenchmarkJob) TableName() string {
	return "benchmark_jobs"
}
