package domain

// RunProgress is a per-run aggregate of job-status counts, read from the
// vw_job_progress view. The run finalizer derives run completion from it.
type RunProgress struct {
	RunID          string `gorm:"column:run_id" json:"run_id"`
	TotalJobs      int    `gorm:"column:total_jobs" json:"total_jobs"`
	CompletedJobs  int    `gorm:"column:completed_jobs" json:"completed_jobs"`
	ProcessingJobs int    `gorm:"column:processing_jobs" json:"processing_jobs"`
	PendingJobs    int    `gorm:"column:pending_jobs" json:"pending_jobs"`
	FailedJobs     int    `gorm:"column:failed_jobs" json:"failed_jobs"`
	DeadLetterJobs int    `gorm:"column:dead_letter_jobs" json:"dead_letter_jobs"`
}

// TableName returns the view name backing RunProgress.
// Parameters: none.
// Returns:
//   - string: view name for GORM mapping.
func (RunProgress) TableName() string {
	return "vw_job_progress"
}

// AllTerminal reports whether every job in the run reached a terminal state.
// failed jobs keep the run open: they are still eligible for re-delivery.
func (p RunProgress) AllTerminal() bool {
	return p.TotalJobs > 0 &&
		p.CompletedJobs+p.DeadLetterJobs == p.TotalJobs &&
		p.ProcessingJobs == 0 &&
		p.PendingJobs == 0 &&
		p.FailedJobs == 0
}
