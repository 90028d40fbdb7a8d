package repository

import (
	"context"
	"errors"

	"github.com/mentionlab/benchworker/internal/domain"
	"gorm.io/gorm"
)

// ProgressRepository reads the per-run job-status aggregate view.
type ProgressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new ProgressRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ProgressRepository: repository instance bound to db.
func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetRunProgress retrieves the job-status counts for one run.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - runID: run to look up.
// Returns:
//   - *domain.RunProgress: progress counts, nil if the view has no row yet.
//   - error: non-nil if the lookup fails.
func (r *ProgressRepository) GetRunProgress(ctx context.Context, runID string) (*domain.RunProgress, error) {
	var progress domain.RunProgress
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Take(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}
