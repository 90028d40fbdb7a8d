package repository

import (
	"context"
	"errors"

	"github.com/mentionlab/benchworker/internal/domain"
	"gorm.io/gorm"
)

// JobRepository handles benchmark job rows.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *JobRepository: repository instance bound to db.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// GetByID retrieves a job by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: job ID.
// Returns:
//   - *domain.BenchmarkJob: job row, nil if no row exists.
//   - error: non-nil if the lookup fails.
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*domain.BenchmarkJob, error) {
	var job domain.BenchmarkJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// Update applies a partial update to a job row.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: job ID.
//   - fields: column name -> new value.
// Returns:
//   - error: non-nil if the update fails.
func (r *JobRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.BenchmarkJob{}).
		Where("id = ?", id).
		Updates(fields).Error
}
