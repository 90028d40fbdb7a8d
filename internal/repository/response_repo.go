package repository

import (
	"context"
	"fmt"

	"github.com/mentionlab/benchworker/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResponseRepository handles benchmark response rows.
type ResponseRepository struct {
	db *gorm.DB
}

// NewResponseRepository creates a new ResponseRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ResponseRepository: repository instance bound to db.
func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Upsert creates or updates a response row keyed by
// (run_id, query_id, run_iteration, model). Two workers racing on the same
// job converge to one row; the key tolerates multiple models sharing a
// run/query/iteration triple.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - response: response row to create or update.
// Returns:
//   - int64: the row's ID after the upsert.
//   - error: non-nil if the upsert fails or the ID cannot be resolved.
func (r *ResponseRepository) Upsert(ctx context.Context, response *domain.BenchmarkResponse) (int64, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "run_id"}, {Name: "query_id"}, {Name: "run_iteration"}, {Name: "model"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"model_run_id", "provider", "model_owner", "web_search_enabled",
			"duration_ms", "prompt_tokens", "completion_tokens", "total_tokens",
			"response_text", "citations", "error", "updated_at",
		}),
	}).Create(response).Error
	if err != nil {
		return 0, err
	}

	if response.ID != 0 {
		return response.ID, nil
	}

	// Some drivers do not report the ID on the conflict path; resolve it by
	// the upsert key.
	var existing domain.BenchmarkResponse
	err = r.db.WithContext(ctx).
		Select("id").
		Where("run_id = ? AND query_id = ? AND run_iteration = ? AND model = ?",
			response.RunID, response.QueryID, response.RunIteration, response.Model).
		First(&existing).Error
	if err != nil {
		return 0, fmt.Errorf("failed to resolve benchmark_responses.id after upsert: %w", err)
	}
	return existing.ID, nil
}
