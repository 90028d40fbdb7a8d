package repository

import (
	"context"

	"github.com/mentionlab/benchworker/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MentionRepository handles per-response competitor mention rows.
type MentionRepository struct {
	db *gorm.DB
}

// NewMentionRepository creates a new MentionRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *MentionRepository: repository instance bound to db.
func NewMentionRepository(db *gorm.DB) *MentionRepository {
	return &MentionRepository{db: db}
}

// UpsertBatch creates or updates mention rows keyed by
// (response_id, competitor_id).
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - mentions: mention rows to create or update; empty is a no-op.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *MentionRepository) UpsertBatch(ctx context.Context, mentions []domain.ResponseMention) error {
	if len(mentions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "response_id"}, {Name: "competitor_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"mentioned", "updated_at"}),
	}).Create(&mentions).Error
}
