package repository

import (
	"context"

	"github.com/mentionlab/benchworker/internal/domain"
	"gorm.io/gorm"
)

// CompetitorRepository reads the competitor catalog feeding mention
// detection. The worker never writes these tables.
type CompetitorRepository struct {
	db *gorm.DB
}

// NewCompetitorRepository creates a new CompetitorRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *CompetitorRepository: repository instance bound to db.
func NewCompetitorRepository(db *gorm.DB) *CompetitorRepository {
	return &CompetitorRepository{db: db}
}

// ListActive retrieves active competitors in display order.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Competitor: active competitors ordered by sort_order.
//   - error: non-nil if the lookup fails.
func (r *CompetitorRepository) ListActive(ctx context.Context) ([]domain.Competitor, error) {
	var competitors []domain.Competitor
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order asc").
		Find(&competitors).Error
	if err != nil {
		return nil, err
	}
	return competitors, nil
}

// ListAliases retrieves every competitor alias.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.CompetitorAlias: all alias rows.
//   - error: non-nil if the lookup fails.
func (r *CompetitorRepository) ListAliases(ctx context.Context) ([]domain.CompetitorAlias, error) {
	var aliases []domain.CompetitorAlias
	if err := r.db.WithContext(ctx).Find(&aliases).Error; err != nil {
		return nil, err
	}
	return aliases, nil
}
