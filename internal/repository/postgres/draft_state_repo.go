package postgres

import (
	"context"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type draftStateRepository struct {
	db *gorm.DB
}

func NewDraftStateRepository(db *gorm.DB) *draftStateRepository {
	return &draftStateRepository{db: db}
}

func (r *draftStateRepository) Create(ctx context.Context, state *domain.DraftState) error {
	return r.db.WithContext(ctx).Create(state).Error
}

func (r *draftStateRepository) GetByLeagueID(ctx context.Context, leagueID uuid.UUID) (*domain.DraftState, error) {
	var state domain.DraftState
	err := r.db.WithContext(ctx).First(&state, "league_id = ?", leagueID).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *draftStateRepository) ListByStatus(ctx context.Context, status domain.DraftStatus) ([]*domain.DraftState, error) {
	var states []*domain.DraftState
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Find(&states).Error
	if err != nil {
		return nil, err
	}
	return states, nil
}

func (r *draftStateRepository) Update(ctx context.Context, state *domain.DraftState) error {
	return r.db.WithContext(ctx).Save(state).Error
}
