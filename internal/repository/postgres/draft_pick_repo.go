package postgres

import (
	"context"
	"errors"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type draftPickRepository struct {
	db *gorm.DB
}

func NewDraftPickRepository(db *gorm.DB) *draftPickRepository {
	return &draftPickRepository{db: db}
}

// Create inserts a single pick. The unique index on (league_id, round,
// position) rejects the losing side of a racing double-commit; that outcome
// is mapped to domain.ErrSlotAlreadyFilled so callers can refresh and retry.
func (r *draftPickRepository) Create(ctx context.Context, pick *domain.DraftPick) error {
	err := r.db.WithContext(ctx).Create(pick).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrSlotAlreadyFilled
		}
		return err
	}
	return nil
}

// CreateBatch inserts every pick in one transaction so a bulk completion is
// all-or-nothing.
func (r *draftPickRepository) CreateBatch(ctx context.Context, picks []*domain.DraftPick) error {
	if len(picks) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(picks).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrSlotAlreadyFilled
		}
		return err
	}
	return nil
}

func (r *draftPickRepository) GetByLeague(ctx context.Context, leagueID uuid.UUID) ([]*domain.DraftPick, error) {
	var picks []*domain.DraftPick
	err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("round ASC, position ASC").
		Find(&picks).Error
	if err != nil {
		return nil, err
	}
	return picks, nil
}

func (r *draftPickRepository) GetByManager(ctx context.Context, leagueID, managerID uuid.UUID) ([]*domain.DraftPick, error) {
	var picks []*domain.DraftPick
	err := r.db.WithContext(ctx).
		Where("league_id = ? AND manager_id = ?", leagueID, managerID).
		Order("round ASC").
		Find(&picks).Error
	if err != nil {
		return nil, err
	}
	return picks, nil
}

// CountByLeague counts committed picks (open slots excluded).
func (r *draftPickRepository) CountByLeague(ctx context.Context, leagueID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.DraftPick{}).
		Where("league_id = ? AND player_id IS NOT NULL", leagueID).
		Count(&count).Error
	return count, err
}

func (r *draftPickRepository) PlayerTaken(ctx context.Context, leagueID, playerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.DraftPick{}).
		Where("league_id = ? AND player_id = ?", leagueID, playerID).
		Count(&count).Error
	return count > 0, err
}

func (r *draftPickRepository) DeleteByLeague(ctx context.Context, leagueID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Delete(&domain.DraftPick{}).Error
}
