package postgres

import (
	"context"
	"errors"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type draftOrderRepository struct {
	db *gorm.DB
}

func NewDraftOrderRepository(db *gorm.DB) *draftOrderRepository {
	return &draftOrderRepository{db: db}
}

func (r *draftOrderRepository) CreateMany(ctx context.Context, slots []*domain.DraftOrderSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(slots).Error
}

func (r *draftOrderRepository) GetByLeague(ctx context.Context, leagueID uuid.UUID) ([]*domain.DraftOrderSlot, error) {
	var slots []*domain.DraftOrderSlot
	err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("position ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *draftOrderRepository) GetByPosition(ctx context.Context, leagueID uuid.UUID, position int) (*domain.DraftOrderSlot, error) {
	var slot domain.DraftOrderSlot
	err := r.db.WithContext(ctx).
		First(&slot, "league_id = ? AND position = ?", leagueID, position).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *draftOrderRepository) Update(ctx context.Context, slot *domain.DraftOrderSlot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *draftOrderRepository) UpdateMany(ctx context.Context, slots []*domain.DraftOrderSlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, slot := range slots {
			if err := tx.Save(slot).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UnbindAll clears manager bindings and auto-draft flags on every slot.
// Slots themselves are never deleted.
func (r *draftOrderRepository) UnbindAll(ctx context.Context, leagueID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.DraftOrderSlot{}).
		Where("league_id = ?", leagueID).
		Updates(map[string]interface{}{
			"manager_id":         nil,
			"auto_draft_enabled": false,
		}).Error
}
