package postgres

import (
	"context"
	"errors"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *playerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) UpsertMany(ctx context.Context, players []*domain.Player) error {
	if len(players) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(players).Error
}

func (r *playerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).First(&player, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var players []*domain.Player
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) GetAll(ctx context.Context) ([]*domain.Player, error) {
	var players []*domain.Player
	err := r.db.WithContext(ctx).Order("rating DESC, id ASC").Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

// GetUndrafted returns players not yet taken by any pick in the league.
func (r *playerRepository) GetUndrafted(ctx context.Context, leagueID uuid.UUID) ([]*domain.Player, error) {
	var players []*domain.Player
	err := r.db.WithContext(ctx).
		Where("id NOT IN (?)", r.db.Model(&domain.DraftPick{}).
			Select("player_id").
			Where("league_id = ? AND player_id IS NOT NULL", leagueID)).
		Order("rating DESC, id ASC").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}
