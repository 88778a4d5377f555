package postgres

import (
	"context"
	"errors"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *rosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) Upsert(ctx context.Context, assignment *domain.RosterAssignment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "league_id"}, {Name: "manager_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"active", "bench", "updated_at"}),
		}).
		Create(assignment).Error
}

func (r *rosterRepository) GetByManager(ctx context.Context, leagueID, managerID uuid.UUID) (*domain.RosterAssignment, error) {
	var assignment domain.RosterAssignment
	err := r.db.WithContext(ctx).
		First(&assignment, "league_id = ? AND manager_id = ?", leagueID, managerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *rosterRepository) GetByLeague(ctx context.Context, leagueID uuid.UUID) ([]*domain.RosterAssignment, error) {
	var assignments []*domain.RosterAssignment
	err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *rosterRepository) DeleteByLeague(ctx context.Context, leagueID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Delete(&domain.RosterAssignment{}).Error
}
