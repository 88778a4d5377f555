package postgres

import (
	"context"
	"errors"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type leagueRepository struct {
	db *gorm.DB
}

func NewLeagueRepository(db *gorm.DB) *leagueRepository {
	return &leagueRepository{db: db}
}

func (r *leagueRepository) Create(ctx context.Context, league *domain.League) error {
	return r.db.WithContext(ctx).Create(league).Error
}

func (r *leagueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.League, error) {
	var league domain.League
	err := r.db.WithContext(ctx).First(&league, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLeagueNotFound
		}
		return nil, err
	}
	return &league, nil
}

func (r *leagueRepository) GetByShortCode(ctx context.Context, code string) (*domain.League, error) {
	var league domain.League
	err := r.db.WithContext(ctx).First(&league, "short_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLeagueNotFound
		}
		return nil, err
	}
	return &league, nil
}

func (r *leagueRepository) Update(ctx context.Context, league *domain.League) error {
	return r.db.WithContext(ctx).Save(league).Error
}

type managerRepository struct {
	db *gorm.DB
}

func NewManagerRepository(db *gorm.DB) *managerRepository {
	return &managerRepository{db: db}
}

func (r *managerRepository) Create(ctx context.Context, manager *domain.Manager) error {
	return r.db.WithContext(ctx).Create(manager).Error
}

func (r *managerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Manager, error) {
	var manager domain.Manager
	err := r.db.WithContext(ctx).First(&manager, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrManagerNotFound
		}
		return nil, err
	}
	return &manager, nil
}

func (r *managerRepository) GetByLeague(ctx context.Context, leagueID uuid.UUID) ([]*domain.Manager, error) {
	var managers []*domain.Manager
	err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("joined_at ASC").
		Find(&managers).Error
	if err != nil {
		return nil, err
	}
	return managers, nil
}
