package repository

import (
	"context"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/google/uuid"
)

type LeagueRepository interface {
	Create(ctx context.Context, league *domain.League) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.League, error)
	GetByShortCode(ctx context.Context, code string) (*domain.League, error)
	Update(ctx context.Context, league *domain.League) error
}

type ManagerRepository interface {
	Create(ctx context.Context, manager *domain.Manager) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Manager, error)
	GetByLeague(ctx context.Context, leagueID uuid.UUID) ([]*domain.Manager, error)
}

type PlayerRepository interface {
	UpsertMany(ctx context.Context, players []*domain.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Player, error)
	GetAll(ctx context.Context) ([]*domain.Player, error)
	GetUndrafted(ctx context.Context, leagueID uuid.UUID) ([]*domain.Player, error)
}

type DraftStateRepository interface {
	Create(ctx context.Context, state *domain.DraftState) error
	GetByLeagueID(ctx context.Context, leagueID uuid.UUID) (*domain.DraftState, error)
	ListByStatus(ctx context.Context, status domain.DraftStatus) ([]*domain.DraftState, error)
	Update(ctx context.Context, state *domain.DraftState) error
}

type DraftOrderRepository interface {
	CreateMany(ctx context.Context, slots []*domain.DraftOrderSlot) error
	GetByLeague(ctx context.Context, leagueID uuid.UUID) ([]*domain.DraftOrderSlot, error)
	GetByPosition(ctx context.Context, leagueID uuid.UUID, position int) (*domain.DraftOrderSlot, error)
	Update(ctx context.Context, slot *domain.DraftOrderSlot) error
	UpdateMany(ctx context.Context, slots []*domain.DraftOrderSlot) error
	UnbindAll(ctx context.Context, leagueID uuid.UUID) error
}

type DraftPickRepository interface {
	// Create relies on the (league, round, position) unique index; a lost
	// race surfaces as domain.ErrSlotAlreadyFilled.
	Create(ctx context.Context, pick *domain.DraftPick) error
	// CreateBatch inserts all picks in one transaction: all or none.
	CreateBatch(ctx context.Context, picks []*domain.DraftPick) error
	GetByLeague(ctx context.Context, leagueID uuid.UUID) ([]*domain.DraftPick, error)
	GetByManager(ctx context.Context, leagueID, managerID uuid.UUID) ([]*domain.DraftPick, error)
	CountByLeague(ctx context.Context, leagueID uuid.UUID) (int64, error)
	PlayerTaken(ctx context.Context, leagueID, playerID uuid.UUID) (bool, error)
	DeleteByLeague(ctx context.Context, leagueID uuid.UUID) error
}

type RosterRepository interface {
	Upsert(ctx context.Context, assignment *domain.RosterAssignment) error
	GetByManager(ctx context.Context, leagueID, managerID uuid.UUID) (*domain.RosterAssignment, error)
	GetByLeague(ctx context.Context, leagueID uuid.UUID) ([]*domain.RosterAssignment, error)
	DeleteByLeague(ctx context.Context, leagueID uuid.UUID) error
}

type Repositories struct {
	League     LeagueRepository
	Manager    ManagerRepository
	Player     PlayerRepository
	DraftState DraftStateRepository
	DraftOrder DraftOrderRepository
	DraftPick  DraftPickRepository
	Roster     RosterRepository
}
