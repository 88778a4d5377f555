package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/config"
	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/repository"
	"github.com/google/uuid"
)

// LeagueService handles league setup: creation with its draft state and
// order slots, manager seating, and order-slot administration.
type LeagueService struct {
	leagueRepo repository.LeagueRepository
	mgrRepo    repository.ManagerRepository
	stateRepo  repository.DraftStateRepository
	orderRepo  repository.DraftOrderRepository
	playerRepo repository.PlayerRepository
	cfg        *config.Config
}

func NewLeagueService(repos *repository.Repositories, cfg *config.Config) *LeagueService {
	return &LeagueService{
		leagueRepo: repos.League,
		mgrRepo:    repos.Manager,
		stateRepo:  repos.DraftState,
		orderRepo:  repos.DraftOrder,
		playerRepo: repos.Player,
		cfg:        cfg,
	}
}

type CreateLeagueInput struct {
	Name         string
	CreatedBy    uuid.UUID
	ManagerCount int
	ClockSeconds int
	Quotas       *domain.RosterQuotas
}

// CreateLeague validates the configuration and creates the league together
// with its singleton draft state and its full set of order slots.
func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (*domain.League, error) {
	league := &domain.League{
		ID:           uuid.New(),
		Name:         input.Name,
		ShortCode:    generateShortCode(),
		CreatedBy:    input.CreatedBy,
		ManagerCount: input.ManagerCount,
		ClockSeconds: input.ClockSeconds,
		// Standard T20 defaults
		ActiveSize:       11,
		BenchSize:        4,
		MinBatsmen:       3,
		MaxBatsmen:       6,
		MinBowlers:       3,
		MinWicketKeepers: 1,
		MinAllRounders:   1,
		MaxOverseas:      4,
	}
	if league.ClockSeconds <= 0 {
		league.ClockSeconds = int(s.cfg.DefaultClockDuration.Seconds())
	}
	if q := input.Quotas; q != nil {
		league.ActiveSize = q.ActiveSize
		league.BenchSize = q.BenchSize
		league.MinBatsmen = q.MinBatsmen
		league.MaxBatsmen = q.MaxBatsmen
		league.MinBowlers = q.MinBowlers
		league.MinWicketKeepers = q.MinWicketKeepers
		league.MinAllRounders = q.MinAllRounders
		league.MaxOverseas = q.MaxOverseas
	}
	if err := league.Validate(); err != nil {
		return nil, err
	}

	if err := s.leagueRepo.Create(ctx, league); err != nil {
		return nil, err
	}

	state := &domain.DraftState{
		ID:       uuid.New(),
		LeagueID: league.ID,
		Status:   domain.DraftStatusPreDraft,
	}
	if err := s.stateRepo.Create(ctx, state); err != nil {
		return nil, err
	}

	slots := make([]*domain.DraftOrderSlot, league.ManagerCount)
	for i := range slots {
		slots[i] = &domain.DraftOrderSlot{
			ID:       uuid.New(),
			LeagueID: league.ID,
			Position: i + 1,
		}
	}
	if err := s.orderRepo.CreateMany(ctx, slots); err != nil {
		return nil, err
	}

	return league, nil
}

// GetLeague resolves a league by UUID or short code.
func (s *LeagueService) GetLeague(ctx context.Context, idOrCode string) (*domain.League, error) {
	if id, err := uuid.Parse(idOrCode); err == nil {
		return s.leagueRepo.GetByID(ctx, id)
	}
	return s.leagueRepo.GetByShortCode(ctx, strings.ToUpper(idOrCode))
}

type JoinLeagueInput struct {
	LeagueID    uuid.UUID
	DisplayName string
	IsBot       bool
}

// JoinLeague seats a new manager, refusing once every seat is taken.
func (s *LeagueService) JoinLeague(ctx context.Context, input JoinLeagueInput) (*domain.Manager, error) {
	league, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return nil, err
	}
	existing, err := s.mgrRepo.GetByLeague(ctx, input.LeagueID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= league.ManagerCount {
		return nil, domain.ErrLeagueFull
	}

	manager := &domain.Manager{
		ID:          uuid.New(),
		LeagueID:    input.LeagueID,
		DisplayName: input.DisplayName,
		IsBot:       input.IsBot,
		JoinedAt:    time.Now(),
	}
	if err := s.mgrRepo.Create(ctx, manager); err != nil {
		return nil, err
	}
	return manager, nil
}

// AssignOrderSlot binds a manager to a specific draft position.
func (s *LeagueService) AssignOrderSlot(ctx context.Context, leagueID uuid.UUID, position int, managerID uuid.UUID) (*domain.DraftOrderSlot, error) {
	manager, err := s.mgrRepo.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if manager.LeagueID != leagueID {
		return nil, domain.ErrManagerNotFound
	}

	slot, err := s.orderRepo.GetByPosition(ctx, leagueID, position)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: position %d", domain.ErrManagerAssignmentMissing, position)
	}
	slot.ManagerID = &manager.ID
	if err := s.orderRepo.Update(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// SetAutoDraft toggles the auto-draft opt-in for a position.
func (s *LeagueService) SetAutoDraft(ctx context.Context, leagueID uuid.UUID, position int, enabled bool) (*domain.DraftOrderSlot, error) {
	slot, err := s.orderRepo.GetByPosition(ctx, leagueID, position)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: position %d", domain.ErrManagerAssignmentMissing, position)
	}
	slot.AutoDraftEnabled = enabled
	if err := s.orderRepo.Update(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// DraftOrder returns the league's order slots.
func (s *LeagueService) DraftOrder(ctx context.Context, leagueID uuid.UUID) ([]*domain.DraftOrderSlot, error) {
	return s.orderRepo.GetByLeague(ctx, leagueID)
}

// Managers returns the league's seated managers.
func (s *LeagueService) Managers(ctx context.Context, leagueID uuid.UUID) ([]*domain.Manager, error) {
	return s.mgrRepo.GetByLeague(ctx, leagueID)
}

// AvailablePlayers lists undrafted players for a league, best first.
func (s *LeagueService) AvailablePlayers(ctx context.Context, leagueID uuid.UUID) ([]*domain.Player, error) {
	return s.playerRepo.GetUndrafted(ctx, leagueID)
}

// SeedPlayers upserts the player catalog. Administrative.
func (s *LeagueService) SeedPlayers(ctx context.Context, players []*domain.Player) error {
	for _, p := range players {
		if !p.Role.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidRole, p.Role)
		}
	}
	return s.playerRepo.UpsertMany(ctx, players)
}

func generateShortCode() string {
	bytes := make([]byte, 3)
	rand.Read(bytes)
	return strings.ToUpper(hex.EncodeToString(bytes))
}
