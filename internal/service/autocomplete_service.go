package service

import (
	"context"
	"fmt"
	"log"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/repository"
	"github.com/google/uuid"
)

// AutoCompleteService finishes an entire draft in one shot: every still-empty
// slot receives the next best available player, in snake order, as a single
// atomic batch.
type AutoCompleteService struct {
	draftSvc   *DraftService
	rosterSvc  *RosterService
	leagueRepo repository.LeagueRepository
	stateRepo  repository.DraftStateRepository
	orderRepo  repository.DraftOrderRepository
	pickRepo   repository.DraftPickRepository
	playerRepo repository.PlayerRepository
	mgrRepo    repository.ManagerRepository
	ranker     Ranker
	notifier   Notifier
}

func NewAutoCompleteService(
	repos *repository.Repositories,
	draftSvc *DraftService,
	rosterSvc *RosterService,
	ranker Ranker,
	notifier Notifier,
) *AutoCompleteService {
	return &AutoCompleteService{
		draftSvc:   draftSvc,
		rosterSvc:  rosterSvc,
		leagueRepo: repos.League,
		stateRepo:  repos.DraftState,
		orderRepo:  repos.DraftOrder,
		pickRepo:   repos.DraftPick,
		playerRepo: repos.Player,
		mgrRepo:    repos.Manager,
		ranker:     ranker,
		notifier:   notifier,
	}
}

// CompletionReport distinguishes a fully finalized draft from one whose
// picks committed but whose roster optimization partially failed. Picks and
// roster slotting are separate atomicity domains: optimization failures
// never unwind committed picks.
type CompletionReport struct {
	PicksAssigned   int                  `json:"picksAssigned"`
	OrderRandomized bool                 `json:"orderRandomized"`
	RosterFailures  map[uuid.UUID]string `json:"rosterFailures,omitempty"`
	FullyFinalized  bool                 `json:"fullyFinalized"`
}

// Complete runs the bulk completion algorithm for a league.
func (s *AutoCompleteService) Complete(ctx context.Context, leagueID uuid.UUID) (*CompletionReport, error) {
	mu := s.draftSvc.lockFor(leagueID)
	mu.Lock()
	defer mu.Unlock()

	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	state, err := s.stateRepo.GetByLeagueID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if state.Status == domain.DraftStatusCompleted {
		return nil, domain.ErrDraftComplete
	}
	if state.Status == domain.DraftStatusPreDraft {
		return nil, fmt.Errorf("%w: draft has not started", domain.ErrInvalidTransition)
	}

	report := &CompletionReport{RosterFailures: map[uuid.UUID]string{}}

	// Full snake enumeration filtered to empty slots keeps a deterministic
	// global ordering for the lockstep assignment.
	picks, err := s.pickRepo.GetByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	filled := make(map[domain.SlotRef]bool, len(picks))
	for _, pick := range picks {
		if pick.PlayerID != nil {
			filled[domain.SlotRef{Round: pick.Round, Position: pick.Position}] = true
		}
	}
	var empty []domain.SlotRef
	for _, slot := range domain.SlotOrder(league.TotalRounds(), league.ManagerCount) {
		if !filled[slot] {
			empty = append(empty, slot)
		}
	}

	// A draft cannot bulk-complete with unassigned seats.
	slots, err := s.orderRepo.GetByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	unbound := len(slots) < league.ManagerCount
	for _, slot := range slots {
		if slot.ManagerID == nil {
			unbound = true
			break
		}
	}
	if unbound {
		if slots, err = s.draftSvc.randomizeOrderLocked(ctx, leagueID); err != nil {
			return nil, err
		}
		report.OrderRandomized = true
	}
	managerByPosition := make(map[int]*uuid.UUID, len(slots))
	for _, slot := range slots {
		managerByPosition[slot.Position] = slot.ManagerID
	}

	available, err := s.playerRepo.GetUndrafted(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(available) < len(empty) {
		return nil, fmt.Errorf("%w: %d slots but %d players",
			domain.ErrInsufficientPlayers, len(empty), len(available))
	}
	ranked := s.ranker.Rank(available)

	// Lockstep: slot i in snake order receives ranked player i. One
	// transaction, all or nothing.
	batch := make([]*domain.DraftPick, len(empty))
	for i, slot := range empty {
		playerID := ranked[i].ID
		batch[i] = &domain.DraftPick{
			ID:          uuid.New(),
			LeagueID:    leagueID,
			Round:       slot.Round,
			Position:    slot.Position,
			ManagerID:   managerByPosition[slot.Position],
			PlayerID:    &playerID,
			IsAutoDraft: true,
		}
	}
	if err := s.pickRepo.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}
	report.PicksAssigned = len(batch)

	state.Status = domain.DraftStatusCompleted
	state.PausedAt = nil
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, err
	}

	// Roster optimization is attempted for every manager; failures are
	// reported, never rolled back into the pick domain.
	managers, err := s.mgrRepo.GetByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	for _, manager := range managers {
		if _, err := s.rosterSvc.Optimize(ctx, leagueID, manager.ID); err != nil {
			log.Printf("bulk completion: roster optimization failed for manager %s: %v", manager.ID, err)
			report.RosterFailures[manager.ID] = err.Error()
		}
	}
	report.FullyFinalized = len(report.RosterFailures) == 0

	snap, err := s.draftSvc.snapshotLocked(ctx, league, state)
	if err != nil {
		return report, err
	}
	s.notifier.DraftCompleted(leagueID, snap)
	return report, nil
}
