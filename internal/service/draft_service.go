package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/repository"
	"github.com/google/uuid"
)

// DraftService owns the draft lifecycle: pre_draft -> active <-> paused ->
// completed. "Whose turn is it" is always a pure function of the number of
// committed picks (domain snake arithmetic), never stored state.
//
// Concurrency: every mutating operation runs under a per-league mutex, and
// MakePick additionally relies on the database unique index on
// (league, round, position) so a racing double-commit loses cleanly with
// ErrSlotAlreadyFilled instead of corrupting the order.
type DraftService struct {
	leagueRepo repository.LeagueRepository
	stateRepo  repository.DraftStateRepository
	orderRepo  repository.DraftOrderRepository
	pickRepo   repository.DraftPickRepository
	playerRepo repository.PlayerRepository
	mgrRepo    repository.ManagerRepository
	rosterSvc  *RosterService
	notifier   Notifier

	// now is swappable for clock tests.
	now func() time.Time

	locks   map[uuid.UUID]*sync.Mutex
	locksMu sync.Mutex
}

func NewDraftService(
	repos *repository.Repositories,
	rosterSvc *RosterService,
	notifier Notifier,
) *DraftService {
	return &DraftService{
		leagueRepo: repos.League,
		stateRepo:  repos.DraftState,
		orderRepo:  repos.DraftOrder,
		pickRepo:   repos.DraftPick,
		playerRepo: repos.Player,
		mgrRepo:    repos.Manager,
		rosterSvc:  rosterSvc,
		notifier:   notifier,
		now:        time.Now,
		locks:      make(map[uuid.UUID]*sync.Mutex),
	}
}

// SetNow overrides the wall clock. Test hook.
func (s *DraftService) SetNow(now func() time.Time) {
	s.now = now
}

func (s *DraftService) lockFor(leagueID uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[leagueID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[leagueID] = mu
	}
	return mu
}

// TurnInfo describes the slot currently on the clock.
type TurnInfo struct {
	Round      int        `json:"round"`
	Position   int        `json:"position"`
	GlobalPick int        `json:"globalPick"`
	ManagerID  *uuid.UUID `json:"managerId"`
	AutoDraft  bool       `json:"autoDraft"`
}

// DraftSnapshot is the authoritative view emitted after every mutation and
// returned by the state endpoint.
type DraftSnapshot struct {
	LeagueID    uuid.UUID          `json:"leagueId"`
	Status      domain.DraftStatus `json:"status"`
	Turn        *TurnInfo          `json:"turn,omitempty"`
	RemainingMs int64              `json:"remainingMs"`
	TotalPicks  int                `json:"totalPicks"`
	PicksMade   int                `json:"picksMade"`
}

// Start begins the draft. Legal from pre_draft, or from paused before any
// pick was made (a false start). Every order slot must have a bound manager.
func (s *DraftService) Start(ctx context.Context, leagueID uuid.UUID) (*DraftSnapshot, error) {
	mu := s.lockFor(leagueID)
	mu.Lock()
	defer mu.Unlock()

	league, state, err := s.loadLeagueState(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	picksMade, err := s.pickRepo.CountByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	startable := state.Status == domain.DraftStatusPreDraft ||
		(state.Status == domain.DraftStatusPaused && picksMade == 0)
	if !startable {
		return nil, fmt.Errorf("%w: cannot start from %s", domain.ErrInvalidTransition, state.Status)
	}

	slots, err := s.orderRepo.GetByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(slots) < league.ManagerCount {
		return nil, domain.ErrManagerAssignmentMissing
	}
	for _, slot := range slots {
		if slot.ManagerID == nil {
			return nil, domain.ErrManagerAssignmentMissing
		}
	}

	now := s.now()
	state.Status = domain.DraftStatusActive
	state.LastPickAt = &now
	state.PausedAt = nil
	state.TotalPausedMs = 0
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, err
	}

	snap, err := s.snapshotLocked(ctx, league, state)
	if err != nil {
		return nil, err
	}
	s.notifier.DraftStarted(leagueID, snap)
	return snap, nil
}

// Pause freezes the clock. Legal only while active.
func (s *DraftService) Pause(ctx context.Context, leagueID uuid.UUID) (*DraftSnapshot, error) {
	mu := s.lockFor(leagueID)
	mu.Lock()
	defer mu.Unlock()

	league, state, err := s.loadLeagueState(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if state.Status != domain.DraftStatusActive {
		return nil, fmt.Errorf("%w: cannot pause from %s", domain.ErrInvalidTransition, state.Status)
	}

	now := s.now()
	state.Status = domain.DraftStatusPaused
	state.PausedAt = &now
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, err
	}

	snap, err := s.snapshotLocked(ctx, league, state)
	if err != nil {
		return nil, err
	}
	s.notifier.DraftPaused(leagueID, snap)
	return snap, nil
}

// Resume accumulates the paused interval and unfreezes the clock.
func (s *DraftService) Resume(ctx context.Context, leagueID uuid.UUID) (*DraftSnapshot, error) {
	mu := s.lockFor(leagueID)
	mu.Lock()
	defer mu.Unlock()

	league, state, err := s.loadLeagueState(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if state.Status != domain.DraftStatusPaused || state.PausedAt == nil {
		return nil, fmt.Errorf("%w: cannot resume from %s", domain.ErrInvalidTransition, state.Status)
	}

	now := s.now()
	state.TotalPausedMs += now.Sub(*state.PausedAt).Milliseconds()
	state.PausedAt = nil
	state.Status = domain.DraftStatusActive
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, err
	}

	snap, err := s.snapshotLocked(ctx, league, state)
	if err != nil {
		return nil, err
	}
	s.notifier.DraftResumed(leagueID, snap)
	return snap, nil
}

// ResetClock re-anchors the current turn's clock without touching pause
// accounting. Used to manually extend a turn.
func (s *DraftService) ResetClock(ctx context.Context, leagueID uuid.UUID) (*DraftSnapshot, error) {
	mu := s.lockFor(leagueID)
	mu.Lock()
	defer mu.Unlock()

	league, state, err := s.loadLeagueState(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if state.Status != domain.DraftStatusActive && state.Status != domain.DraftStatusPaused {
		return nil, fmt.Errorf("%w: cannot reset clock from %s", domain.ErrInvalidTransition, state.Status)
	}

	now := s.now()
	state.LastPickAt = &now
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, err
	}

	snap, err := s.snapshotLocked(ctx, league, state)
	if err != nil {
		return nil, err
	}
	s.notifier.ClockReset(leagueID, snap)
	return snap, nil
}

// Reset is the administrative wipe: all picks and roster assignments are
// deleted, every order slot unbound, and the state returns to pre_draft with
// zeroed pause accounting.
func (s *DraftService) Reset(ctx context.Context, leagueID uuid.UUID) error {
	mu := s.lockFor(leagueID)
	mu.Lock()
	defer mu.Unlock()

	_, state, err := s.loadLeagueState(ctx, leagueID)
	if err != nil {
		return err
	}

	if err := s.pickRepo.DeleteByLeague(ctx, leagueID); err != nil {
		return err
	}
	if err := s.rosterSvc.DeleteAssignments(ctx, leagueID); err != nil {
		return err
	}
	if err := s.orderRepo.UnbindAll(ctx, leagueID); err != nil {
		return err
	}

	state.Status = domain.DraftStatusPreDraft
	state.LastPickAt = nil
	state.PausedAt = nil
	state.TotalPausedMs = 0
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return err
	}

	s.notifier.DraftReset(leagueID)
	return nil
}

// RandomizeOrder assigns the league's managers to order positions with a
// uniform shuffle.
func (s *DraftService) RandomizeOrder(ctx context.Context, leagueID uuid.UUID) ([]*domain.DraftOrderSlot, error) {
	mu := s.lockFor(leagueID)
	mu.Lock()
	defer mu.Unlock()

	return s.randomizeOrderLocked(ctx, leagueID)
}

func (s *DraftService) randomizeOrderLocked(ctx context.Context, leagueID uuid.UUID) ([]*domain.DraftOrderSlot, error) {
	managers, err := s.mgrRepo.GetByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	slots, err := s.orderRepo.GetByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(managers) < len(slots) {
		return nil, domain.ErrManagerAssignmentMissing
	}

	shuffled := make([]*domain.Manager, len(managers))
	copy(shuffled, managers)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for i, slot := range slots {
		id := shuffled[i].ID
		slot.ManagerID = &id
	}
	if err := s.orderRepo.UpdateMany(ctx, slots); err != nil {
		return nil, err
	}

	s.notifier.OrderRandomized(leagueID, slots)
	return slots, nil
}

// MakePickInput carries one pick request. Actor is the acting manager from
// the identity boundary; it is ignored when IsAutoDraft is set
// (system-originated picks bypass the turn-identity check, not turn order).
type MakePickInput struct {
	LeagueID    uuid.UUID
	Actor       uuid.UUID
	Round       int
	Position    int
	PlayerID    uuid.UUID
	IsAutoDraft bool
}

// MakePick validates turn legality and commits exactly one pick for the
// current (round, position). The clock re-anchors on success: lastPickAt
// moves to now and the per-turn pause accumulator zeroes for the new turn.
func (s *DraftService) MakePick(ctx context.Context, input MakePickInput) (*domain.DraftPick, error) {
	mu := s.lockFor(input.LeagueID)
	mu.Lock()
	defer mu.Unlock()

	league, state, err := s.loadLeagueState(ctx, input.LeagueID)
	if err != nil {
		return nil, err
	}
	// Re-check status under the lock: picks queued before a pause transition
	// must be rejected.
	if state.Status != domain.DraftStatusActive {
		if state.Status == domain.DraftStatusCompleted {
			return nil, domain.ErrDraftComplete
		}
		return nil, fmt.Errorf("%w: draft is %s, not active", domain.ErrInvalidTransition, state.Status)
	}

	picksMade, err := s.pickRepo.CountByLeague(ctx, input.LeagueID)
	if err != nil {
		return nil, err
	}
	round, position := domain.CurrentTurn(int(picksMade), league.ManagerCount)
	if round > league.TotalRounds() {
		return nil, domain.ErrDraftComplete
	}

	if input.Round != round || input.Position != position {
		requested := domain.GlobalPickNumber(input.Round, input.Position, league.ManagerCount)
		current := domain.GlobalPickNumber(round, position, league.ManagerCount)
		if requested < current {
			return nil, domain.ErrSlotAlreadyFilled
		}
		return nil, domain.ErrTurnViolation
	}

	slot, err := s.orderRepo.GetByPosition(ctx, input.LeagueID, position)
	if err != nil {
		return nil, err
	}

	// Turn legality: a bound slot belongs to its manager unless the pick is
	// system-originated. Unbound slots accept any acting identity.
	var pickManagerID *uuid.UUID
	if slot != nil && slot.ManagerID != nil {
		if !input.IsAutoDraft && input.Actor != *slot.ManagerID {
			return nil, domain.ErrTurnViolation
		}
		pickManagerID = slot.ManagerID
	} else if input.Actor != uuid.Nil {
		actor := input.Actor
		pickManagerID = &actor
	}

	taken, err := s.pickRepo.PlayerTaken(ctx, input.LeagueID, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrPlayerTaken
	}

	playerID := input.PlayerID
	pick := &domain.DraftPick{
		ID:          uuid.New(),
		LeagueID:    input.LeagueID,
		Round:       round,
		Position:    position,
		ManagerID:   pickManagerID,
		PlayerID:    &playerID,
		IsAutoDraft: input.IsAutoDraft,
		CreatedAt:   s.now(),
	}
	if err := s.pickRepo.Create(ctx, pick); err != nil {
		return nil, err
	}

	now := s.now()
	state.LastPickAt = &now
	state.TotalPausedMs = 0

	completed := int(picksMade)+1 >= league.TotalPicks()
	if completed {
		state.Status = domain.DraftStatusCompleted
	}
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, err
	}

	snap, err := s.snapshotLocked(ctx, league, state)
	if err != nil {
		return nil, err
	}
	s.notifier.PickMade(input.LeagueID, pick, snap)

	if completed {
		s.finalizeRosters(ctx, league)
		s.notifier.DraftCompleted(input.LeagueID, snap)
	}
	return pick, nil
}

// finalizeRosters optimizes every manager's roster once the last pick lands.
// Optimization failures never unwind committed picks.
func (s *DraftService) finalizeRosters(ctx context.Context, league *domain.League) {
	managers, err := s.mgrRepo.GetByLeague(ctx, league.ID)
	if err != nil {
		log.Printf("draft %s complete but manager lookup failed: %v", league.ID, err)
		return
	}
	for _, manager := range managers {
		if _, err := s.rosterSvc.Optimize(ctx, league.ID, manager.ID); err != nil {
			log.Printf("roster optimization failed for manager %s: %v", manager.ID, err)
		}
	}
}

// RemainingTime reports the milliseconds left on the current turn's clock.
// While paused the reference time is pausedAt, freezing the countdown.
func (s *DraftService) RemainingTime(state *domain.DraftState, league *domain.League) int64 {
	clockMs := int64(league.ClockSeconds) * 1000
	if state.LastPickAt == nil {
		return clockMs
	}

	ref := s.now()
	if state.Status == domain.DraftStatusPaused && state.PausedAt != nil {
		ref = *state.PausedAt
	}

	elapsed := ref.Sub(*state.LastPickAt).Milliseconds() - state.TotalPausedMs
	remaining := clockMs - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Snapshot returns the authoritative draft view.
func (s *DraftService) Snapshot(ctx context.Context, leagueID uuid.UUID) (*DraftSnapshot, error) {
	league, state, err := s.loadLeagueState(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return s.snapshotLocked(ctx, league, state)
}

// CurrentTurn resolves the slot currently on the clock, or nil when the
// draft is not underway.
func (s *DraftService) CurrentTurn(ctx context.Context, leagueID uuid.UUID) (*TurnInfo, error) {
	league, state, err := s.loadLeagueState(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return s.currentTurnLocked(ctx, league, state)
}

func (s *DraftService) currentTurnLocked(ctx context.Context, league *domain.League, state *domain.DraftState) (*TurnInfo, error) {
	if state.Status != domain.DraftStatusActive && state.Status != domain.DraftStatusPaused {
		return nil, nil
	}

	picksMade, err := s.pickRepo.CountByLeague(ctx, league.ID)
	if err != nil {
		return nil, err
	}
	round, position := domain.CurrentTurn(int(picksMade), league.ManagerCount)
	if round == 0 || round > league.TotalRounds() {
		return nil, nil
	}

	info := &TurnInfo{
		Round:      round,
		Position:   position,
		GlobalPick: domain.GlobalPickNumber(round, position, league.ManagerCount),
	}
	slot, err := s.orderRepo.GetByPosition(ctx, league.ID, position)
	if err != nil {
		return nil, err
	}
	if slot != nil {
		info.ManagerID = slot.ManagerID
		info.AutoDraft = slot.AutoDraftEnabled
	}
	return info, nil
}

func (s *DraftService) snapshotLocked(ctx context.Context, league *domain.League, state *domain.DraftState) (*DraftSnapshot, error) {
	picksMade, err := s.pickRepo.CountByLeague(ctx, league.ID)
	if err != nil {
		return nil, err
	}
	turn, err := s.currentTurnLocked(ctx, league, state)
	if err != nil {
		return nil, err
	}
	return &DraftSnapshot{
		LeagueID:    league.ID,
		Status:      state.Status,
		Turn:        turn,
		RemainingMs: s.RemainingTime(state, league),
		TotalPicks:  league.TotalPicks(),
		PicksMade:   int(picksMade),
	}, nil
}

func (s *DraftService) loadLeagueState(ctx context.Context, leagueID uuid.UUID) (*domain.League, *domain.DraftState, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, nil, err
	}
	state, err := s.stateRepo.GetByLeagueID(ctx, leagueID)
	if err != nil {
		return nil, nil, err
	}
	return league, state, nil
}
