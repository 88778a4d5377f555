package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/repository"
	"github.com/google/uuid"
)

const (
	autoDraftTickInterval = 2 * time.Second
	autoDraftCooldown     = 2 * time.Second
)

// AutoDraftController evaluates every active draft on a fixed tick and
// forces a pick when the seat on the clock has no live human behind it (no
// manager bound, a bot manager, or auto-draft opted in) or when the pick
// clock has expired. A per-league in-flight marker with a short cooldown
// prevents re-entrant evaluation while a commit is outstanding.
type AutoDraftController struct {
	draftSvc   *DraftService
	stateRepo  repository.DraftStateRepository
	leagueRepo repository.LeagueRepository
	orderRepo  repository.DraftOrderRepository
	mgrRepo    repository.ManagerRepository
	playerRepo repository.PlayerRepository
	pickRepo   repository.DraftPickRepository
	ranker     Ranker

	tick     time.Duration
	cooldown time.Duration

	inFlight map[uuid.UUID]time.Time
	mu       sync.Mutex
}

func NewAutoDraftController(repos *repository.Repositories, draftSvc *DraftService, ranker Ranker) *AutoDraftController {
	return &AutoDraftController{
		draftSvc:   draftSvc,
		stateRepo:  repos.DraftState,
		leagueRepo: repos.League,
		orderRepo:  repos.DraftOrder,
		mgrRepo:    repos.Manager,
		playerRepo: repos.Player,
		pickRepo:   repos.DraftPick,
		ranker:     ranker,
		tick:       autoDraftTickInterval,
		cooldown:   autoDraftCooldown,
		inFlight:   make(map[uuid.UUID]time.Time),
	}
}

// Run drives the evaluation loop until ctx is cancelled.
func (c *AutoDraftController) Run(ctx context.Context) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	log.Printf("auto-draft controller started (tick %s)", c.tick)
	for {
		select {
		case <-ctx.Done():
			log.Printf("auto-draft controller stopped")
			return
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Sweep evaluates every active league once. Exposed for tests and for the
// bulk engine to trigger an immediate re-check.
func (c *AutoDraftController) Sweep(ctx context.Context) {
	states, err := c.stateRepo.ListByStatus(ctx, domain.DraftStatusActive)
	if err != nil {
		log.Printf("auto-draft sweep failed: %v", err)
		return
	}
	for _, state := range states {
		if err := c.Evaluate(ctx, state.LeagueID); err != nil {
			log.Printf("auto-draft evaluation failed for league %s: %v", state.LeagueID, err)
		}
	}
}

// Evaluate runs the per-tick decision for one league.
func (c *AutoDraftController) Evaluate(ctx context.Context, leagueID uuid.UUID) error {
	league, err := c.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return err
	}
	state, err := c.stateRepo.GetByLeagueID(ctx, leagueID)
	if err != nil {
		return err
	}
	// Never pick while paused or completed.
	if state.Status != domain.DraftStatusActive {
		return nil
	}

	picksMade, err := c.pickRepo.CountByLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	round, position := domain.CurrentTurn(int(picksMade), league.ManagerCount)
	if round == 0 || round > league.TotalRounds() {
		return nil
	}

	immediate, err := c.shouldImmediatePick(ctx, leagueID, position)
	if err != nil {
		return err
	}
	if !immediate && c.draftSvc.RemainingTime(state, league) > 0 {
		return nil
	}

	if !c.claim(leagueID) {
		return nil
	}
	defer c.release(leagueID)

	return c.pickBestAvailable(ctx, leagueID, round, position)
}

// shouldImmediatePick reports whether the seat on the clock has no live
// human behind it.
func (c *AutoDraftController) shouldImmediatePick(ctx context.Context, leagueID uuid.UUID, position int) (bool, error) {
	slot, err := c.orderRepo.GetByPosition(ctx, leagueID, position)
	if err != nil {
		return false, err
	}
	if slot == nil || slot.ManagerID == nil {
		return true, nil
	}
	if slot.AutoDraftEnabled {
		return true, nil
	}
	manager, err := c.mgrRepo.GetByID(ctx, *slot.ManagerID)
	if err != nil {
		if errors.Is(err, domain.ErrManagerNotFound) {
			return true, nil
		}
		return false, err
	}
	return manager.IsBot, nil
}

func (c *AutoDraftController) pickBestAvailable(ctx context.Context, leagueID uuid.UUID, round, position int) error {
	available, err := c.playerRepo.GetUndrafted(ctx, leagueID)
	if err != nil {
		return err
	}
	if len(available) == 0 {
		return domain.ErrInsufficientPlayers
	}
	best := c.ranker.Rank(available)[0]

	_, err = c.draftSvc.MakePick(ctx, MakePickInput{
		LeagueID:    leagueID,
		Round:       round,
		Position:    position,
		PlayerID:    best.ID,
		IsAutoDraft: true,
	})
	if err != nil {
		// A lost race means another trigger already filled the slot.
		if errors.Is(err, domain.ErrSlotAlreadyFilled) || errors.Is(err, domain.ErrDraftComplete) {
			return nil
		}
		return err
	}
	log.Printf("auto-draft: league %s round %d position %d -> %s", leagueID, round, position, best.Name)
	return nil
}

// claim marks a league as having an auto-pick check in flight. The marker
// outlives the commit by a short cooldown to tolerate read-after-write lag
// in the persistence layer.
func (c *AutoDraftController) claim(leagueID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if until, ok := c.inFlight[leagueID]; ok && time.Now().Before(until) {
		return false
	}
	c.inFlight[leagueID] = time.Now().Add(time.Hour) // held until release
	return true
}

func (c *AutoDraftController) release(leagueID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight[leagueID] = time.Now().Add(c.cooldown)
}
