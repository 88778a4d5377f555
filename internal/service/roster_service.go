package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/repository"
	"github.com/google/uuid"
)

// RosterService partitions a manager's drafted players into active and bench
// under the league's positional quotas.
type RosterService struct {
	pickRepo   repository.DraftPickRepository
	playerRepo repository.PlayerRepository
	rosterRepo repository.RosterRepository
	leagueRepo repository.LeagueRepository
	ranker     Ranker
}

func NewRosterService(repos *repository.Repositories, ranker Ranker) *RosterService {
	return &RosterService{
		pickRepo:   repos.DraftPick,
		playerRepo: repos.Player,
		rosterRepo: repos.Roster,
		leagueRepo: repos.League,
		ranker:     ranker,
	}
}

// Optimize loads a manager's drafted players, builds the active/bench
// partition, and upserts the persisted assignment.
func (s *RosterService) Optimize(ctx context.Context, leagueID, managerID uuid.UUID) (*domain.RosterAssignment, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	picks, err := s.pickRepo.GetByManager(ctx, leagueID, managerID)
	if err != nil {
		return nil, err
	}
	playerIDs := make([]uuid.UUID, 0, len(picks))
	for _, pick := range picks {
		if pick.PlayerID != nil {
			playerIDs = append(playerIDs, *pick.PlayerID)
		}
	}

	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	active, bench := BuildOptimalActive(s.ranker.Rank(players), league.Quotas())

	activeJSON, err := json.Marshal(playerUUIDs(active))
	if err != nil {
		return nil, fmt.Errorf("marshal active roster: %w", err)
	}
	benchJSON, err := json.Marshal(playerUUIDs(bench))
	if err != nil {
		return nil, fmt.Errorf("marshal bench roster: %w", err)
	}

	assignment := &domain.RosterAssignment{
		ID:        uuid.New(),
		LeagueID:  leagueID,
		ManagerID: managerID,
		Active:    activeJSON,
		Bench:     benchJSON,
		UpdatedAt: time.Now(),
	}
	if err := s.rosterRepo.Upsert(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// DeleteAssignments wipes a league's roster assignments (draft reset).
func (s *RosterService) DeleteAssignments(ctx context.Context, leagueID uuid.UUID) error {
	return s.rosterRepo.DeleteByLeague(ctx, leagueID)
}

// BuildOptimalActive greedily partitions ranked players (best first) into an
// active roster and a bench. It is a greedy quota-filler, not an optimal
// search: role minimums are satisfied first in the order wicketkeeper,
// all-rounder, bowler, batsman, then remaining seats go to the best players
// left subject to the batsman maximum and the overseas cap.
//
// The function never drops a player: any player stranded by quota logic is
// force-appended to the bench even past its nominal size, and inputs smaller
// than the active size simply yield a short active list.
func BuildOptimalActive(ranked []*domain.Player, q domain.RosterQuotas) (active, bench []*domain.Player) {
	active = []*domain.Player{}
	bench = []*domain.Player{}
	if len(ranked) == 0 {
		return active, bench
	}

	selected := make(map[uuid.UUID]bool, q.ActiveSize)
	overseas := 0
	batsmen := 0

	pick := func(p *domain.Player) {
		active = append(active, p)
		selected[p.ID] = true
		if p.IsOverseas {
			overseas++
		}
		if p.Role == domain.RoleBatsman {
			batsmen++
		}
	}

	admissible := func(p *domain.Player) bool {
		if selected[p.ID] || len(active) >= q.ActiveSize {
			return false
		}
		if p.IsOverseas && overseas >= q.MaxOverseas {
			return false
		}
		return true
	}

	// Phase 1: satisfy each role minimum from the best available of that role.
	for _, role := range domain.ValidRoles {
		need := q.MinForRole(role)
		for _, p := range ranked {
			if need <= 0 {
				break
			}
			if p.Role != role || !admissible(p) {
				continue
			}
			pick(p)
			need--
		}
	}

	// Phase 2: best remaining players fill the leftover seats, respecting
	// the batsman maximum and the overseas cap.
	for _, p := range ranked {
		if len(active) >= q.ActiveSize {
			break
		}
		if !admissible(p) {
			continue
		}
		if p.Role == domain.RoleBatsman && batsmen >= q.MaxBatsmen {
			continue
		}
		pick(p)
	}

	for _, p := range ranked {
		if !selected[p.ID] && len(bench) < q.BenchSize {
			bench = append(bench, p)
			selected[p.ID] = true
		}
	}

	// Post-condition safeguard: active+bench must equal the input set. A
	// player the quota logic stranded still lands on the bench, soft size
	// cap or not.
	for _, p := range ranked {
		if !selected[p.ID] {
			bench = append(bench, p)
			selected[p.ID] = true
		}
	}

	return active, bench
}

func playerUUIDs(players []*domain.Player) []uuid.UUID {
	ids := make([]uuid.UUID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}
