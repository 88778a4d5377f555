package mockdraft

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/google/uuid"
)

var (
	ErrNotRunning  = errors.New("mock draft is not running")
	ErrNotUserTurn = errors.New("it is not the user's turn")
)

// Pick is one recorded mock-draft selection.
type Pick struct {
	Round     int
	Position  int
	PlayerID  uuid.UUID
	TeamIndex int
}

// Simulator is a self-contained, in-memory practice draft: one human seat
// against bot opponents, same snake arithmetic as the real draft, no
// persistence. Bot picks use a quota-aware weighted-random selection so
// higher-ranked players are heavily favored without lower-ranked players
// ever being fully excluded.
type Simulator struct {
	teams        int
	userPosition int // 1-based seat of the human
	quotas       domain.RosterQuotas
	pool         []*domain.Player // ranked best-first, fixed at Start
	rng          *rand.Rand
	botDelay     time.Duration

	mu           sync.Mutex
	running      bool
	complete     bool
	currentRound int
	currentIndex int // 0-based pick index within the round
	picks        []Pick
	rosters      map[int][]uuid.UUID // team index -> drafted player IDs
	drafted      map[uuid.UUID]bool
	abort        chan struct{}
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand injects a deterministic random source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) { s.rng = rng }
}

// WithBotDelay sets the UX delay between bot picks (0 in tests).
func WithBotDelay(d time.Duration) Option {
	return func(s *Simulator) { s.botDelay = d }
}

// New builds a simulator over a ranked player pool.
func New(teams int, quotas domain.RosterQuotas, ranker service.Ranker, pool []*domain.Player, opts ...Option) *Simulator {
	s := &Simulator{
		teams:    teams,
		quotas:   quotas,
		pool:     ranker.Rank(pool),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		botDelay: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start resets all ephemeral state and begins a run with the human at the
// given 1-based seat.
func (s *Simulator) Start(userPosition int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelPendingLocked()
	s.userPosition = userPosition
	s.running = true
	s.complete = false
	s.currentRound = 1
	s.currentIndex = 0
	s.picks = nil
	s.rosters = make(map[int][]uuid.UUID, s.teams)
	s.drafted = make(map[uuid.UUID]bool)
	s.abort = make(chan struct{})
}

// Reset abandons the current run. Any scheduled bot continuation observes
// the abort flag and never mutates the reset state.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingLocked()
	s.running = false
	s.complete = false
	s.picks = nil
	s.rosters = nil
	s.drafted = nil
}

func (s *Simulator) cancelPendingLocked() {
	if s.abort != nil {
		close(s.abort)
		s.abort = nil
	}
}

// IsComplete reports whether every round has been drafted.
func (s *Simulator) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete
}

// Picks returns the recorded picks in order.
func (s *Simulator) Picks() []Pick {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Pick, len(s.picks))
	copy(out, s.picks)
	return out
}

// Roster returns the drafted player IDs for a 0-based team index.
func (s *Simulator) Roster(teamIndex int) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, len(s.rosters[teamIndex]))
	copy(out, s.rosters[teamIndex])
	return out
}

// Available returns the undrafted players in rank order.
func (s *Simulator) Available() []*domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Player
	for _, p := range s.pool {
		if !s.drafted[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// CurrentTurn returns the round and 0-based team index on the clock.
func (s *Simulator) CurrentTurn() (round, teamIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRound, domain.TeamForPick(s.currentRound, s.currentIndex, s.teams)
}

// IsUserTurn reports whether the human seat is on the clock.
func (s *Simulator) IsUserTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isUserTurnLocked()
}

func (s *Simulator) isUserTurnLocked() bool {
	if !s.running || s.complete {
		return false
	}
	return domain.TeamForPick(s.currentRound, s.currentIndex, s.teams) == s.userPosition-1
}

// MakeUserPick records the human's selection at the current turn and
// advances the snake.
func (s *Simulator) MakeUserPick(playerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.complete {
		return ErrNotRunning
	}
	if !s.isUserTurnLocked() {
		return ErrNotUserTurn
	}
	if s.drafted[playerID] {
		return domain.ErrPlayerTaken
	}
	found := false
	for _, p := range s.pool {
		if p.ID == playerID {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrPlayerNotFound
	}

	s.recordPickLocked(playerID)
	return nil
}

// RunBotPicks advances bot turns until the human is back on the clock or
// the draft completes. It blocks for the configured UX delay between picks
// and returns early if Reset is called mid-run.
func (s *Simulator) RunBotPicks() {
	for {
		s.mu.Lock()
		if !s.running || s.complete || s.isUserTurnLocked() {
			s.mu.Unlock()
			return
		}
		abort := s.abort
		s.mu.Unlock()

		if s.botDelay > 0 {
			select {
			case <-abort:
				return
			case <-time.After(s.botDelay):
			}
		} else {
			select {
			case <-abort:
				return
			default:
			}
		}

		s.mu.Lock()
		// Re-check after the delay: a reset or restart may have landed.
		if !s.running || s.complete || s.isUserTurnLocked() || s.abort != abort {
			s.mu.Unlock()
			return
		}
		teamIndex := domain.TeamForPick(s.currentRound, s.currentIndex, s.teams)
		player := s.selectForBotLocked(teamIndex)
		if player == nil {
			s.mu.Unlock()
			return
		}
		s.recordPickLocked(player.ID)
		s.mu.Unlock()
	}
}

func (s *Simulator) recordPickLocked(playerID uuid.UUID) {
	teamIndex := domain.TeamForPick(s.currentRound, s.currentIndex, s.teams)
	s.picks = append(s.picks, Pick{
		Round:     s.currentRound,
		Position:  teamIndex + 1,
		PlayerID:  playerID,
		TeamIndex: teamIndex,
	})
	s.rosters[teamIndex] = append(s.rosters[teamIndex], playerID)
	s.drafted[playerID] = true

	s.currentIndex++
	if s.currentIndex >= s.teams {
		s.currentIndex = 0
		s.currentRound++
	}
	if s.currentRound > s.quotas.ActiveSize+s.quotas.BenchSize {
		s.complete = true
	}
}

// selectForBotLocked picks a player for a bot team: filter to the players
// eligible under the team's unmet quotas, then choose by exponential tier
// weighting so tier-1 players dominate without shutting out upsets.
func (s *Simulator) selectForBotLocked(teamIndex int) *domain.Player {
	eligible := s.eligibleForTeamLocked(teamIndex)
	if len(eligible) == 0 {
		return nil
	}
	return s.weightedChoice(eligible)
}

type rankedPlayer struct {
	player    *domain.Player
	rankIndex int // index in the ranked pool
}

// eligibleForTeamLocked applies the quota filter in precedence order:
// unmet role minimums first (wicketkeeper, all-rounder, bowler, batsman),
// then a batsman-max-aware fallback, then any remaining role. The overseas
// cap applies throughout.
func (s *Simulator) eligibleForTeamLocked(teamIndex int) []rankedPlayer {
	roster := s.rosters[teamIndex]
	roleCount := make(map[domain.PlayerRole]int)
	overseas := 0
	byID := make(map[uuid.UUID]*domain.Player, len(s.pool))
	for _, p := range s.pool {
		byID[p.ID] = p
	}
	for _, id := range roster {
		if p := byID[id]; p != nil {
			roleCount[p.Role]++
			if p.IsOverseas {
				overseas++
			}
		}
	}

	available := func(filter func(*domain.Player) bool) []rankedPlayer {
		var out []rankedPlayer
		for i, p := range s.pool {
			if s.drafted[p.ID] {
				continue
			}
			if p.IsOverseas && overseas >= s.quotas.MaxOverseas {
				continue
			}
			if filter != nil && !filter(p) {
				continue
			}
			out = append(out, rankedPlayer{player: p, rankIndex: i})
		}
		return out
	}

	// Unmet role minimums, in precedence order.
	for _, role := range domain.ValidRoles {
		if roleCount[role] < s.quotas.MinForRole(role) {
			if picks := available(func(p *domain.Player) bool { return p.Role == role }); len(picks) > 0 {
				return picks
			}
		}
	}

	// All minimums satisfied: anyone, but stop stacking batsmen past the max.
	if picks := available(func(p *domain.Player) bool {
		return p.Role != domain.RoleBatsman || roleCount[domain.RoleBatsman] < s.quotas.MaxBatsmen
	}); len(picks) > 0 {
		return picks
	}

	// Last resort: any remaining player under the overseas cap.
	return available(nil)
}

// weightedChoice picks among eligible players with weight 2^(25-tier),
// tier = rankIndex/10 + 1. Tier-1 players are exponentially favored; deep
// tiers keep a nonzero chance.
func (s *Simulator) weightedChoice(eligible []rankedPlayer) *domain.Player {
	weights := make([]float64, len(eligible))
	var total float64
	for i, rp := range eligible {
		tier := rp.rankIndex/10 + 1
		if tier > 25 {
			tier = 25
		}
		weights[i] = float64(uint64(1) << uint(25-tier))
		total += weights[i]
	}

	target := s.rng.Float64() * total
	for i, w := range weights {
		target -= w
		if target <= 0 {
			return eligible[i].player
		}
	}
	return eligible[len(eligible)-1].player
}
