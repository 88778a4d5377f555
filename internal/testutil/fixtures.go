package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeagueBuilder creates test leagues with a builder pattern
type LeagueBuilder struct {
	name         string
	managerCount int
	clockSeconds int
	activeSize   int
	benchSize    int
	quotas       *domain.RosterQuotas
}

// NewLeagueBuilder creates a new LeagueBuilder with default values
func NewLeagueBuilder() *LeagueBuilder {
	return &LeagueBuilder{
		name:         fmt.Sprintf("testleague_%s", uuid.New().String()[:8]),
		managerCount: 4,
		clockSeconds: 2,
		activeSize:   11,
		benchSize:    4,
	}
}

// WithManagerCount sets the number of seats
func (b *LeagueBuilder) WithManagerCount(count int) *LeagueBuilder {
	b.managerCount = count
	return b
}

// WithClockSeconds sets the pick clock
func (b *LeagueBuilder) WithClockSeconds(seconds int) *LeagueBuilder {
	b.clockSeconds = seconds
	return b
}

// WithRosterSize sets the active and bench partition sizes
func (b *LeagueBuilder) WithRosterSize(active, bench int) *LeagueBuilder {
	b.activeSize = active
	b.benchSize = bench
	return b
}

// WithQuotas overrides the full quota configuration
func (b *LeagueBuilder) WithQuotas(q domain.RosterQuotas) *LeagueBuilder {
	b.quotas = &q
	return b
}

// Build creates the league, its draft state, and its order slots
func (b *LeagueBuilder) Build(t *testing.T, db *gorm.DB) *domain.League {
	t.Helper()

	league := &domain.League{
		ID:               uuid.New(),
		Name:             b.name,
		ShortCode:        uuid.New().String()[:6],
		CreatedBy:        uuid.New(),
		ManagerCount:     b.managerCount,
		ClockSeconds:     b.clockSeconds,
		ActiveSize:       b.activeSize,
		BenchSize:        b.benchSize,
		MinBatsmen:       3,
		MaxBatsmen:       6,
		MinBowlers:       3,
		MinWicketKeepers: 1,
		MinAllRounders:   1,
		MaxOverseas:      4,
		CreatedAt:        time.Now(),
	}
	if b.quotas != nil {
		league.ActiveSize = b.quotas.ActiveSize
		league.BenchSize = b.quotas.BenchSize
		league.MinBatsmen = b.quotas.MinBatsmen
		league.MaxBatsmen = b.quotas.MaxBatsmen
		league.MinBowlers = b.quotas.MinBowlers
		league.MinWicketKeepers = b.quotas.MinWicketKeepers
		league.MinAllRounders = b.quotas.MinAllRounders
		league.MaxOverseas = b.quotas.MaxOverseas
	}

	if err := db.Create(league).Error; err != nil {
		t.Fatalf("failed to create league: %v", err)
	}

	state := &domain.DraftState{
		ID:       uuid.New(),
		LeagueID: league.ID,
		Status:   domain.DraftStatusPreDraft,
	}
	if err := db.Create(state).Error; err != nil {
		t.Fatalf("failed to create draft state: %v", err)
	}

	for i := 1; i <= b.managerCount; i++ {
		slot := &domain.DraftOrderSlot{
			ID:       uuid.New(),
			LeagueID: league.ID,
			Position: i,
		}
		if err := db.Create(slot).Error; err != nil {
			t.Fatalf("failed to create order slot %d: %v", i, err)
		}
	}

	return league
}

// ManagerBuilder creates test managers
type ManagerBuilder struct {
	displayName string
	isBot       bool
}

// NewManagerBuilder creates a new ManagerBuilder with default values
func NewManagerBuilder() *ManagerBuilder {
	return &ManagerBuilder{
		displayName: fmt.Sprintf("manager_%s", uuid.New().String()[:8]),
	}
}

// WithDisplayName sets the display name
func (b *ManagerBuilder) WithDisplayName(name string) *ManagerBuilder {
	b.displayName = name
	return b
}

// AsBot marks the manager as a bot
func (b *ManagerBuilder) AsBot() *ManagerBuilder {
	b.isBot = true
	return b
}

// Build creates the manager in the database
func (b *ManagerBuilder) Build(t *testing.T, db *gorm.DB, leagueID uuid.UUID) *domain.Manager {
	t.Helper()

	manager := &domain.Manager{
		ID:          uuid.New(),
		LeagueID:    leagueID,
		DisplayName: b.displayName,
		IsBot:       b.isBot,
		JoinedAt:    time.Now(),
	}
	if err := db.Create(manager).Error; err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return manager
}

// SeatManagers creates count managers and binds each to the order slot at
// the matching position.
func SeatManagers(t *testing.T, db *gorm.DB, league *domain.League, count int) []*domain.Manager {
	t.Helper()

	managers := make([]*domain.Manager, count)
	for i := 0; i < count; i++ {
		managers[i] = NewManagerBuilder().
			WithDisplayName(fmt.Sprintf("Manager %d", i+1)).
			Build(t, db, league.ID)

		err := db.Model(&domain.DraftOrderSlot{}).
			Where("league_id = ? AND position = ?", league.ID, i+1).
			Update("manager_id", managers[i].ID).Error
		if err != nil {
			t.Fatalf("failed to bind manager to slot %d: %v", i+1, err)
		}
	}
	return managers
}

// SeedPlayers creates a rating-graded player pool. Roles cycle so every
// role quota is satisfiable; every third player is overseas.
func SeedPlayers(t *testing.T, db *gorm.DB, count int) []*domain.Player {
	t.Helper()

	roles := []domain.PlayerRole{
		domain.RoleBatsman, domain.RoleBowler, domain.RoleWicketKeeper,
		domain.RoleAllRounder, domain.RoleBatsman, domain.RoleBowler,
	}
	players := make([]*domain.Player, count)
	for i := 0; i < count; i++ {
		players[i] = &domain.Player{
			ID:         uuid.New(),
			Name:       fmt.Sprintf("Player %03d", i+1),
			Team:       fmt.Sprintf("Team %d", i%8+1),
			Role:       roles[i%len(roles)],
			IsOverseas: i%3 == 0,
			Rating:     1000 - i,
		}
		if err := db.Create(players[i]).Error; err != nil {
			t.Fatalf("failed to create player: %v", err)
		}
	}
	return players
}

// CreateAuthenticatedRequest creates an HTTP request acting as a manager.
// The development identity header keeps tests independent of a token issuer.
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, managerID uuid.UUID) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Manager-ID", managerID.String())

	return req
}
