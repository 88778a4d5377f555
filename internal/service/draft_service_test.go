package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	repoPostgres "github.com/dom/fantasy-cricket-draft/internal/repository/postgres"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/dom/fantasy-cricket-draft/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draftFixture struct {
	db       *testutil.TestDB
	services *service.Services
	league   *domain.League
	managers []*domain.Manager
	players  []*domain.Player
}

// newDraftFixture builds a seated 4-manager league with a small roster so a
// full draft stays cheap: 3 rounds, 12 picks.
func newDraftFixture(t *testing.T) *draftFixture {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), service.NopNotifier{})

	league := testutil.NewLeagueBuilder().
		WithManagerCount(4).
		WithClockSeconds(60).
		WithRosterSize(2, 1).
		WithQuotas(domain.RosterQuotas{
			ActiveSize: 2, BenchSize: 1,
			MinBatsmen: 0, MaxBatsmen: 2,
			MinBowlers: 0, MinWicketKeepers: 0, MinAllRounders: 0,
			MaxOverseas: 2,
		}).
		Build(t, testDB.DB)
	managers := testutil.SeatManagers(t, testDB.DB, league, 4)
	players := testutil.SeedPlayers(t, testDB.DB, 30)

	return &draftFixture{
		db:       testDB,
		services: services,
		league:   league,
		managers: managers,
		players:  players,
	}
}

func TestDraftService_StartRequiresBoundSlots(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), service.NopNotifier{})

	league := testutil.NewLeagueBuilder().WithManagerCount(4).Build(t, testDB.DB)
	// Seat only three of four managers.
	testutil.SeatManagers(t, testDB.DB, league, 3)

	_, err := services.Draft.Start(context.Background(), league.ID)
	assert.ErrorIs(t, err, domain.ErrManagerAssignmentMissing)
}

func TestDraftService_StartAndSnapshot(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	snap, err := f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.DraftStatusActive, snap.Status)
	assert.Equal(t, 12, snap.TotalPicks)
	assert.Equal(t, 0, snap.PicksMade)
	require.NotNil(t, snap.Turn)
	assert.Equal(t, 1, snap.Turn.Round)
	assert.Equal(t, 1, snap.Turn.Position)
	require.NotNil(t, snap.Turn.ManagerID)
	assert.Equal(t, f.managers[0].ID, *snap.Turn.ManagerID)

	// Starting twice is an invalid transition.
	_, err = f.services.Draft.Start(ctx, f.league.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDraftService_PickBeforeStartRejected(t *testing.T) {
	f := newDraftFixture(t)

	_, err := f.services.Draft.MakePick(context.Background(), service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[0].ID,
		Round:    1,
		Position: 1,
		PlayerID: f.players[0].ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDraftService_TurnEnforcement(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	_, err := f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)

	// Position 2 cannot pick while position 1 is on the clock.
	_, err = f.services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[1].ID,
		Round:    1,
		Position: 2,
		PlayerID: f.players[0].ID,
	})
	assert.ErrorIs(t, err, domain.ErrTurnViolation)

	// Nor can someone else pick for position 1.
	_, err = f.services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[1].ID,
		Round:    1,
		Position: 1,
		PlayerID: f.players[0].ID,
	})
	assert.ErrorIs(t, err, domain.ErrTurnViolation)

	// The right manager at the right slot succeeds.
	pick, err := f.services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[0].ID,
		Round:    1,
		Position: 1,
		PlayerID: f.players[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, pick.GlobalNumber(f.league.ManagerCount))

	// Replaying the now-filled slot reports it as taken.
	_, err = f.services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[0].ID,
		Round:    1,
		Position: 1,
		PlayerID: f.players[1].ID,
	})
	assert.ErrorIs(t, err, domain.ErrSlotAlreadyFilled)

	// A drafted player cannot be drafted again.
	_, err = f.services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[1].ID,
		Round:    1,
		Position: 2,
		PlayerID: f.players[0].ID,
	})
	assert.ErrorIs(t, err, domain.ErrPlayerTaken)
}

func TestDraftService_PauseResumeClockAccounting(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	base := time.Now()
	current := base
	f.services.Draft.SetNow(func() time.Time { return current })

	_, err := f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)

	// 10s of clock burned, then pause.
	current = base.Add(10 * time.Second)
	snap, err := f.services.Draft.Pause(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftStatusPaused, snap.Status)
	assert.Equal(t, int64(50_000), snap.RemainingMs)

	// The countdown is frozen while paused.
	current = base.Add(20 * time.Second)
	snap, err = f.services.Draft.Snapshot(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), snap.RemainingMs)

	// Picks are rejected while paused.
	_, err = f.services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[0].ID,
		Round:    1,
		Position: 1,
		PlayerID: f.players[0].ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Resume after 15s paused; 5s later the clock shows 45s left.
	current = base.Add(25 * time.Second)
	_, err = f.services.Draft.Resume(ctx, f.league.ID)
	require.NoError(t, err)

	current = base.Add(30 * time.Second)
	snap, err = f.services.Draft.Snapshot(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftStatusActive, snap.Status)
	assert.Equal(t, int64(45_000), snap.RemainingMs)

	// A pick re-anchors the clock for the next turn.
	_, err = f.services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[0].ID,
		Round:    1,
		Position: 1,
		PlayerID: f.players[0].ID,
	})
	require.NoError(t, err)

	current = base.Add(31 * time.Second)
	snap, err = f.services.Draft.Snapshot(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(59_000), snap.RemainingMs)
}

func TestDraftService_ResetClock(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	base := time.Now()
	current := base
	f.services.Draft.SetNow(func() time.Time { return current })

	_, err := f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)

	current = base.Add(50 * time.Second)
	snap, err := f.services.Draft.ResetClock(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60_000), snap.RemainingMs)
}

func TestDraftService_FullDraftCompletes(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	_, err := f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)

	playerIdx := 0
	for {
		snap, err := f.services.Draft.Snapshot(ctx, f.league.ID)
		require.NoError(t, err)
		if snap.Status == domain.DraftStatusCompleted {
			break
		}
		require.NotNil(t, snap.Turn)

		_, err = f.services.Draft.MakePick(ctx, service.MakePickInput{
			LeagueID: f.league.ID,
			Actor:    *snap.Turn.ManagerID,
			Round:    snap.Turn.Round,
			Position: snap.Turn.Position,
			PlayerID: f.players[playerIdx].ID,
		})
		require.NoError(t, err)
		playerIdx++
	}

	assert.Equal(t, 12, playerIdx)

	// One more pick must be refused.
	_, err = f.services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[0].ID,
		Round:    3,
		Position: 1,
		PlayerID: f.players[playerIdx].ID,
	})
	assert.ErrorIs(t, err, domain.ErrDraftComplete)

	// Completion finalizes a roster assignment for every manager.
	for _, m := range f.managers {
		var count int64
		f.db.DB.Model(&domain.RosterAssignment{}).
			Where("league_id = ? AND manager_id = ?", f.league.ID, m.ID).
			Count(&count)
		assert.Equal(t, int64(1), count, "manager %s missing roster assignment", m.DisplayName)
	}
}

func TestDraftService_ResetWipesEverything(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	_, err := f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)
	_, err = f.services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[0].ID,
		Round:    1,
		Position: 1,
		PlayerID: f.players[0].ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.services.Draft.Reset(ctx, f.league.ID))

	snap, err := f.services.Draft.Snapshot(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftStatusPreDraft, snap.Status)
	assert.Equal(t, 0, snap.PicksMade)

	slots, err := f.services.League.DraftOrder(ctx, f.league.ID)
	require.NoError(t, err)
	for _, slot := range slots {
		assert.Nil(t, slot.ManagerID, "slot %d should be unbound after reset", slot.Position)
	}
}

func TestDraftService_RandomizeOrderBindsEverySeat(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	require.NoError(t, f.services.Draft.Reset(ctx, f.league.ID))

	slots, err := f.services.Draft.RandomizeOrder(ctx, f.league.ID)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	seen := make(map[uuid.UUID]bool)
	for _, slot := range slots {
		require.NotNil(t, slot.ManagerID)
		assert.False(t, seen[*slot.ManagerID], "manager bound twice")
		seen[*slot.ManagerID] = true
	}
}
