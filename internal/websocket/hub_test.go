package websocket_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/dom/fantasy-cricket-draft/internal/testutil"
	"github.com/dom/fantasy-cricket-draft/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wsTimeout = 3 * time.Second

type wsFixture struct {
	ts       *testutil.TestServer
	league   *domain.League
	managers []*domain.Manager
	players  []*domain.Player
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()

	ts := testutil.NewTestServer(t)
	league := testutil.NewLeagueBuilder().
		WithManagerCount(4).
		WithClockSeconds(60).
		WithQuotas(domain.RosterQuotas{
			ActiveSize: 2, BenchSize: 1,
			MaxBatsmen: 2, MaxOverseas: 2,
		}).
		Build(t, ts.DB.DB)
	managers := testutil.SeatManagers(t, ts.DB.DB, league, 4)
	players := testutil.SeedPlayers(t, ts.DB.DB, 30)

	return &wsFixture{ts: ts, league: league, managers: managers, players: players}
}

func TestWebSocket_JoinSyncsState(t *testing.T) {
	f := newWSFixture(t)

	client := testutil.NewWSClient(t, f.ts.WebSocketURL())
	client.JoinLeague(f.league.ID)

	snap := client.ExpectStateSync(wsTimeout)
	assert.Equal(t, f.league.ID, snap.LeagueID)
	assert.Equal(t, domain.DraftStatusPreDraft, snap.Status)
	assert.Equal(t, 12, snap.TotalPicks)

	// An explicit sync request re-sends the snapshot.
	client.SyncState()
	snap = client.ExpectStateSync(wsTimeout)
	assert.Equal(t, domain.DraftStatusPreDraft, snap.Status)
}

func TestWebSocket_BroadcastsDraftLifecycle(t *testing.T) {
	f := newWSFixture(t)
	ctx := context.Background()

	client := testutil.NewWSClient(t, f.ts.WebSocketURL())
	client.JoinLeague(f.league.ID)
	client.ExpectStateSync(wsTimeout)

	_, err := f.ts.Services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)
	msg := client.ExpectMessage(websocket.MessageTypeDraftStarted, wsTimeout)
	assert.Equal(t, websocket.MessageTypeDraftStarted, msg.Type)

	// A committed pick reaches every subscriber with its slot coordinates.
	_, err = f.ts.Services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[0].ID,
		Round:    1,
		Position: 1,
		PlayerID: f.players[0].ID,
	})
	require.NoError(t, err)

	pick := client.ExpectPickMade(wsTimeout)
	assert.Equal(t, 1, pick.Round)
	assert.Equal(t, 1, pick.Position)
	require.NotNil(t, pick.PlayerID)
	assert.Equal(t, f.players[0].ID, *pick.PlayerID)

	_, err = f.ts.Services.Draft.Pause(ctx, f.league.ID)
	require.NoError(t, err)
	client.ExpectMessage(websocket.MessageTypeDraftPaused, wsTimeout)

	_, err = f.ts.Services.Draft.Resume(ctx, f.league.ID)
	require.NoError(t, err)
	client.ExpectMessage(websocket.MessageTypeDraftResumed, wsTimeout)
}

func TestWebSocket_ClockTicksWhileActive(t *testing.T) {
	f := newWSFixture(t)
	ctx := context.Background()

	client := testutil.NewWSClient(t, f.ts.WebSocketURL())
	client.JoinLeague(f.league.ID)
	client.ExpectStateSync(wsTimeout)

	_, err := f.ts.Services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)
	client.ExpectMessage(websocket.MessageTypeDraftStarted, wsTimeout)

	// The room ticks once per second while the draft is live and watched.
	tick := client.ExpectMessage(websocket.MessageTypeClockTick, wsTimeout)
	assert.Equal(t, websocket.MessageTypeClockTick, tick.Type)
}

func TestWebSocket_TwoClientsShareARoom(t *testing.T) {
	f := newWSFixture(t)
	ctx := context.Background()

	first := testutil.NewWSClient(t, f.ts.WebSocketURL())
	first.JoinLeague(f.league.ID)
	first.ExpectStateSync(wsTimeout)

	second := testutil.NewWSClient(t, f.ts.WebSocketURL())
	second.JoinLeague(f.league.ID)
	second.ExpectStateSync(wsTimeout)

	_, err := f.ts.Services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)

	first.ExpectMessage(websocket.MessageTypeDraftStarted, wsTimeout)
	second.ExpectMessage(websocket.MessageTypeDraftStarted, wsTimeout)

	// One client leaving must not tear the room down for the other.
	first.Close()

	_, err = f.ts.Services.Draft.MakePick(ctx, service.MakePickInput{
		LeagueID: f.league.ID,
		Actor:    f.managers[0].ID,
		Round:    1,
		Position: 1,
		PlayerID: f.players[0].ID,
	})
	require.NoError(t, err)
	pick := second.ExpectPickMade(wsTimeout)
	assert.Equal(t, 1, pick.Round)
}
