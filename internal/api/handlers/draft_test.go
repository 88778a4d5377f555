package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/fantasy-cricket-draft/internal/api/handlers"
	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/dom/fantasy-cricket-draft/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// httpFixture drives a league through the public API: create, seed players,
// join managers, and bind seats, all over HTTP.
type httpFixture struct {
	ts       *testutil.TestServer
	client   *http.Client
	admin    uuid.UUID
	league   handlers.LeagueResponse
	managers []domain.Manager
	players  []*domain.Player
}

func (f *httpFixture) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *httpFixture) leagueURL(path string) string {
	return f.ts.APIURL(fmt.Sprintf("/leagues/%s%s", f.league.ID, path))
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()

	f := &httpFixture{
		ts:     testutil.NewTestServer(t),
		client: http.DefaultClient,
		admin:  uuid.New(),
	}

	// Small roster keeps the full draft at 3 rounds / 12 picks.
	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.ts.APIURL("/leagues"), handlers.CreateLeagueRequest{
		Name:         "HTTP Flow League",
		ManagerCount: 4,
		ClockSeconds: 60,
		Quotas: &domain.RosterQuotas{
			ActiveSize: 2, BenchSize: 1,
			MaxBatsmen: 2, MaxOverseas: 2,
		},
	}, f.admin)
	resp := f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	testutil.AssertJSONResponse(t, resp, &f.league)
	require.Equal(t, 3, f.league.TotalRounds)
	require.NotEmpty(t, f.league.ShortCode)

	// Seed a graded pool through the administrative endpoint.
	roles := []domain.PlayerRole{
		domain.RoleBatsman, domain.RoleBowler, domain.RoleWicketKeeper,
		domain.RoleAllRounder, domain.RoleBatsman, domain.RoleBowler,
	}
	pool := make([]*domain.Player, 30)
	for i := range pool {
		pool[i] = &domain.Player{
			ID:         uuid.New(),
			Name:       fmt.Sprintf("Player %03d", i+1),
			Team:       fmt.Sprintf("Team %d", i%8+1),
			Role:       roles[i%len(roles)],
			IsOverseas: i%3 == 0,
			Rating:     1000 - i,
		}
	}
	f.players = pool
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.ts.APIURL("/players"),
		handlers.SeedPlayersRequest{Players: pool}, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// Four managers join and take seats 1..4.
	for i := 0; i < 4; i++ {
		req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/join"),
			handlers.JoinLeagueRequest{DisplayName: fmt.Sprintf("Manager %d", i+1)}, f.admin)
		resp = f.do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)

		var manager domain.Manager
		testutil.AssertJSONResponse(t, resp, &manager)
		f.managers = append(f.managers, manager)

		req = testutil.CreateAuthenticatedRequest(t, http.MethodPut, f.leagueURL("/order"),
			handlers.AssignOrderSlotRequest{Position: i + 1, ManagerID: manager.ID.String()}, f.admin)
		resp = f.do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	}

	return f
}

func TestDraftAPI_FullFlow(t *testing.T) {
	f := newHTTPFixture(t)

	// Pre-draft state is visible before starting.
	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, f.leagueURL("/draft"), nil, f.admin)
	resp := f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var snap service.DraftSnapshot
	testutil.AssertJSONResponse(t, resp, &snap)
	assert.Equal(t, domain.DraftStatusPreDraft, snap.Status)

	// Picking before the draft starts is a state conflict.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/pick"), handlers.MakePickRequest{
		Round: 1, Position: 1, PlayerID: f.players[0].ID.String(),
	}, f.managers[0].ID)
	resp = f.do(t, req)
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "invalid draft state transition")

	// Start.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/start"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &snap)
	assert.Equal(t, domain.DraftStatusActive, snap.Status)
	assert.Equal(t, 12, snap.TotalPicks)
	require.NotNil(t, snap.Turn)
	assert.Equal(t, f.managers[0].ID, *snap.Turn.ManagerID)

	// An out-of-turn pick is rejected.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/pick"), handlers.MakePickRequest{
		Round: 1, Position: 2, PlayerID: f.players[0].ID.String(),
	}, f.managers[1].ID)
	resp = f.do(t, req)
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "not this manager's turn")

	// The manager on the clock commits the first pick.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/pick"), handlers.MakePickRequest{
		Round: 1, Position: 1, PlayerID: f.players[0].ID.String(),
	}, f.managers[0].ID)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	var pick domain.DraftPick
	testutil.AssertJSONResponse(t, resp, &pick)
	assert.Equal(t, 1, pick.Round)
	assert.Equal(t, 1, pick.Position)

	// The drafted player disappears from the available pool.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodGet, f.leagueURL("/players"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var available []*domain.Player
	testutil.AssertJSONResponse(t, resp, &available)
	require.Len(t, available, 29)
	ids := make([]uuid.UUID, len(available))
	for i, p := range available {
		ids[i] = p.ID
	}
	testutil.AssertNotContainsPlayer(t, ids, f.players[0].ID)

	// Replaying the same slot conflicts, as does re-drafting the player.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/pick"), handlers.MakePickRequest{
		Round: 1, Position: 1, PlayerID: f.players[1].ID.String(),
	}, f.managers[0].ID)
	resp = f.do(t, req)
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "already been picked")

	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/pick"), handlers.MakePickRequest{
		Round: 1, Position: 2, PlayerID: f.players[0].ID.String(),
	}, f.managers[1].ID)
	resp = f.do(t, req)
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "already been drafted")

	// Bulk-complete the rest and verify rosters exist for every manager.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/auto-complete"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var report service.CompletionReport
	testutil.AssertJSONResponse(t, resp, &report)
	assert.Equal(t, 11, report.PicksAssigned)
	assert.True(t, report.FullyFinalized)

	req = testutil.CreateAuthenticatedRequest(t, http.MethodGet, f.leagueURL("/draft/picks"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var picks []*domain.DraftPick
	testutil.AssertJSONResponse(t, resp, &picks)
	assert.Len(t, picks, 12)

	for _, m := range f.managers {
		req = testutil.CreateAuthenticatedRequest(t, http.MethodGet,
			f.leagueURL("/rosters/"+m.ID.String()), nil, f.admin)
		resp = f.do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	}
}

func TestDraftAPI_PauseResume(t *testing.T) {
	f := newHTTPFixture(t)

	// Pausing before the draft starts is rejected.
	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/pause"), nil, f.admin)
	resp := f.do(t, req)
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "invalid draft state transition")

	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/start"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/pause"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var snap service.DraftSnapshot
	testutil.AssertJSONResponse(t, resp, &snap)
	assert.Equal(t, domain.DraftStatusPaused, snap.Status)

	// Picks bounce off a paused draft.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/pick"), handlers.MakePickRequest{
		Round: 1, Position: 1, PlayerID: f.players[0].ID.String(),
	}, f.managers[0].ID)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusConflict)

	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/resume"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &snap)
	assert.Equal(t, domain.DraftStatusActive, snap.Status)

	// A clock reset restores the full countdown.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/reset-clock"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &snap)
	assert.Equal(t, int64(60_000), snap.RemainingMs)
}

func TestDraftAPI_ResetAndRandomize(t *testing.T) {
	f := newHTTPFixture(t)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/start"), nil, f.admin)
	resp := f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/reset"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// Reset unbinds every seat.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodGet, f.leagueURL("/order"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var slots []*domain.DraftOrderSlot
	testutil.AssertJSONResponse(t, resp, &slots)
	require.Len(t, slots, 4)
	for _, slot := range slots {
		assert.Nil(t, slot.ManagerID)
	}

	// Starting with unbound seats is a configuration problem.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/start"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertErrorResponse(t, resp, http.StatusUnprocessableEntity, "unassigned positions")

	// Randomize rebinds all four managers.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/order/randomize"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &slots)
	for _, slot := range slots {
		assert.NotNil(t, slot.ManagerID)
	}

	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/draft/start"), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}

func TestDraftAPI_NotFoundAndIdentity(t *testing.T) {
	ts := testutil.NewTestServer(t)

	// Unknown leagues 404 by ID or short code.
	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet,
		ts.APIURL("/leagues/"+uuid.NewString()), nil, uuid.New())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "league not found")

	// Requests without any identity are rejected before routing.
	plain, err := http.NewRequest(http.MethodPost, ts.APIURL("/leagues"), nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(plain)
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}

func TestDraftAPI_LeagueFullAndShortCodeLookup(t *testing.T) {
	f := newHTTPFixture(t)

	// A fifth join exceeds the configured seat count.
	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, f.leagueURL("/join"),
		handlers.JoinLeagueRequest{DisplayName: "Latecomer"}, f.admin)
	resp := f.do(t, req)
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "full manager count")

	// The league resolves by its short code too.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodGet,
		f.ts.APIURL("/leagues/"+f.league.ShortCode), nil, f.admin)
	resp = f.do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var byCode handlers.LeagueResponse
	testutil.AssertJSONResponse(t, resp, &byCode)
	assert.Equal(t, f.league.ID, byCode.ID)
}
