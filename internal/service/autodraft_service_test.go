package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoDraft_HumanSeatWithTimeLeftIsUntouched(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	_, err := f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)

	require.NoError(t, f.services.AutoDraft.Evaluate(ctx, f.league.ID))

	snap, err := f.services.Draft.Snapshot(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.PicksMade, "a live human with clock left must not be auto-picked")
}

func TestAutoDraft_ExpiredClockForcesBestAvailable(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	base := time.Now()
	current := base
	f.services.Draft.SetNow(func() time.Time { return current })

	_, err := f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)

	current = base.Add(61 * time.Second)
	require.NoError(t, f.services.AutoDraft.Evaluate(ctx, f.league.ID))

	picks, err := f.services.Draft.Snapshot(ctx, f.league.ID)
	require.NoError(t, err)
	require.Equal(t, 1, picks.PicksMade)

	var pick domain.DraftPick
	require.NoError(t, f.db.DB.Where("league_id = ?", f.league.ID).First(&pick).Error)
	assert.True(t, pick.IsAutoDraft)
	assert.Equal(t, 1, pick.Round)
	assert.Equal(t, 1, pick.Position)
	// Best available is the top-rated player.
	require.NotNil(t, pick.PlayerID)
	assert.Equal(t, f.players[0].ID, *pick.PlayerID)
}

func TestAutoDraft_OptedInSeatPicksImmediately(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	_, err := f.services.League.SetAutoDraft(ctx, f.league.ID, 1, true)
	require.NoError(t, err)
	_, err = f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)

	require.NoError(t, f.services.AutoDraft.Evaluate(ctx, f.league.ID))

	snap, err := f.services.Draft.Snapshot(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.PicksMade, "opted-in seat picks without waiting for the clock")

	// Position 2 is a live human: the very next evaluation must stop there.
	// (The in-flight cooldown also prevents an immediate re-pick.)
	f.services.AutoDraft.Evaluate(ctx, f.league.ID)
	snap, err = f.services.Draft.Snapshot(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.PicksMade)
}

func TestAutoDraft_BotSeatPicksImmediately(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	// Replace seat 1's manager with a bot.
	err := f.db.DB.Model(&domain.Manager{}).
		Where("id = ?", f.managers[0].ID).
		Update("is_bot", true).Error
	require.NoError(t, err)

	_, err = f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)

	require.NoError(t, f.services.AutoDraft.Evaluate(ctx, f.league.ID))

	snap, err := f.services.Draft.Snapshot(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.PicksMade)
}

func TestAutoDraft_PausedDraftIsNeverPicked(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	base := time.Now()
	current := base
	f.services.Draft.SetNow(func() time.Time { return current })

	_, err := f.services.Draft.Start(ctx, f.league.ID)
	require.NoError(t, err)
	_, err = f.services.Draft.Pause(ctx, f.league.ID)
	require.NoError(t, err)

	// Even an expired clock is irrelevant while paused.
	current = base.Add(2 * time.Minute)
	require.NoError(t, f.services.AutoDraft.Evaluate(ctx, f.league.ID))

	snap, err := f.services.Draft.Snapshot(ctx, f.league.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.PicksMade)
}
