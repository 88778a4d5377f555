package domain_test

import (
	"testing"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentTurn_KnownSequence(t *testing.T) {
	// managerCount=4: round 1 ascends 1..4, round 2 descends 4..1, ...
	tests := []struct {
		name         string
		totalPicks   int
		wantRound    int
		wantPosition int
	}{
		{"first pick of draft", 0, 1, 1},
		{"last pick of round 1", 3, 1, 4},
		{"round turnaround: same manager twice", 4, 2, 4},
		{"last pick of round 2", 7, 2, 1},
		{"second turnaround", 8, 3, 1},
		{"mid round 3", 10, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round, position := domain.CurrentTurn(tt.totalPicks, 4)
			assert.Equal(t, tt.wantRound, round)
			assert.Equal(t, tt.wantPosition, position)
		})
	}
}

func TestCurrentTurn_MatchesSimulation(t *testing.T) {
	// The formula must agree with simulating the snake one pick at a time.
	for managerCount := 1; managerCount <= 12; managerCount++ {
		round, pickIndex, direction := 1, 0, 1
		position := 1

		for totalPicks := 0; totalPicks < managerCount*8; totalPicks++ {
			gotRound, gotPosition := domain.CurrentTurn(totalPicks, managerCount)
			require.Equal(t, round, gotRound, "managers=%d picks=%d", managerCount, totalPicks)
			require.Equal(t, position, gotPosition, "managers=%d picks=%d", managerCount, totalPicks)

			// Advance the simulation.
			pickIndex++
			if pickIndex == managerCount {
				pickIndex = 0
				round++
				direction = -direction
			} else {
				position += direction
				continue
			}
			if direction == 1 {
				position = 1
			} else {
				position = managerCount
			}
		}
	}
}

func TestGlobalPickNumber_RoundTrip(t *testing.T) {
	for managerCount := 1; managerCount <= 10; managerCount++ {
		for round := 1; round <= 15; round++ {
			for position := 1; position <= managerCount; position++ {
				global := domain.GlobalPickNumber(round, position, managerCount)
				gotRound, gotIndex := domain.RoundAndPickIndex(global-1, managerCount)
				require.Equal(t, round, gotRound)
				require.Equal(t, position, gotIndex+1)
			}
		}
	}
}

func TestTeamForPick_AgreesWithCurrentPosition(t *testing.T) {
	// The 0-based mock-draft formula and the 1-based formula must always
	// point at the same seat.
	for teams := 1; teams <= 10; teams++ {
		for round := 1; round <= 6; round++ {
			for pickIndex := 0; pickIndex < teams; pickIndex++ {
				position := domain.CurrentPosition(round, pickIndex, teams)
				teamIndex := domain.TeamForPick(round, pickIndex, teams)
				require.Equal(t, position-1, teamIndex,
					"teams=%d round=%d pickIndex=%d", teams, round, pickIndex)
			}
		}
	}
}

func TestSnake_ZeroManagers(t *testing.T) {
	round, position := domain.CurrentTurn(5, 0)
	assert.Zero(t, round)
	assert.Zero(t, position)
	assert.Zero(t, domain.CurrentPosition(1, 0, 0))
	assert.Zero(t, domain.TeamForPick(1, 0, 0))
	assert.Nil(t, domain.SlotOrder(14, 0))
}

func TestSlotOrder(t *testing.T) {
	slots := domain.SlotOrder(2, 3)
	require.Len(t, slots, 6)

	want := []domain.SlotRef{
		{Round: 1, Position: 1},
		{Round: 1, Position: 2},
		{Round: 1, Position: 3},
		{Round: 2, Position: 3},
		{Round: 2, Position: 2},
		{Round: 2, Position: 1},
	}
	assert.Equal(t, want, slots)
}
