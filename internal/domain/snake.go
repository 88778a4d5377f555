package domain

// Snake-order arithmetic. Odd rounds run position 1..N, even rounds run N..1,
// so the manager picking last in round k picks first in round k+1. All
// functions here are total and side-effect free: they are evaluated on every
// poll tick by the draft service, the auto-draft controller, and the mock
// draft simulator.

// GlobalPickNumber maps (round, position) to the 1-based overall pick number.
func GlobalPickNumber(round, position, managerCount int) int {
	return (round-1)*managerCount + position
}

// RoundAndPickIndex maps a count of picks already made to the current round
// (1-based) and the 0-based pick index within that round. A managerCount of
// zero short-circuits to a neutral result: no picks are possible.
func RoundAndPickIndex(totalPicks, managerCount int) (round, pickIndex int) {
	if managerCount <= 0 {
		return 0, 0
	}
	return totalPicks/managerCount + 1, totalPicks % managerCount
}

// CurrentPosition resolves the 1-based order position on the clock for the
// given round and 0-based pick index.
func CurrentPosition(round, pickIndex, managerCount int) int {
	if managerCount <= 0 {
		return 0
	}
	if round%2 == 0 {
		return managerCount - pickIndex
	}
	return pickIndex + 1
}

// CurrentTurn combines RoundAndPickIndex and CurrentPosition.
func CurrentTurn(totalPicks, managerCount int) (round, position int) {
	round, pickIndex := RoundAndPickIndex(totalPicks, managerCount)
	if round == 0 {
		return 0, 0
	}
	return round, CurrentPosition(round, pickIndex, managerCount)
}

// TeamForPick is the 0-based variant used by the mock draft simulator: it
// returns the team index on the clock for a 0-based pick index. It agrees
// with CurrentPosition at every boundary (team index == position-1).
func TeamForPick(round, pickIndex, teams int) int {
	if teams <= 0 {
		return 0
	}
	if round%2 == 0 {
		return teams - 1 - pickIndex
	}
	return pickIndex
}

// SlotRef identifies one slot in the full snake enumeration.
type SlotRef struct {
	Round    int
	Position int
}

// SlotOrder enumerates every (round, position) slot of a draft in snake
// order. The index in the returned slice is the global ordering used for
// deterministic bulk assignment.
func SlotOrder(rounds, managerCount int) []SlotRef {
	if rounds <= 0 || managerCount <= 0 {
		return nil
	}
	slots := make([]SlotRef, 0, rounds*managerCount)
	for round := 1; round <= rounds; round++ {
		for pickIndex := 0; pickIndex < managerCount; pickIndex++ {
			slots = append(slots, SlotRef{
				Round:    round,
				Position: CurrentPosition(round, pickIndex, managerCount),
			})
		}
	}
	return slots
}
