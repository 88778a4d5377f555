package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RosterQuotas is the positional-quota configuration the optimizer works
// against. Minimums apply to the active partition; MaxOverseas caps overseas
// players in the active partition.
type RosterQuotas struct {
	ActiveSize       int `json:"activeSize"`
	BenchSize        int `json:"benchSize"`
	MinBatsmen       int `json:"minBatsmen"`
	MaxBatsmen       int `json:"maxBatsmen"`
	MinBowlers       int `json:"minBowlers"`
	MinWicketKeepers int `json:"minWicketKeepers"`
	MinAllRounders   int `json:"minAllRounders"`
	MaxOverseas      int `json:"maxOverseas"`
}

// MinForRole returns the active-roster minimum for a role.
func (q RosterQuotas) MinForRole(role PlayerRole) int {
	switch role {
	case RoleBatsman:
		return q.MinBatsmen
	case RoleBowler:
		return q.MinBowlers
	case RoleWicketKeeper:
		return q.MinWicketKeepers
	case RoleAllRounder:
		return q.MinAllRounders
	}
	return 0
}

// RosterAssignment is the persisted active/bench partition for one manager.
// Active and Bench are JSON arrays of player UUIDs; their union always equals
// the manager's full drafted set.
type RosterAssignment struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LeagueID  uuid.UUID      `json:"leagueId" gorm:"type:uuid;not null;uniqueIndex:idx_roster_league_manager"`
	ManagerID uuid.UUID      `json:"managerId" gorm:"type:uuid;not null;uniqueIndex:idx_roster_league_manager"`
	Active    datatypes.JSON `json:"active" gorm:"type:jsonb;default:'[]'"`
	Bench     datatypes.JSON `json:"bench" gorm:"type:jsonb;default:'[]'"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
