package domain

import (
	"github.com/google/uuid"
)

type PlayerRole string

const (
	RoleBatsman      PlayerRole = "batsman"
	RoleBowler       PlayerRole = "bowler"
	RoleWicketKeeper PlayerRole = "wicket_keeper"
	RoleAllRounder   PlayerRole = "all_rounder"
)

// ValidRoles lists every player role in quota-precedence order.
var ValidRoles = []PlayerRole{RoleWicketKeeper, RoleAllRounder, RoleBowler, RoleBatsman}

func (r PlayerRole) Valid() bool {
	switch r {
	case RoleBatsman, RoleBowler, RoleWicketKeeper, RoleAllRounder:
		return true
	}
	return false
}

// Player is read-only reference data for the duration of a draft.
type Player struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name       string     `json:"name" gorm:"not null"`
	Team       string     `json:"team" gorm:"not null"`
	Role       PlayerRole `json:"role" gorm:"not null;index"`
	IsOverseas bool       `json:"isOverseas" gorm:"not null;default:false"`
	Rating     int        `json:"rating" gorm:"not null;default:0;index"`
}
