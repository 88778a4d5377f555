package domain

import (
	"time"

	"github.com/google/uuid"
)

type DraftStatus string

const (
	DraftStatusPreDraft  DraftStatus = "pre_draft"
	DraftStatusActive    DraftStatus = "active"
	DraftStatusPaused    DraftStatus = "paused"
	DraftStatusCompleted DraftStatus = "completed"
)

// DraftState is the singleton per-league lifecycle record. PausedAt is
// non-nil only while Status is paused; TotalPausedMs accumulates pause time
// within the current turn and is re-zeroed when the clock re-anchors.
type DraftState struct {
	ID            uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LeagueID      uuid.UUID   `json:"leagueId" gorm:"type:uuid;uniqueIndex;not null"`
	Status        DraftStatus `json:"status" gorm:"not null;default:'pre_draft'"`
	LastPickAt    *time.Time  `json:"lastPickAt"`
	PausedAt      *time.Time  `json:"pausedAt"`
	TotalPausedMs int64       `json:"totalPausedMs" gorm:"not null;default:0"`
	UpdatedAt     time.Time   `json:"updatedAt"`

	// Relations
	League *League `json:"league,omitempty" gorm:"foreignKey:LeagueID"`
}

// DraftOrderSlot binds a snake-order position to a manager. Slots are created
// once at league configuration time and only ever rebound or reset.
type DraftOrderSlot struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LeagueID         uuid.UUID  `json:"leagueId" gorm:"type:uuid;not null;uniqueIndex:idx_order_league_position"`
	Position         int        `json:"position" gorm:"not null;uniqueIndex:idx_order_league_position"`
	ManagerID        *uuid.UUID `json:"managerId" gorm:"type:uuid"`
	AutoDraftEnabled bool       `json:"autoDraftEnabled" gorm:"not null;default:false"`

	// Relations
	Manager *Manager `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
}

// DraftPick records one committed selection. The unique index on
// (league_id, round, position) is the arbiter for racing commits: the second
// insert for the same slot is rejected by the database.
type DraftPick struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LeagueID    uuid.UUID  `json:"leagueId" gorm:"type:uuid;not null;uniqueIndex:idx_pick_league_round_position"`
	Round       int        `json:"round" gorm:"not null;uniqueIndex:idx_pick_league_round_position"`
	Position    int        `json:"position" gorm:"not null;uniqueIndex:idx_pick_league_round_position"`
	ManagerID   *uuid.UUID `json:"managerId" gorm:"type:uuid"`
	PlayerID    *uuid.UUID `json:"playerId" gorm:"type:uuid;index"`
	IsAutoDraft bool       `json:"isAutoDraft" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"createdAt"`

	// Relations
	Player *Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}

// GlobalNumber is the derived overall pick number; it is never stored.
func (p *DraftPick) GlobalNumber(managerCount int) int {
	return GlobalPickNumber(p.Round, p.Position, managerCount)
}
