package domain

import (
	"time"

	"github.com/google/uuid"
)

// League carries the draft configuration alongside league identity.
// ActiveSize+BenchSize is the total roster cap per manager; the number of
// snake rounds equals that cap.
type League struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name             string    `json:"name" gorm:"not null"`
	ShortCode        string    `json:"shortCode" gorm:"uniqueIndex;not null"`
	CreatedBy        uuid.UUID `json:"createdBy" gorm:"type:uuid;not null"`
	ManagerCount     int       `json:"managerCount" gorm:"not null"`
	ClockSeconds     int       `json:"clockSeconds" gorm:"not null;default:60"`
	ActiveSize       int       `json:"activeSize" gorm:"not null;default:11"`
	BenchSize        int       `json:"benchSize" gorm:"not null;default:4"`
	MinBatsmen       int       `json:"minBatsmen" gorm:"not null;default:3"`
	MaxBatsmen       int       `json:"maxBatsmen" gorm:"not null;default:6"`
	MinBowlers       int       `json:"minBowlers" gorm:"not null;default:3"`
	MinWicketKeepers int       `json:"minWicketKeepers" gorm:"not null;default:1"`
	MinAllRounders   int       `json:"minAllRounders" gorm:"not null;default:1"`
	MaxOverseas      int       `json:"maxOverseas" gorm:"not null;default:4"`
	CreatedAt        time.Time `json:"createdAt"`
}

// TotalRounds is the number of snake rounds: one roster spot per round.
func (l *League) TotalRounds() int {
	return l.ActiveSize + l.BenchSize
}

// TotalPicks is the number of pick slots across the whole draft.
func (l *League) TotalPicks() int {
	return l.TotalRounds() * l.ManagerCount
}

// Quotas extracts the roster quota configuration used by the optimizer and
// the mock draft simulator.
func (l *League) Quotas() RosterQuotas {
	return RosterQuotas{
		ActiveSize:       l.ActiveSize,
		BenchSize:        l.BenchSize,
		MinBatsmen:       l.MinBatsmen,
		MaxBatsmen:       l.MaxBatsmen,
		MinBowlers:       l.MinBowlers,
		MinWicketKeepers: l.MinWicketKeepers,
		MinAllRounders:   l.MinAllRounders,
		MaxOverseas:      l.MaxOverseas,
	}
}

// Validate checks configuration invariants at creation time.
func (l *League) Validate() error {
	if l.ManagerCount < 1 {
		return ErrInvalidConfiguration
	}
	if l.ActiveSize < 0 || l.BenchSize < 0 {
		return ErrInvalidConfiguration
	}
	minimums := l.MinBatsmen + l.MinBowlers + l.MinWicketKeepers + l.MinAllRounders
	if minimums > l.ActiveSize {
		return ErrInvalidConfiguration
	}
	if l.MaxBatsmen < l.MinBatsmen {
		return ErrInvalidConfiguration
	}
	return nil
}

// Manager is a seat-holder in a league. Bot managers are always auto-drafted.
type Manager struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LeagueID    uuid.UUID `json:"leagueId" gorm:"type:uuid;index;not null"`
	DisplayName string    `json:"displayName" gorm:"not null"`
	IsBot       bool      `json:"isBot" gorm:"not null;default:false"`
	JoinedAt    time.Time `json:"joinedAt"`

	// Relations
	League *League `json:"league,omitempty" gorm:"foreignKey:LeagueID"`
}
