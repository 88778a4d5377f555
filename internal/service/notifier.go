package service

import (
	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/google/uuid"
)

// Notifier is the change-notification boundary. Services call it after every
// state mutation; the websocket layer implements it. Services never import
// the transport.
type Notifier interface {
	DraftStarted(leagueID uuid.UUID, snapshot *DraftSnapshot)
	DraftPaused(leagueID uuid.UUID, snapshot *DraftSnapshot)
	DraftResumed(leagueID uuid.UUID, snapshot *DraftSnapshot)
	DraftReset(leagueID uuid.UUID)
	DraftCompleted(leagueID uuid.UUID, snapshot *DraftSnapshot)
	PickMade(leagueID uuid.UUID, pick *domain.DraftPick, snapshot *DraftSnapshot)
	OrderRandomized(leagueID uuid.UUID, slots []*domain.DraftOrderSlot)
	ClockReset(leagueID uuid.UUID, snapshot *DraftSnapshot)
}

// NopNotifier discards every notification. Used by tests and the CLI.
type NopNotifier struct{}

func (NopNotifier) DraftStarted(uuid.UUID, *DraftSnapshot)                {}
func (NopNotifier) DraftPaused(uuid.UUID, *DraftSnapshot)                 {}
func (NopNotifier) DraftResumed(uuid.UUID, *DraftSnapshot)                {}
func (NopNotifier) DraftReset(uuid.UUID)                                  {}
func (NopNotifier) DraftCompleted(uuid.UUID, *DraftSnapshot)              {}
func (NopNotifier) PickMade(uuid.UUID, *domain.DraftPick, *DraftSnapshot) {}
func (NopNotifier) OrderRandomized(uuid.UUID, []*domain.DraftOrderSlot)   {}
func (NopNotifier) ClockReset(uuid.UUID, *DraftSnapshot)                  {}
