package websocket

import (
	"sync"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/google/uuid"
)

// Emitter bridges the services' change notifications onto league rooms. It
// is constructed before the hub (the services need a notifier at wiring
// time) and bound to the hub once it exists; notifications before Bind or
// for leagues with no open room are dropped.
type Emitter struct {
	mu  sync.RWMutex
	hub *Hub
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

func (e *Emitter) Bind(hub *Hub) {
	e.mu.Lock()
	e.hub = hub
	e.mu.Unlock()
}

func (e *Emitter) room(leagueID uuid.UUID) *Room {
	e.mu.RLock()
	hub := e.hub
	e.mu.RUnlock()
	if hub == nil {
		return nil
	}
	return hub.GetRoom(leagueID)
}

func (e *Emitter) emit(leagueID uuid.UUID, msgType MessageType, payload interface{}) {
	room := e.room(leagueID)
	if room == nil {
		return
	}
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return
	}
	room.Broadcast(msg)
}

var _ service.Notifier = (*Emitter)(nil)

func (e *Emitter) DraftStarted(leagueID uuid.UUID, snapshot *service.DraftSnapshot) {
	e.emit(leagueID, MessageTypeDraftStarted, snapshot)
}

func (e *Emitter) DraftPaused(leagueID uuid.UUID, snapshot *service.DraftSnapshot) {
	e.emit(leagueID, MessageTypeDraftPaused, snapshot)
}

func (e *Emitter) DraftResumed(leagueID uuid.UUID, snapshot *service.DraftSnapshot) {
	e.emit(leagueID, MessageTypeDraftResumed, snapshot)
}

func (e *Emitter) DraftReset(leagueID uuid.UUID) {
	e.emit(leagueID, MessageTypeDraftReset, struct{}{})
}

func (e *Emitter) DraftCompleted(leagueID uuid.UUID, snapshot *service.DraftSnapshot) {
	e.emit(leagueID, MessageTypeDraftCompleted, snapshot)
}

func (e *Emitter) PickMade(leagueID uuid.UUID, pick *domain.DraftPick, snapshot *service.DraftSnapshot) {
	e.emit(leagueID, MessageTypePickMade, struct {
		Pick     PickMadePayload        `json:"pick"`
		Snapshot *service.DraftSnapshot `json:"snapshot"`
	}{
		Pick: PickMadePayload{
			PickID:      pick.ID,
			Round:       pick.Round,
			Position:    pick.Position,
			ManagerID:   pick.ManagerID,
			PlayerID:    pick.PlayerID,
			IsAutoDraft: pick.IsAutoDraft,
		},
		Snapshot: snapshot,
	})
}

func (e *Emitter) OrderRandomized(leagueID uuid.UUID, slots []*domain.DraftOrderSlot) {
	payload := OrderRandomizedPayload{Slots: make([]OrderSlotPayload, len(slots))}
	for i, slot := range slots {
		payload.Slots[i] = OrderSlotPayload{
			Position:         slot.Position,
			ManagerID:        slot.ManagerID,
			AutoDraftEnabled: slot.AutoDraftEnabled,
		}
	}
	e.emit(leagueID, MessageTypeOrderRandomized, payload)
}

func (e *Emitter) ClockReset(leagueID uuid.UUID, snapshot *service.DraftSnapshot) {
	e.emit(leagueID, MessageTypeClockReset, snapshot)
}
