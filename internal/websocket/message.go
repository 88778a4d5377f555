package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	// Client to Server
	MessageTypeJoinLeague MessageType = "JOIN_LEAGUE"
	MessageTypeSyncState  MessageType = "SYNC_STATE"

	// Server to Client
	MessageTypeStateSync       MessageType = "STATE_SYNC"
	MessageTypeDraftStarted    MessageType = "DRAFT_STARTED"
	MessageTypeDraftPaused     MessageType = "DRAFT_PAUSED"
	MessageTypeDraftResumed    MessageType = "DRAFT_RESUMED"
	MessageTypeDraftReset      MessageType = "DRAFT_RESET"
	MessageTypeDraftCompleted  MessageType = "DRAFT_COMPLETED"
	MessageTypePickMade        MessageType = "PICK_MADE"
	MessageTypeOrderRandomized MessageType = "ORDER_RANDOMIZED"
	MessageTypeClockReset      MessageType = "CLOCK_RESET"
	MessageTypeClockTick       MessageType = "CLOCK_TICK"
	MessageTypeError           MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type JoinLeaguePayload struct {
	LeagueID string `json:"leagueId"`
}

// Server to Client payloads

type PickMadePayload struct {
	PickID      uuid.UUID  `json:"pickId"`
	Round       int        `json:"round"`
	Position    int        `json:"position"`
	ManagerID   *uuid.UUID `json:"managerId"`
	PlayerID    *uuid.UUID `json:"playerId"`
	IsAutoDraft bool       `json:"isAutoDraft"`
}

type OrderSlotPayload struct {
	Position         int        `json:"position"`
	ManagerID        *uuid.UUID `json:"managerId"`
	AutoDraftEnabled bool       `json:"autoDraftEnabled"`
}

type OrderRandomizedPayload struct {
	Slots []OrderSlotPayload `json:"slots"`
}

type ClockTickPayload struct {
	RemainingMs int64 `json:"remainingMs"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
