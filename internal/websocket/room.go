package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/google/uuid"
)

const clockTickInterval = time.Second

// Room is the broadcast group for one league. It owns no draft state: the
// services layer is authoritative, and the room re-reads a snapshot whenever
// it needs one (join sync, explicit sync request, clock ticks).
type Room struct {
	leagueID uuid.UUID
	draftSvc *service.DraftService
	clients  map[*Client]bool

	join      chan *Client
	leave     chan *Client
	broadcast chan *Message
	syncState chan *Client
	stop      chan struct{}
	done      chan struct{}
}

func NewRoom(leagueID uuid.UUID, draftSvc *service.DraftService) *Room {
	return &Room{
		leagueID:  leagueID,
		draftSvc:  draftSvc,
		clients:   make(map[*Client]bool),
		join:      make(chan *Client),
		leave:     make(chan *Client),
		broadcast: make(chan *Message, 64),
		syncState: make(chan *Client),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (r *Room) Run() {
	defer close(r.done)

	ticker := time.NewTicker(clockTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			for client := range r.clients {
				client.room = nil
			}
			r.clients = make(map[*Client]bool)
			return

		case client := <-r.join:
			r.clients[client] = true
			r.sendSnapshot(client)

		case client := <-r.leave:
			delete(r.clients, client)

		case client := <-r.syncState:
			r.sendSnapshot(client)

		case msg := <-r.broadcast:
			r.broadcastLocked(msg)

		case <-ticker.C:
			r.tickClock()
		}
	}
}

func (r *Room) Stop() {
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
}

func (r *Room) Wait() {
	<-r.done
}

// Broadcast queues a message for every client in the room. Safe to call from
// any goroutine; drops the message if the room is shutting down.
func (r *Room) Broadcast(msg *Message) {
	select {
	case r.broadcast <- msg:
	case <-r.stop:
	}
}

func (r *Room) broadcastLocked(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal broadcast: %v", err)
		return
	}
	for client := range r.clients {
		client.trySend(data)
	}
}

func (r *Room) sendSnapshot(client *Client) {
	snap, err := r.draftSvc.Snapshot(context.Background(), r.leagueID)
	if err != nil {
		client.sendError("SYNC_FAILED", "Could not load draft state")
		return
	}
	msg, err := NewMessage(MessageTypeStateSync, snap)
	if err != nil {
		return
	}
	client.Send(msg)
}

// tickClock broadcasts the countdown once a second while the draft is active
// and anyone is listening.
func (r *Room) tickClock() {
	if len(r.clients) == 0 {
		return
	}
	snap, err := r.draftSvc.Snapshot(context.Background(), r.leagueID)
	if err != nil || snap.Status != domain.DraftStatusActive {
		return
	}
	msg, err := NewMessage(MessageTypeClockTick, ClockTickPayload{RemainingMs: snap.RemainingMs})
	if err != nil {
		return
	}
	r.broadcastLocked(msg)
}
