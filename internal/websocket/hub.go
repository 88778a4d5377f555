package websocket

import (
	"log"
	"sync"

	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/google/uuid"
)

// Hub tracks every connected client and the per-league rooms. Rooms are
// created lazily on first join and torn down with the hub.
type Hub struct {
	rooms      map[uuid.UUID]*Room
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	joinLeague chan *JoinLeagueRequest
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	draftSvc   *service.DraftService
	mu         sync.RWMutex
}

type JoinLeagueRequest struct {
	Client   *Client
	LeagueID uuid.UUID
}

func NewHub(draftSvc *service.DraftService) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]*Room),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		joinLeague: make(chan *JoinLeagueRequest),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		draftSvc:   draftSvc,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			rooms := make([]*Room, 0, len(h.rooms))
			for _, room := range h.rooms {
				rooms = append(rooms, room)
			}
			h.mu.Unlock()

			for _, room := range rooms {
				room.Stop()
			}
			for _, room := range rooms {
				room.Wait()
			}

			// No rooms are running; safe to close client channels.
			h.mu.Lock()
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.rooms = make(map[uuid.UUID]*Room)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					client.Close()

					if client.room != nil {
						client.room.leave <- client
					}
				}
			}
			h.mu.Unlock()

		case req := <-h.joinLeague:
			h.mu.Lock()
			stopped := h.stopped
			h.mu.Unlock()
			if !stopped {
				h.handleJoinLeague(req)
			}
		}
	}
}

// Stop gracefully shuts down the hub and all its rooms. It blocks until
// every room has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) handleJoinLeague(req *JoinLeagueRequest) {
	if req.Client.room != nil {
		req.Client.room.leave <- req.Client
		req.Client.room = nil
	}

	room := h.getOrCreateRoom(req.LeagueID)
	req.Client.room = room
	room.join <- req.Client
}

func (h *Hub) getOrCreateRoom(leagueID uuid.UUID) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[leagueID]; ok {
		return room
	}
	room := NewRoom(leagueID, h.draftSvc)
	h.rooms[leagueID] = room
	go room.Run()
	log.Printf("opened draft room for league %s", leagueID)
	return room
}

// GetRoom returns the league's room if one is open, without creating it.
func (h *Hub) GetRoom(leagueID uuid.UUID) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[leagueID]
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister safely unregisters a client, tolerating a stopping hub.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}
