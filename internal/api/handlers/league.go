package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/fantasy-cricket-draft/internal/api/middleware"
	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type LeagueHandler struct {
	leagueService *service.LeagueService
}

func NewLeagueHandler(leagueService *service.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: leagueService}
}

type CreateLeagueRequest struct {
	Name         string               `json:"name"`
	ManagerCount int                  `json:"managerCount"`
	ClockSeconds int                  `json:"clockSeconds"`
	Quotas       *domain.RosterQuotas `json:"quotas,omitempty"`
}

type LeagueResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	ShortCode    string              `json:"shortCode"`
	ManagerCount int                 `json:"managerCount"`
	ClockSeconds int                 `json:"clockSeconds"`
	TotalRounds  int                 `json:"totalRounds"`
	Quotas       domain.RosterQuotas `json:"quotas"`
}

func leagueResponse(league *domain.League) LeagueResponse {
	return LeagueResponse{
		ID:           league.ID.String(),
		Name:         league.Name,
		ShortCode:    league.ShortCode,
		ManagerCount: league.ManagerCount,
		ClockSeconds: league.ClockSeconds,
		TotalRounds:  league.TotalRounds(),
		Quotas:       league.Quotas(),
	}
}

func (h *LeagueHandler) Create(w http.ResponseWriter, r *http.Request) {
	managerID, ok := middleware.GetManagerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateLeagueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	league, err := h.leagueService.CreateLeague(r.Context(), service.CreateLeagueInput{
		Name:         req.Name,
		CreatedBy:    managerID,
		ManagerCount: req.ManagerCount,
		ClockSeconds: req.ClockSeconds,
		Quotas:       req.Quotas,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, leagueResponse(league))
}

func (h *LeagueHandler) Get(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, leagueResponse(league))
}

type JoinLeagueRequest struct {
	DisplayName string `json:"displayName"`
	IsBot       bool   `json:"isBot"`
}

func (h *LeagueHandler) Join(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req JoinLeagueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	manager, err := h.leagueService.JoinLeague(r.Context(), service.JoinLeagueInput{
		LeagueID:    league.ID,
		DisplayName: req.DisplayName,
		IsBot:       req.IsBot,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, manager)
}

func (h *LeagueHandler) Managers(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	managers, err := h.leagueService.Managers(r.Context(), league.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, managers)
}

func (h *LeagueHandler) Order(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	slots, err := h.leagueService.DraftOrder(r.Context(), league.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slots)
}

type AssignOrderSlotRequest struct {
	Position  int    `json:"position"`
	ManagerID string `json:"managerId"`
}

func (h *LeagueHandler) AssignOrderSlot(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req AssignOrderSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		http.Error(w, "Invalid manager ID", http.StatusBadRequest)
		return
	}

	slot, err := h.leagueService.AssignOrderSlot(r.Context(), league.ID, req.Position, managerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slot)
}

type SetAutoDraftRequest struct {
	Position int  `json:"position"`
	Enabled  bool `json:"enabled"`
}

func (h *LeagueHandler) SetAutoDraft(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req SetAutoDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slot, err := h.leagueService.SetAutoDraft(r.Context(), league.ID, req.Position, req.Enabled)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slot)
}

func (h *LeagueHandler) AvailablePlayers(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	players, err := h.leagueService.AvailablePlayers(r.Context(), league.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

type SeedPlayersRequest struct {
	Players []*domain.Player `json:"players"`
}

func (h *LeagueHandler) SeedPlayers(w http.ResponseWriter, r *http.Request) {
	var req SeedPlayersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.leagueService.SeedPlayers(r.Context(), req.Players); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"seeded": len(req.Players)})
}
