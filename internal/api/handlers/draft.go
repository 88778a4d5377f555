package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/fantasy-cricket-draft/internal/api/middleware"
	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/repository"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type DraftHandler struct {
	leagueService *service.LeagueService
	draftService  *service.DraftService
	autoComplete  *service.AutoCompleteService
	pickRepo      repository.DraftPickRepository
}

func NewDraftHandler(
	leagueService *service.LeagueService,
	draftService *service.DraftService,
	autoComplete *service.AutoCompleteService,
	pickRepo repository.DraftPickRepository,
) *DraftHandler {
	return &DraftHandler{
		leagueService: leagueService,
		draftService:  draftService,
		autoComplete:  autoComplete,
		pickRepo:      pickRepo,
	}
}

func (h *DraftHandler) resolveLeague(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return uuid.Nil, false
	}
	return league.ID, true
}

func (h *DraftHandler) Start(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.resolveLeague(w, r)
	if !ok {
		return
	}
	snap, err := h.draftService.Start(r.Context(), leagueID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *DraftHandler) Pause(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.resolveLeague(w, r)
	if !ok {
		return
	}
	snap, err := h.draftService.Pause(r.Context(), leagueID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *DraftHandler) Resume(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.resolveLeague(w, r)
	if !ok {
		return
	}
	snap, err := h.draftService.Resume(r.Context(), leagueID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *DraftHandler) ResetClock(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.resolveLeague(w, r)
	if !ok {
		return
	}
	snap, err := h.draftService.ResetClock(r.Context(), leagueID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *DraftHandler) Reset(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.resolveLeague(w, r)
	if !ok {
		return
	}
	if err := h.draftService.Reset(r.Context(), leagueID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(domain.DraftStatusPreDraft)})
}

func (h *DraftHandler) RandomizeOrder(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.resolveLeague(w, r)
	if !ok {
		return
	}
	slots, err := h.draftService.RandomizeOrder(r.Context(), leagueID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slots)
}

type MakePickRequest struct {
	Round    int    `json:"round"`
	Position int    `json:"position"`
	PlayerID string `json:"playerId"`
}

func (h *DraftHandler) MakePick(w http.ResponseWriter, r *http.Request) {
	managerID, ok := middleware.GetManagerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	leagueID, ok := h.resolveLeague(w, r)
	if !ok {
		return
	}

	var req MakePickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return
	}

	pick, err := h.draftService.MakePick(r.Context(), service.MakePickInput{
		LeagueID: leagueID,
		Actor:    managerID,
		Round:    req.Round,
		Position: req.Position,
		PlayerID: playerID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, pick)
}

func (h *DraftHandler) State(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.resolveLeague(w, r)
	if !ok {
		return
	}
	snap, err := h.draftService.Snapshot(r.Context(), leagueID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *DraftHandler) Picks(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.resolveLeague(w, r)
	if !ok {
		return
	}
	picks, err := h.pickRepo.GetByLeague(r.Context(), leagueID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, picks)
}

func (h *DraftHandler) AutoComplete(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.resolveLeague(w, r)
	if !ok {
		return
	}
	report, err := h.autoComplete.Complete(r.Context(), leagueID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
