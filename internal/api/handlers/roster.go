package handlers

import (
	"net/http"

	"github.com/dom/fantasy-cricket-draft/internal/repository"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type RosterHandler struct {
	leagueService *service.LeagueService
	rosterService *service.RosterService
	rosterRepo    repository.RosterRepository
}

func NewRosterHandler(leagueService *service.LeagueService, rosterService *service.RosterService, rosterRepo repository.RosterRepository) *RosterHandler {
	return &RosterHandler{
		leagueService: leagueService,
		rosterService: rosterService,
		rosterRepo:    rosterRepo,
	}
}

func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	rosters, err := h.rosterRepo.GetByLeague(r.Context(), league.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rosters)
}

func (h *RosterHandler) GetForManager(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	managerID, err := uuid.Parse(chi.URLParam(r, "managerId"))
	if err != nil {
		http.Error(w, "Invalid manager ID", http.StatusBadRequest)
		return
	}
	roster, err := h.rosterRepo.GetByManager(r.Context(), league.ID, managerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, roster)
}

// Optimize re-runs the roster optimizer for one manager. Useful after
// administrative corrections to the player catalog.
func (h *RosterHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	managerID, err := uuid.Parse(chi.URLParam(r, "managerId"))
	if err != nil {
		http.Error(w, "Invalid manager ID", http.StatusBadRequest)
		return
	}
	roster, err := h.rosterService.Optimize(r.Context(), league.ID, managerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, roster)
}
