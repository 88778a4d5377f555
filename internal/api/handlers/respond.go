package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondDomainError maps the domain error taxonomy onto HTTP statuses:
// missing resources are 404, state and ordering conflicts are 409, and
// configuration problems the client can fix are 422.
func respondDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrLeagueNotFound),
		errors.Is(err, domain.ErrManagerNotFound),
		errors.Is(err, domain.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTurnViolation),
		errors.Is(err, domain.ErrSlotAlreadyFilled),
		errors.Is(err, domain.ErrPlayerTaken),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrDraftComplete),
		errors.Is(err, domain.ErrLeagueFull):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidConfiguration),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInsufficientPlayers),
		errors.Is(err, domain.ErrManagerAssignmentMissing):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		log.Printf("ERROR [handlers] %v", err)
		respondJSON(w, status, errorResponse{Error: "Internal server error"})
		return
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}
