package service

import (
	"github.com/dom/fantasy-cricket-draft/internal/config"
	"github.com/dom/fantasy-cricket-draft/internal/repository"
)

type Services struct {
	League       *LeagueService
	Draft        *DraftService
	Roster       *RosterService
	AutoDraft    *AutoDraftController
	AutoComplete *AutoCompleteService
	Ranker       Ranker
}

func NewServices(repos *repository.Repositories, cfg *config.Config, notifier Notifier) *Services {
	ranker := NewRatingRanker()
	rosterSvc := NewRosterService(repos, ranker)
	draftSvc := NewDraftService(repos, rosterSvc, notifier)
	autoDraft := NewAutoDraftController(repos, draftSvc, ranker)
	if cfg.AutoDraftTick > 0 {
		autoDraft.tick = cfg.AutoDraftTick
	}
	return &Services{
		League:       NewLeagueService(repos, cfg),
		Draft:        draftSvc,
		Roster:       rosterSvc,
		AutoDraft:    autoDraft,
		AutoComplete: NewAutoCompleteService(repos, draftSvc, rosterSvc, ranker, notifier),
		Ranker:       ranker,
	}
}
