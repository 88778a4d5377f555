package api

import (
	"net/http"

	"github.com/dom/fantasy-cricket-draft/internal/api/handlers"
	"github.com/dom/fantasy-cricket-draft/internal/api/middleware"
	"github.com/dom/fantasy-cricket-draft/internal/config"
	"github.com/dom/fantasy-cricket-draft/internal/repository"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/dom/fantasy-cricket-draft/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub, repos *repository.Repositories, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	leagueHandler := handlers.NewLeagueHandler(services.League)
	draftHandler := handlers.NewDraftHandler(services.League, services.Draft, services.AutoComplete, repos.DraftPick)
	rosterHandler := handlers.NewRosterHandler(services.League, services.Roster, repos.Roster)
	wsHandler := handlers.NewWebSocketHandler(hub)

	allowDevHeader := cfg.Environment == "development"

	r.Route("/api/v1", func(r chi.Router) {
		// Player catalog; seeding is administrative.
		r.Post("/players", leagueHandler.SeedPlayers)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(cfg.JWTSecret, allowDevHeader))

			r.Route("/leagues", func(r chi.Router) {
				r.Post("/", leagueHandler.Create)
				r.Get("/{idOrCode}", leagueHandler.Get)
				r.Post("/{idOrCode}/join", leagueHandler.Join)
				r.Get("/{idOrCode}/managers", leagueHandler.Managers)
				r.Get("/{idOrCode}/players", leagueHandler.AvailablePlayers)

				// Draft order administration
				r.Get("/{idOrCode}/order", leagueHandler.Order)
				r.Put("/{idOrCode}/order", leagueHandler.AssignOrderSlot)
				r.Put("/{idOrCode}/order/auto-draft", leagueHandler.SetAutoDraft)
				r.Post("/{idOrCode}/order/randomize", draftHandler.RandomizeOrder)

				// Draft lifecycle
				r.Route("/{idOrCode}/draft", func(r chi.Router) {
					r.Get("/", draftHandler.State)
					r.Get("/picks", draftHandler.Picks)
					r.Post("/start", draftHandler.Start)
					r.Post("/pause", draftHandler.Pause)
					r.Post("/resume", draftHandler.Resume)
					r.Post("/reset-clock", draftHandler.ResetClock)
					r.Post("/reset", draftHandler.Reset)
					r.Post("/pick", draftHandler.MakePick)
					r.Post("/auto-complete", draftHandler.AutoComplete)
				})

				// Rosters
				r.Route("/{idOrCode}/rosters", func(r chi.Router) {
					r.Get("/", rosterHandler.List)
					r.Get("/{managerId}", rosterHandler.GetForManager)
					r.Post("/{managerId}/optimize", rosterHandler.Optimize)
				})
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
