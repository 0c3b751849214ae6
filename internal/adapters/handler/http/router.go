package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewHandler(pollHandler *PollHandler, voteHandler *VoteHandler, creatorHandler *CreatorHandler, wsHandler http.Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/polls", func(r chi.Router) {
			r.Post("/", pollHandler.CreatePoll)
			r.Get("/", pollHandler.ListPolls)
			r.Get("/{id}", pollHandler.GetPoll)
			r.Get("/{id}/stats", pollHandler.GetStats)
			r.Post("/{id}/vote", voteHandler.VoteOnPoll)
			r.Get("/{id}/vote-status", voteHandler.VoteStatus)
		})

		r.Route("/creator", func(r chi.Router) {
			r.Get("/{creatorToken}", creatorHandler.Dashboard)
		})
	})

	if wsHandler != nil {
		r.Handle("/ws", wsHandler)
	}

	return r
}
