package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"quizmaster-service/internal/app"
)

// NewRouter assembles the HTTP surface: REST API plus the websocket
// session endpoint.
func NewRouter(service *app.QuizService) http.Handler {
	api := NewAPIHandler(service)
	ws := NewWSHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", api.Login)
		r.Get("/topics", api.Topics)
		r.Get("/highscore", api.HighScore)
		r.Get("/dashboard", api.Dashboard)
	})

	r.Get("/ws", ws.ServeWS)
	return r
}
