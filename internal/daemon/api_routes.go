package daemon

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const threadIDParam = "threadID"

func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return LoggingMiddleware(a.Logger, next)
	})
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return TokenAuthMiddleware(a.Tokens, next)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.HealthCheck)

		r.Route("/threads", func(r chi.Router) {
			r.Get("/", a.ListThreads)
			r.Post("/", a.CreateThread)
			r.Route("/{"+threadIDParam+"}", func(r chi.Router) {
				r.Get("/", a.GetThread)
				r.Delete("/", a.DeleteThread)
				r.Get("/messages", a.ListMessages)
				r.Post("/messages", a.CreateMessage)
			})
		})

		r.Get("/feedback", a.ListFeedback)
		r.Post("/feedback", a.SubmitFeedback)

		r.Get("/settings", a.ListSettings)
		r.Post("/settings", a.UpdateSettings)
	})
	return r
}
