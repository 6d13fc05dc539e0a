package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/ping", h.ping)
		r.Get("/api/version", h.getVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		// streaming, no timeout and no compression
		r.Get("/api/collections/{name}/watch", h.watchCollection)

		r.Group(func(r chi.Router) {
			if h.requestTimeout > 0 {
				r.Use(middleware.Timeout(h.requestTimeout))
			}
			r.Use(withGZip)

			r.Get("/api/session", h.getSession)
			r.Get("/api/dashboard", h.getDashboard)

			r.With(withETag).Get("/api/collections/{name}", h.getCollection)
			r.Post("/api/collections/{name}/refresh", h.refreshCollection)

			r.Get("/api/leads", h.listLeads)
			r.Post("/api/leads", h.createLead)
			r.Put("/api/leads/{id}", h.updateLead)
			r.Delete("/api/leads/{id}", h.deleteLead)
		})
	})

	return router
}
