package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/contacts"
	"portfolio-backend/internal/experience"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/status"
)

type routeDeps struct {
	cfg        *config.Config
	log        *slog.Logger
	jwtManager *auth.Manager
	contacts   *contacts.Handler
	projects   *projects.Handler
	experience *experience.Handler
	status     *status.Handler
}

func newRouter(d routeDeps) http.Handler {
	cfg := d.cfg

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.RequestSize(cfg.MaxRequestBodySize))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, cfg.RateLimitWindow)
	likeLimiter := middleware.NewRateLimiter(cfg.RateLimitLikes, cfg.RateLimitWindow)
	admin := middleware.AdminGuard(cfg.AdminKeyHash, d.jwtManager)

	registerRoutes := func(api chi.Router) {
		api.Get("/health", d.status.Health)

		api.Route("/contact", func(c chi.Router) {
			c.With(contactLimiter.Middleware).Post("/", d.contacts.Submit)
			c.Get("/test-email", d.contacts.TestEmail)
			c.Group(func(protected chi.Router) {
				protected.Use(admin)
				protected.Get("/messages", d.contacts.List)
				protected.Get("/stats", d.contacts.Stats)
				protected.Patch("/{id}/read", d.contacts.MarkRead)
				protected.Patch("/{id}/replied", d.contacts.MarkReplied)
			})
		})

		api.Route("/projects", func(p chi.Router) {
			p.Get("/", d.projects.List)
			p.Get("/featured", d.projects.Featured)
			p.Get("/categories", d.projects.Categories)
			p.Get("/technologies", d.projects.Technologies)
			p.Get("/stats", d.projects.Stats)
			p.Get("/{id}", d.projects.Get)
			p.With(likeLimiter.Middleware).Post("/{id}/like", d.projects.Like)
			p.Group(func(protected chi.Router) {
				protected.Use(admin)
				protected.Post("/", d.projects.Create)
				protected.Put("/{id}", d.projects.Update)
				protected.Delete("/{id}", d.projects.Delete)
			})
		})

		api.Route("/experience", func(e chi.Router) {
			e.Get("/", d.experience.List)
			e.Get("/companies", d.experience.Companies)
			e.Get("/technologies", d.experience.Technologies)
			e.Get("/summary", d.experience.Summary)
			e.Get("/current", d.experience.Current)
			e.Get("/by-company/{company}", d.experience.ByCompany)
			e.Get("/{id}", d.experience.Get)
			e.Group(func(protected chi.Router) {
				protected.Use(admin)
				protected.Post("/", d.experience.Create)
				protected.Put("/{id}", d.experience.Update)
				protected.Delete("/{id}", d.experience.Delete)
			})
		})

		api.NotFound(d.status.NotFound)
		api.MethodNotAllowed(d.status.NotFound)
	}

	r.Get("/", d.status.Root)
	r.Get("/health", d.status.Health)

	// /api is the unversioned alias the existing front-end calls.
	r.Route("/api/v1", registerRoutes)
	r.Route("/api", registerRoutes)

	r.NotFound(d.status.NotFound)
	r.MethodNotAllowed(d.status.NotFound)
	return r
}
