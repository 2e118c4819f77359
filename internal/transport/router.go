package transport

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/niklvrr/codereviewbot/internal/transport/handler"
	transportMiddleware "github.com/niklvrr/codereviewbot/internal/transport/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Github *handler.GithubHandler
	Slack  *handler.SlackHandler
	Repo   *handler.RepoHandler
	Auth   *handler.AuthHandler
	Health *handler.HealthHandler
}

func NewRouter(h Handlers, requestTimeout time.Duration, log *zap.Logger) *chi.Mux {
	router := chi.NewRouter()

	// первым, чтобы ловить панику и в остальных middleware
	router.Use(transportMiddleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(transportMiddleware.Logging(log))
	router.Use(transportMiddleware.Timeout(requestTimeout, log))
	router.Use(transportMiddleware.Metrics)

	router.Handle("/metrics", promhttp.Handler())

	router.Post("/github_event", h.Github.HandleEvent)

	router.Post("/review", h.Slack.Review)
	router.Post("/reviews", h.Slack.Reviews)
	router.Post("/slack_event", h.Slack.Event)

	router.Route("/github", func(r chi.Router) {
		r.Get("/repos", h.Repo.ListRepos)
		r.Post("/webhooks", h.Repo.CreateWebhook)
		r.Post("/webhooks/{id}/delete", h.Repo.DeleteWebhook)
	})

	router.Route("/auth", func(r chi.Router) {
		r.Get("/slack", h.Auth.SlackCallback)
		r.Get("/github", h.Auth.GithubCallback)
	})

	router.Get("/health", h.Health.HealthCheck)
	return router
}
