package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/github"
	"github.com/niklvrr/codereviewbot/internal/transport/dto/response"
	"github.com/niklvrr/codereviewbot/internal/transport/middleware"
	"github.com/niklvrr/codereviewbot/internal/usecase"
	"go.uber.org/zap"
)

const (
	outcomeOk          = "ok"
	outcomeSkipped     = "skipped"
	outcomeError       = "error"
	outcomeUnsupported = "unsupported"
	outcomeRejected    = "rejected"
)

type SyncService interface {
	HandlePrEvent(ctx context.Context, ev *domain.PrEvent) error
	HandleReviewEvent(ctx context.Context, ev *domain.ReviewEvent) error
}

type GithubHandler struct {
	svc    SyncService
	secret string
	log    *zap.Logger
}

func NewGithubHandler(svc SyncService, webhookSecret string, log *zap.Logger) *GithubHandler {
	return &GithubHandler{
		svc:    svc,
		secret: webhookSecret,
		log:    log,
	}
}

func (h *GithubHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	eventType := r.Header.Get("X-GitHub-Event")

	ev, err := github.ParseEvent(r, h.secret)
	if err != nil {
		h.log.Warn("webhook delivery rejected",
			zap.String("event", eventType),
			zap.String("delivery", r.Header.Get("X-GitHub-Delivery")),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, github.ErrUnsupportedEvent):
			middleware.RecordWebhookEvent(eventType, "", outcomeUnsupported)
			badRequest(w, err.Error())
		case errors.Is(err, github.ErrInvalidSignature):
			middleware.RecordWebhookEvent(eventType, "", outcomeRejected)
			WriteError(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: usecase.CodeNotAuthorized})
		default:
			middleware.RecordWebhookEvent(eventType, "", outcomeRejected)
			badRequest(w, err.Error())
		}
		return
	}

	var action string
	switch e := ev.(type) {
	case *domain.PingEvent:
		h.log.Info("webhook ping", zap.Int64("hook_id", e.HookId))
		middleware.RecordWebhookEvent(eventType, "", outcomeOk)
		writeJSON(w, http.StatusOK, response.EventResponse{Status: response.StatusPong})
		return
	case *domain.PrEvent:
		action = string(e.Action)
		err = h.svc.HandlePrEvent(r.Context(), e)
	case *domain.ReviewEvent:
		action = string(e.Action)
		err = h.svc.HandleReviewEvent(r.Context(), e)
	}

	middleware.RecordWebhookEvent(eventType, action, outcome(err))

	if err != nil {
		if usecase.IsGuard(err) {
			h.log.Info("webhook event skipped", zap.String("event", eventType), zap.String("reason", err.Error()))
		} else {
			h.log.Error("webhook event failed",
				zap.String("event", eventType),
				zap.String("action", action),
				zap.Error(err),
			)
		}
		fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.EventResponse{Status: response.StatusOk})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOk
	case usecase.IsGuard(err):
		return outcomeSkipped
	default:
		return outcomeError
	}
}
