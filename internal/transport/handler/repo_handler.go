package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/transport/dto/request"
	"github.com/niklvrr/codereviewbot/internal/transport/dto/response"
	"github.com/niklvrr/codereviewbot/internal/usecase"
	"go.uber.org/zap"
)

type RepoService interface {
	ListRepos(ctx context.Context, chatUserId, page string) (*usecase.RepoList, error)
	CreateWebhook(ctx context.Context, chatUserId string, repo domain.RepoRef) (*domain.Webhook, error)
	DeleteWebhook(ctx context.Context, chatUserId string, id uuid.UUID) error
}

type RepoHandler struct {
	svc RepoService
	log *zap.Logger
}

func NewRepoHandler(svc RepoService, log *zap.Logger) *RepoHandler {
	return &RepoHandler{
		svc: svc,
		log: log,
	}
}

func (h *RepoHandler) ListRepos(w http.ResponseWriter, r *http.Request) {
	req := request.NewListReposRequest(r)
	if req.UserId == "" {
		badRequest(w, "user_id is required")
		return
	}

	list, err := h.svc.ListRepos(r.Context(), req.UserId, req.Page)
	if err != nil {
		fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.NewReposResponse(list))
}

func (h *RepoHandler) CreateWebhook(w http.ResponseWriter, r *http.Request) {
	req := request.NewCreateWebhookRequest(r)
	if req.UserId == "" || req.Owner == "" || req.Name == "" {
		badRequest(w, "user_id, owner and name are required")
		return
	}

	hook, err := h.svc.CreateWebhook(r.Context(), req.UserId, domain.RepoRef{Owner: req.Owner, Name: req.Name})
	if err != nil {
		h.log.Warn("webhook registration failed",
			zap.String("owner", req.Owner),
			zap.String("name", req.Name),
			zap.Error(err),
		)
		fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response.NewWebhookResponse(hook))
}

func (h *RepoHandler) DeleteWebhook(w http.ResponseWriter, r *http.Request) {
	req := request.NewDeleteWebhookRequest(r)
	if req.UserId == "" {
		badRequest(w, "user_id is required")
		return
	}

	id, err := uuid.Parse(req.Id)
	if err != nil {
		badRequest(w, "invalid webhook id")
		return
	}

	if err := h.svc.DeleteWebhook(r.Context(), req.UserId, id); err != nil {
		fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.EventResponse{Status: response.StatusOk})
}
