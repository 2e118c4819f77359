package handler

import (
	"context"
	"net/http"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/transport/dto/request"
	"github.com/niklvrr/codereviewbot/internal/transport/dto/response"
	"go.uber.org/zap"
)

type AuthService interface {
	SlackLogin(ctx context.Context, code string) (*domain.Account, error)
	ConnectGitHub(ctx context.Context, chatUserId, code string) (*domain.Identity, error)
}

type AuthHandler struct {
	svc AuthService
	log *zap.Logger
}

func NewAuthHandler(svc AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		svc: svc,
		log: log,
	}
}

// SlackCallback завершает вход через Slack
func (h *AuthHandler) SlackCallback(w http.ResponseWriter, r *http.Request) {
	req := request.NewSlackAuthRequest(r)
	if req.Code == "" {
		badRequest(w, "code is required")
		return
	}

	account, err := h.svc.SlackLogin(r.Context(), req.Code)
	if err != nil {
		h.log.Warn("slack sign in failed", zap.Error(err))
		fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.NewAccountResponse(account))
}

// GithubCallback завершает авторизацию GitHub для вошедшего аккаунта
func (h *AuthHandler) GithubCallback(w http.ResponseWriter, r *http.Request) {
	req := request.NewGithubAuthRequest(r)
	if req.Code == "" || req.UserId == "" {
		badRequest(w, "code and user_id are required")
		return
	}

	identity, err := h.svc.ConnectGitHub(r.Context(), req.UserId, req.Code)
	if err != nil {
		h.log.Warn("github connection failed", zap.String("user_id", req.UserId), zap.Error(err))
		fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.NewIdentityResponse(identity))
}
