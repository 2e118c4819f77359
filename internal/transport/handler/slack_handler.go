package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/transport/dto/request"
	"github.com/niklvrr/codereviewbot/internal/transport/dto/response"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"
)

type CommandService interface {
	Review(ctx context.Context, cmd *domain.SlashCommand) ([]byte, error)
	Reviews(ctx context.Context, cmd *domain.SlashCommand) error
}

type SlackHandler struct {
	svc CommandService
	log *zap.Logger
}

func NewSlackHandler(svc CommandService, log *zap.Logger) *SlackHandler {
	return &SlackHandler{
		svc: svc,
		log: log,
	}
}

func (h *SlackHandler) Review(w http.ResponseWriter, r *http.Request) {
	cmd, err := request.NewSlashCommand(r)
	if err != nil {
		badRequest(w, "invalid slash command")
		return
	}

	body, err := h.svc.Review(r.Context(), cmd)
	if err != nil {
		h.log.Warn("review command failed", zap.String("user_id", cmd.UserId), zap.Error(err))
		fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if body != nil {
		w.Write(body)
	}
}

func (h *SlackHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	cmd, err := request.NewSlashCommand(r)
	if err != nil {
		badRequest(w, "invalid slash command")
		return
	}

	if err := h.svc.Reviews(r.Context(), cmd); err != nil {
		h.log.Warn("reviews command failed", zap.String("channel", cmd.ChannelId), zap.Error(err))
		fail(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Event отвечает на проверку url Events API и подтверждает остальные события
func (h *SlackHandler) Event(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		badRequest(w, "unreadable body")
		return
	}

	ev, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		badRequest(w, "invalid event payload")
		return
	}

	if ev.Type == slackevents.URLVerification {
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			badRequest(w, "invalid challenge")
			return
		}
		writeJSON(w, http.StatusOK, response.ChallengeResponse{Challenge: challenge.Challenge})
		return
	}

	h.log.Debug("slack event ignored", zap.String("type", ev.Type))
	w.WriteHeader(http.StatusOK)
}
