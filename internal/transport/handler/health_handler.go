package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	log *zap.Logger
}

func NewHealthHandler(db Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:  db,
		log: log,
	}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.log.Debug("health check requested",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.log.Error("database unreachable", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "unavailable",
				"database": "down",
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
