package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
)

const healthTimeout = 2 * time.Second

type healthStatus struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

// health проверяет базу данных; in-memory хранилище всегда "up"
func (h *Handler) health(w http.ResponseWriter, r *http.Request) error {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.DB.Ping(ctx); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
			return writeJSON(w, http.StatusInternalServerError, healthStatus{Status: "degraded", DB: "down"})
		}
	}
	return writeJSON(w, http.StatusOK, healthStatus{Status: "ok", DB: "up"})
}
