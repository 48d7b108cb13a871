package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const readinessTimeout = 3 * time.Second

type HealthHandler struct {
	log     *slog.Logger
	checker HealthChecker
}

func NewHealthHandler(log *slog.Logger, checker HealthChecker) *HealthHandler {
	return &HealthHandler{
		log:     log,
		checker: checker,
	}
}

func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	ok(w, "ok", nil)
}

// Ready reports whether a transaction can be opened against the database.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.checker.Ping(ctx); err != nil {
		h.log.WarnContext(ctx, "readiness check failed", slog.String("err", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, envelope{Message: "database is unavailable"})
		return
	}

	ok(w, "ready", nil)
}
