package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

type ConfigsHandler struct {
	log     *slog.Logger
	configs ConfigService
}

func NewConfigsHandler(log *slog.Logger, configs ConfigService) *ConfigsHandler {
	return &ConfigsHandler{
		log:     log,
		configs: configs,
	}
}

func (h *ConfigsHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Delete("/", h.Delete)
}

func (h *ConfigsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	configs, err := h.configs.Configs(r.Context(), q.Get("dtu_id"), q.Get("sensor_id"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, "", configs)
}

func (h *ConfigsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch domain.ConfigPatch
	if err := decode(w, r, &patch); err != nil {
		fail(w, r, h.log, err)
		return
	}

	cfg, err := h.configs.Create(r.Context(), patch)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	created(w, "mb-rtu config created", cfg)
}

type UpdateConfigsRequest struct {
	Configs []domain.ConfigPatch `json:"configs"`
}

func (h *ConfigsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigsRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	res, err := h.configs.Update(r.Context(), req.Configs)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, batchMessage("updated", res.Summary), res)
}

type DeleteConfigResponse struct {
	Affected int64 `json:"affected"`
}

func (h *ConfigsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	affected, err := h.configs.Delete(r.Context(), q.Get("dtu_id"), q.Get("sensor_id"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, "mb-rtu config deleted", DeleteConfigResponse{Affected: affected})
}
