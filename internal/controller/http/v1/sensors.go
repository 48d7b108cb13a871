package v1

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

type SensorsHandler struct {
	log     *slog.Logger
	sensors SensorService
}

func NewSensorsHandler(log *slog.Logger, sensors SensorService) *SensorsHandler {
	return &SensorsHandler{
		log:     log,
		sensors: sensors,
	}
}

func (h *SensorsHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Delete("/", h.Delete)
	r.Post("/import", h.Import)
}

func (h *SensorsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sensors, err := h.sensors.Sensors(r.Context(), domain.SensorFilter{
		SensorID: q.Get("sensor_id"),
		DtuID:    q.Get("dtu_id"),
	})
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, "", sensors)
}

type CreateSensorsRequest struct {
	Sensors []domain.SensorSpec `json:"sensors"`
}

func (h *SensorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSensorsRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	res, err := h.sensors.Create(r.Context(), req.Sensors)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, batchMessage("created", res.Summary), res)
}

// Import creates sensors from a CSV or TSV sheet sent as the request body.
func (h *SensorsHandler) Import(w http.ResponseWriter, r *http.Request) {
	dtuID := r.URL.Query().Get("dtu_id")
	if dtuID == "" {
		fail(w, r, h.log, &domain.ValidationError{Problems: []string{"dtu_id is required"}})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	res, err := h.sensors.Import(r.Context(), dtuID, r.Body)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, batchMessage("imported", res.Summary), res)
}

type UpdateSensorsRequest struct {
	Sensors []domain.SensorPatch `json:"sensors"`
}

func (h *SensorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSensorsRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	res, err := h.sensors.Update(r.Context(), req.Sensors)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, batchMessage("updated", res.Summary), res)
}

type DeleteSensorsRequest struct {
	SensorIDs []string `json:"sensor_ids"`
}

func (h *SensorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteSensorsRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	res, err := h.sensors.Delete(r.Context(), req.SensorIDs)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, batchMessage("deleted", res.Summary), res)
}

func batchMessage(verb string, s domain.BatchSummary) string {
	return fmt.Sprintf("%d of %d %s", s.Succeeded, s.Total, verb)
}
