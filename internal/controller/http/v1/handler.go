package v1

import (
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

type DevicesHandler struct {
	log     *slog.Logger
	devices DeviceService
}

func NewDevicesHandler(log *slog.Logger, devices DeviceService) *DevicesHandler {
	return &DevicesHandler{
		log:     log,
		devices: devices,
	}
}

func (h *DevicesHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Get("/statuses", h.Statuses)
	r.Post("/copy", h.Copy)
	r.Post("/delete", h.SoftDelete)
	r.Post("/restore", h.Restore)
	r.Post("/permanently-delete", h.PermanentDelete)
	r.Post("/move-to-group", h.MoveToGroup)
	r.Get("/{dtu_id}", h.Get)
	r.Get("/{dtu_id}/report", h.Report)
}

func (h *DevicesHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	q := r.URL.Query()
	filter := domain.DeviceFilter{
		Group:  q.Get("group"),
		Status: domain.Status(q.Get("status")),
		Search: q.Get("search"),
	}

	devices, err := h.devices.Devices(r.Context(), filter, page)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, "", devices)
}

func (h *DevicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	device, err := h.devices.Device(r.Context(), chi.URLParam(r, "dtu_id"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	ok(w, "", device)
}

func (h *DevicesHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	opts, err := h.devices.Statuses(r.Context())
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	ok(w, "", opts)
}

type CreateDeviceRequest struct {
	domain.Device
	Sensors []domain.SensorSpec  `json:"sensors"`
	Configs []domain.ConfigPatch `json:"mb_rtu_configs"`
}

// Create registers a device. When the body carries sensors or configs the
// whole set is created atomically.
func (h *DevicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDeviceRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	if len(req.Sensors) == 0 && len(req.Configs) == 0 {
		device, err := h.devices.Create(r.Context(), &req.Device)
		if err != nil {
			fail(w, r, h.log, err)
			return
		}
		created(w, "device created", device)
		return
	}

	res, err := h.devices.CreateWithSensors(r.Context(), &req.Device, req.Sensors, req.Configs)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	created(w, "device created with sensors", res)
}

func (h *DevicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var device domain.Device
	if err := decode(w, r, &device); err != nil {
		fail(w, r, h.log, err)
		return
	}

	updated, err := h.devices.Update(r.Context(), &device)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, "device updated", updated)
}

type DeviceIDsRequest struct {
	DtuIDs []string `json:"dtu_ids"`
}

func (h *DevicesHandler) Copy(w http.ResponseWriter, r *http.Request) {
	var req DeviceIDsRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	res, err := h.devices.Copy(r.Context(), req.DtuIDs)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, batchMessage("copied", res.Summary), res)
}

func (h *DevicesHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	var req DeviceIDsRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	res, err := h.devices.SoftDelete(r.Context(), req.DtuIDs)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, batchMessage("deleted", res.Summary), res)
}

func (h *DevicesHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req DeviceIDsRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	res, err := h.devices.Restore(r.Context(), req.DtuIDs)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, batchMessage("restored", res.Summary), res)
}

func (h *DevicesHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	var req DeviceIDsRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	res, err := h.devices.PermanentDelete(r.Context(), req.DtuIDs)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, batchMessage("permanently deleted", res.Summary), res)
}

type MoveToGroupRequest struct {
	DtuIDs      []string `json:"dtu_ids"`
	TargetGroup string   `json:"target_group"`
}

func (h *DevicesHandler) MoveToGroup(w http.ResponseWriter, r *http.Request) {
	var req MoveToGroupRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.log, err)
		return
	}

	if req.TargetGroup == "" {
		fail(w, r, h.log, &domain.ValidationError{Problems: []string{"target_group is required"}})
		return
	}

	res, err := h.devices.MoveToGroup(r.Context(), req.DtuIDs, req.TargetGroup)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, "devices moved", res)
}

func (h *DevicesHandler) Report(w http.ResponseWriter, r *http.Request) {
	dtuID := chi.URLParam(r, "dtu_id")

	doc, err := h.devices.Report(r.Context(), dtuID)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dtuID + ".pdf"}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
