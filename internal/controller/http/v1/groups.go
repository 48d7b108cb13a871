package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

type GroupsHandler struct {
	log    *slog.Logger
	groups GroupService
}

func NewGroupsHandler(log *slog.Logger, groups GroupService) *GroupsHandler {
	return &GroupsHandler{
		log:    log,
		groups: groups,
	}
}

func (h *GroupsHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/names", h.Names)
	r.Get("/default", h.Default)
	r.Get("/check", h.Check)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *GroupsHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.Groups(r.Context())
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	ok(w, "", groups)
}

func (h *GroupsHandler) Names(w http.ResponseWriter, r *http.Request) {
	names, err := h.groups.Names(r.Context())
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	ok(w, "", names)
}

func (h *GroupsHandler) Default(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Default(r.Context())
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	ok(w, "", group)
}

type CheckGroupResponse struct {
	GroupName string `json:"group_name"`
	Exists    bool   `json:"exists"`
}

func (h *GroupsHandler) Check(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("group_name")

	in := domain.GroupInput{Name: name}
	in.Normalize()
	if err := in.Validate(); err != nil {
		fail(w, r, h.log, err)
		return
	}

	exists, err := h.groups.NameExists(r.Context(), in.Name)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, "", CheckGroupResponse{GroupName: in.Name, Exists: exists})
}

func (h *GroupsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	group, err := h.groups.Group(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, "", group)
}

func (h *GroupsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.GroupInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, h.log, err)
		return
	}

	group, err := h.groups.Create(r.Context(), in)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	created(w, "group created", group)
}

func (h *GroupsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	var in domain.GroupInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, h.log, err)
		return
	}

	group, err := h.groups.Update(r.Context(), id, in)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, "group updated", group)
}

func (h *GroupsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	res, err := h.groups.Delete(r.Context(), id)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, "group deleted", res)
}

func groupID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, &domain.ValidationError{Problems: []string{"id must be a positive integer"}}
	}
	return id, nil
}
