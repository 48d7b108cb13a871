package domain

import "errors"

// ItemResult is the outcome of one item of a batch operation.
type ItemResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`

	err error
}

// Err returns the error the item failed with, if any.
func (r ItemResult) Err() error {
	return r.err
}

type BatchSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// BatchResult reports every item of a batch separately. A failed item never
// aborts the others.
type BatchResult struct {
	Results []ItemResult `json:"results"`
	Summary BatchSummary `json:"summary"`
}

func (b *BatchResult) Succeed(id string, data any) {
	b.Results = append(b.Results, ItemResult{ID: id, Success: true, Data: data})
	b.Summary.Total++
	b.Summary.Succeeded++
}

func (b *BatchResult) Fail(id string, err error) {
	b.Results = append(b.Results, ItemResult{ID: id, Error: Reason(err), err: err})
	b.Summary.Total++
	b.Summary.Failed++
}

// Reason renders err for a batch report. Domain errors are reported by
// their kind so internal details of storage failures do not leak.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrDeviceGone):
		return "not found/deleted"
	case errors.Is(err, ErrDeviceNotFound), errors.Is(err, ErrSensorNotFound),
		errors.Is(err, ErrConfigNotFound), errors.Is(err, ErrSensorMismatch):
		return "not found"
	case errors.Is(err, ErrAlreadyDeleted):
		return "already deleted"
	case errors.Is(err, ErrNotDeleted):
		return "not deleted"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict), errors.Is(err, ErrBusinessRule):
		return err.Error()
	case errors.Is(err, ErrTransientStorage):
		return "storage temporarily unavailable"
	}
	return "internal error"
}

// StatusChangeResult is returned by soft delete and restore.
type StatusChangeResult struct {
	BatchResult
	Affected int64 `json:"affected"`
}

type CopiedDevice struct {
	OriginalID  string `json:"original_dtu_id"`
	NewID       string `json:"new_dtu_id"`
	NewName     string `json:"new_dtu_name"`
	SensorCount int    `json:"sensor_count"`
}

type CopyResult struct {
	BatchResult
	SensorsCopied int `json:"sensors_copied"`
	ConfigsCopied int `json:"configs_copied"`
}

type MoveResult struct {
	TargetGroup string   `json:"target_group"`
	Moved       int64    `json:"moved_count"`
	Skipped     int      `json:"skipped_count"`
	NotFound    []string `json:"not_found"`
}

type TableCount struct {
	Table    string `json:"table"`
	Affected int64  `json:"affected"`
}

// CascadeResult holds the rows removed from each dependent table, in the
// order they were deleted, and from the primary table.
type CascadeResult struct {
	Dependents []TableCount `json:"dependents"`
	Primary    int64        `json:"primary"`
	Total      int64        `json:"total"`
}

type PurgeResult struct {
	BatchResult
	Deleted *CascadeResult `json:"deleted"`
}

type SensorWithConfig struct {
	Sensor *Sensor      `json:"sensor"`
	Config *MBRTUConfig `json:"mb_rtu_config"`
}

type StatusOption struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

type SensorOutcome struct {
	SensorID string `json:"sensor_id"`
	Success  bool   `json:"success"`
}

type CreateWithSensorsResult struct {
	DtuID          string          `json:"dtu_id"`
	Sensors        []SensorOutcome `json:"sensors"`
	Configs        []string        `json:"configs"`
	SensorsCreated int             `json:"sensors_created"`
	ConfigsCreated int             `json:"configs_created"`
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	// MaxPage keeps (page-1)*limit far below any OFFSET overflow.
	MaxPage = 1_000_000
)

type Pagination struct {
	Page  int
	Limit int
}

func (p *Pagination) Normalize() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	}
}

func (p Pagination) Validate() error {
	v := &validator{}
	v.check(p.Page >= 1 && p.Page <= MaxPage, "page must be 1-1000000")
	v.check(p.Limit >= 1 && p.Limit <= MaxPageLimit, "limit must be 1-100")
	return v.err()
}

func (p Pagination) Offset() uint64 {
	return uint64((p.Page - 1) * p.Limit)
}

type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewPage[T any](items []T, total int64, p Pagination) *Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return &Page[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
