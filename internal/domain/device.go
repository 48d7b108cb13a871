package domain

import (
	"regexp"
	"time"
	"unicode/utf8"
)

const (
	DefaultLinkProtocol  = "MB RTU"
	DefaultOfflineDelay  = 300
	DefaultTimezone      = "+08:00"
	maxDeviceNameLength  = 100
	maxBusinessKeyLength = 50
	copyNameSuffix       = "_copy"
)

var timezonePattern = regexp.MustCompile(`^[+-]\d{2}:\d{2}$`)

type Device struct {
	ID           int64     `db:"id"               json:"id"`
	DtuID        string    `db:"dtu_id"           json:"dtu_id"`
	SerialNumber *string   `db:"serial_number"    json:"serial_number"`
	Group        string    `db:"dtu_group"        json:"dtu_group"`
	Name         string    `db:"dtu_name"         json:"dtu_name"`
	Image        *string   `db:"dtu_image"        json:"dtu_image"`
	LinkProtocol string    `db:"link_protocol"    json:"link_protocol"`
	OfflineDelay int       `db:"offline_delay"    json:"offline_delay"`
	Timezone     string    `db:"timezone_setting" json:"timezone_setting"`
	Longitude    *float64  `db:"longitude"        json:"longitude"`
	Latitude     *float64  `db:"latitude"         json:"latitude"`
	Status       Status    `db:"status"           json:"status"`
	CreatedAt    time.Time `db:"created_at"       json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"       json:"updated_at"`
}

// ApplyDefaults fills the optional columns the way a freshly registered DTU
// is expected to look.
func (d *Device) ApplyDefaults() {
	if d.LinkProtocol == "" {
		d.LinkProtocol = DefaultLinkProtocol
	}
	if d.OfflineDelay == 0 {
		d.OfflineDelay = DefaultOfflineDelay
	}
	if d.Timezone == "" {
		d.Timezone = DefaultTimezone
	}
	if d.Status == "" {
		d.Status = StatusDisconnected
	}
}

func (d *Device) Validate() error {
	v := &validator{}
	validateBusinessKey(v, "dtu_id", d.DtuID)
	n := utf8.RuneCountInString(d.Name)
	v.check(n >= 1 && n <= maxDeviceNameLength, "dtu_name must be 1-100 characters")
	n = utf8.RuneCountInString(d.Group)
	v.check(n >= 1 && n <= 100, "dtu_group must be 1-100 characters")
	if d.SerialNumber != nil {
		v.check(utf8.RuneCountInString(*d.SerialNumber) <= 100, "serial_number must be at most 100 characters")
	}
	if d.Image != nil {
		v.check(utf8.RuneCountInString(*d.Image) <= 255, "dtu_image must be at most 255 characters")
	}
	v.check(utf8.RuneCountInString(d.LinkProtocol) <= 50, "link_protocol must be at most 50 characters")
	if d.OfflineDelay != 0 {
		v.check(d.OfflineDelay >= 1 && d.OfflineDelay <= 86400, "offline_delay must be 1-86400 seconds")
	}
	if d.Timezone != "" {
		v.check(timezonePattern.MatchString(d.Timezone), "timezone_setting must look like +08:00 or -05:00")
	}
	if d.Longitude != nil {
		v.check(*d.Longitude >= -180 && *d.Longitude <= 180, "longitude must be between -180 and 180")
	}
	if d.Latitude != nil {
		v.check(*d.Latitude >= -90 && *d.Latitude <= 90, "latitude must be between -90 and 90")
	}
	if d.Status != "" {
		v.check(d.Status.Valid(), "status must be one of connected, disconnected, deleted, disabled")
	}
	return v.err()
}

// CloneAs returns a disconnected copy of d registered under new identifiers.
func (d *Device) CloneAs(dtuID, serial string) *Device {
	clone := *d
	clone.ID = 0
	clone.DtuID = dtuID
	clone.SerialNumber = &serial
	clone.Name = CopyName(d.Name)
	clone.Status = StatusDisconnected
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	return &clone
}

// CopyName suffixes name with the copy marker, trimming the base so the
// result still fits the name column.
func CopyName(name string) string {
	limit := maxDeviceNameLength - utf8.RuneCountInString(copyNameSuffix)
	if runes := []rune(name); len(runes) > limit {
		name = string(runes[:limit])
	}
	return name + copyNameSuffix
}

type DeviceFilter struct {
	Group  string
	Status Status
	Search string
}

func (f DeviceFilter) Validate() error {
	v := &validator{}
	if f.Status != "" {
		v.check(f.Status.Valid(), "status must be one of connected, disconnected, deleted, disabled")
	}
	v.check(utf8.RuneCountInString(f.Search) <= 100, "search must be at most 100 characters")
	v.check(utf8.RuneCountInString(f.Group) <= 100, "group must be at most 100 characters")
	return v.err()
}

// DeviceState is the part of a device row the bulk lifecycle operations
// branch on.
type DeviceState struct {
	DtuID  string `db:"dtu_id"`
	Group  string `db:"dtu_group"`
	Status Status `db:"status"`
}

func validateBusinessKey(v *validator, field, value string) {
	n := utf8.RuneCountInString(value)
	v.check(n >= 1 && n <= maxBusinessKeyLength, "%s must be 1-50 characters", field)
}

// ValidateIDs checks a batch of business keys supplied to a bulk operation.
func ValidateIDs(field string, ids []string) error {
	v := &validator{}
	v.check(len(ids) > 0, "%s must not be empty", field)
	for i, id := range ids {
		v.prefix = indexPrefix(i, len(ids))
		validateBusinessKey(v, field, id)
	}
	return v.err()
}
