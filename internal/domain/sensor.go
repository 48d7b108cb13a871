package domain

import (
	"time"
	"unicode/utf8"
)

type SensorType string

const (
	SensorNumeric        SensorType = "numeric"
	SensorSwitchWritable SensorType = "switch-writable"
	SensorSwitchReadOnly SensorType = "switch-read-only"
	SensorPosition       SensorType = "position"
	SensorImage          SensorType = "image"
	SensorGear           SensorType = "gear"
	SensorVideo          SensorType = "video"
	SensorString         SensorType = "string"
)

func (t SensorType) Valid() bool {
	switch t {
	case SensorNumeric, SensorSwitchWritable, SensorSwitchReadOnly, SensorPosition,
		SensorImage, SensorGear, SensorVideo, SensorString:
		return true
	}
	return false
}

const DefaultSensorIcon = "/image/sensor.png"

// Mapping is a two-point linear conversion from raw register values to
// engineering units.
type Mapping struct {
	X1 *float64 `json:"x1"`
	Y1 *float64 `json:"y1"`
	X2 *float64 `json:"x2"`
	Y2 *float64 `json:"y2"`
}

// Apply converts raw through the line defined by the two points. It reports
// false when the mapping is incomplete or degenerate.
func (m Mapping) Apply(raw float64) (float64, bool) {
	if m.X1 == nil || m.Y1 == nil || m.X2 == nil || m.Y2 == nil || *m.X1 == *m.X2 {
		return 0, false
	}
	slope := (*m.Y2 - *m.Y1) / (*m.X2 - *m.X1)
	return *m.Y1 + (raw-*m.X1)*slope, true
}

type Sensor struct {
	ID            int64       `db:"id"               json:"id"`
	SensorID      string      `db:"sensor_id"        json:"sensor_id"        csv:"sensor_id"`
	DtuID         string      `db:"dtu_id"           json:"dtu_id"           csv:"dtu_id,omitempty"`
	Icon          string      `db:"icon"             json:"icon"             csv:"icon,omitempty"`
	Name          string      `db:"sensor_name"      json:"sensor_name"      csv:"sensor_name"`
	Type          *SensorType `db:"sensor_type"      json:"sensor_type"      csv:"sensor_type,omitempty"`
	DecimalPlaces *int        `db:"decimal_places"   json:"decimal_places"   csv:"decimal_places,omitempty"`
	Unit          *string     `db:"unit"             json:"unit"             csv:"unit,omitempty"`
	SortOrder     *int        `db:"sort_order"       json:"sort_order"       csv:"sort_order,omitempty"`
	UpperX1       *float64    `db:"upper_mapping_x1" json:"upper_mapping_x1" csv:"upper_mapping_x1,omitempty"`
	UpperY1       *float64    `db:"upper_mapping_y1" json:"upper_mapping_y1" csv:"upper_mapping_y1,omitempty"`
	UpperX2       *float64    `db:"upper_mapping_x2" json:"upper_mapping_x2" csv:"upper_mapping_x2,omitempty"`
	UpperY2       *float64    `db:"upper_mapping_y2" json:"upper_mapping_y2" csv:"upper_mapping_y2,omitempty"`
	LowerX1       *float64    `db:"lower_mapping_x1" json:"lower_mapping_x1" csv:"lower_mapping_x1,omitempty"`
	LowerY1       *float64    `db:"lower_mapping_y1" json:"lower_mapping_y1" csv:"lower_mapping_y1,omitempty"`
	LowerX2       *float64    `db:"lower_mapping_x2" json:"lower_mapping_x2" csv:"lower_mapping_x2,omitempty"`
	LowerY2       *float64    `db:"lower_mapping_y2" json:"lower_mapping_y2" csv:"lower_mapping_y2,omitempty"`
	CreatedAt     time.Time   `db:"created_at"       json:"created_at"       csv:"-"`
	UpdatedAt     time.Time   `db:"updated_at"       json:"updated_at"       csv:"-"`
}

func (s *Sensor) Upper() Mapping {
	return Mapping{X1: s.UpperX1, Y1: s.UpperY1, X2: s.UpperX2, Y2: s.UpperY2}
}

func (s *Sensor) Lower() Mapping {
	return Mapping{X1: s.LowerX1, Y1: s.LowerY1, X2: s.LowerX2, Y2: s.LowerY2}
}

func (s *Sensor) ApplyDefaults() {
	if s.Icon == "" {
		s.Icon = DefaultSensorIcon
	}
}

func (s *Sensor) validate(v *validator) {
	validateBusinessKey(v, "sensor_id", s.SensorID)
	validateBusinessKey(v, "dtu_id", s.DtuID)
	n := utf8.RuneCountInString(s.Name)
	v.check(n >= 1 && n <= 100, "sensor_name must be 1-100 characters")
	validateSensorFields(v, s.Type, s.DecimalPlaces, s.Unit, s.SortOrder)
}

// CloneAs returns a copy of s owned by dtuID under a new sensor id. Name and
// mapping coefficients are preserved.
func (s *Sensor) CloneAs(dtuID, sensorID string) *Sensor {
	clone := *s
	clone.ID = 0
	clone.DtuID = dtuID
	clone.SensorID = sensorID
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	return &clone
}

// SensorSpec is one sensor to create together with its protocol config.
// A nil Config means protocol defaults.
type SensorSpec struct {
	Sensor
	Config *ConfigPatch `json:"mb_rtu_config,omitempty"`
}

// SensorPatch carries the fields of a partial sensor update. Nil means
// "leave unchanged".
type SensorPatch struct {
	SensorID      string      `json:"sensor_id"`
	Name          *string     `json:"sensor_name"`
	Type          *SensorType `json:"sensor_type"`
	DecimalPlaces *int        `json:"decimal_places"`
	Unit          *string     `json:"unit"`
	SortOrder     *int        `json:"sort_order"`
	UpperX1       *float64    `json:"upper_mapping_x1"`
	UpperY1       *float64    `json:"upper_mapping_y1"`
	UpperX2       *float64    `json:"upper_mapping_x2"`
	UpperY2       *float64    `json:"upper_mapping_y2"`
	LowerX1       *float64    `json:"lower_mapping_x1"`
	LowerY1       *float64    `json:"lower_mapping_y1"`
	LowerX2       *float64    `json:"lower_mapping_x2"`
	LowerY2       *float64    `json:"lower_mapping_y2"`
}

// Columns returns the supplied fields keyed by column name.
func (p *SensorPatch) Columns() map[string]any {
	cols := make(map[string]any)
	set := func(name string, ok bool, value any) {
		if ok {
			cols[name] = value
		}
	}
	set("sensor_name", p.Name != nil, p.Name)
	set("sensor_type", p.Type != nil, p.Type)
	set("decimal_places", p.DecimalPlaces != nil, p.DecimalPlaces)
	set("unit", p.Unit != nil, p.Unit)
	set("sort_order", p.SortOrder != nil, p.SortOrder)
	set("upper_mapping_x1", p.UpperX1 != nil, p.UpperX1)
	set("upper_mapping_y1", p.UpperY1 != nil, p.UpperY1)
	set("upper_mapping_x2", p.UpperX2 != nil, p.UpperX2)
	set("upper_mapping_y2", p.UpperY2 != nil, p.UpperY2)
	set("lower_mapping_x1", p.LowerX1 != nil, p.LowerX1)
	set("lower_mapping_y1", p.LowerY1 != nil, p.LowerY1)
	set("lower_mapping_x2", p.LowerX2 != nil, p.LowerX2)
	set("lower_mapping_y2", p.LowerY2 != nil, p.LowerY2)
	return cols
}

func (p *SensorPatch) validate(v *validator) {
	validateBusinessKey(v, "sensor_id", p.SensorID)
	if p.Name != nil {
		n := utf8.RuneCountInString(*p.Name)
		v.check(n >= 1 && n <= 100, "sensor_name must be 1-100 characters")
	}
	validateSensorFields(v, p.Type, p.DecimalPlaces, p.Unit, p.SortOrder)
}

func validateSensorFields(v *validator, typ *SensorType, decimals *int, unit *string, sortOrder *int) {
	if typ != nil {
		v.check(typ.Valid(), "sensor_type %q is not supported", string(*typ))
	}
	if decimals != nil {
		v.check(*decimals >= 0 && *decimals <= 10, "decimal_places must be 0-10")
	}
	if unit != nil {
		v.check(utf8.RuneCountInString(*unit) <= 20, "unit must be at most 20 characters")
	}
	if sortOrder != nil {
		v.check(*sortOrder >= 0, "sort_order must not be negative")
	}
}

// SensorFilter selects sensors either by id or by owning device.
type SensorFilter struct {
	SensorID string
	DtuID    string
}

func ValidateSensorSpecs(specs []SensorSpec) error {
	v := &validator{}
	v.check(len(specs) > 0, "sensors must not be empty")
	for i := range specs {
		v.prefix = indexPrefix(i, len(specs))
		specs[i].Sensor.validate(v)
		if specs[i].Config != nil {
			specs[i].Config.validate(v)
		}
	}
	return v.err()
}

func ValidateSensorPatches(patches []SensorPatch) error {
	v := &validator{}
	v.check(len(patches) > 0, "sensors must not be empty")
	for i := range patches {
		v.prefix = indexPrefix(i, len(patches))
		patches[i].validate(v)
	}
	return v.err()
}
