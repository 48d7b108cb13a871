package domain

import "time"

type FunctionCode string

const (
	FuncReadWriteCoil     FunctionCode = "read-write-coil"
	FuncReadOnlyCoil      FunctionCode = "read-only-coil"
	FuncReadWriteRegister FunctionCode = "read-write-register"
	FuncReadOnlyRegister  FunctionCode = "read-only-register"
)

func (f FunctionCode) Valid() bool {
	switch f {
	case FuncReadWriteCoil, FuncReadOnlyCoil, FuncReadWriteRegister, FuncReadOnlyRegister:
		return true
	}
	return false
}

// Code returns the Modbus function number.
func (f FunctionCode) Code() int {
	switch f {
	case FuncReadWriteCoil:
		return 1
	case FuncReadOnlyCoil:
		return 2
	case FuncReadWriteRegister:
		return 3
	case FuncReadOnlyRegister:
		return 4
	}
	return 0
}

type DataFormat string

const (
	FormatInt16   DataFormat = "int16"
	FormatUint16  DataFormat = "uint16"
	FormatBits16  DataFormat = "bits16"
	FormatInt32   DataFormat = "int32"
	FormatUint32  DataFormat = "uint32"
	FormatFloat32 DataFormat = "float32"
	FormatFloat64 DataFormat = "float64"
	FormatBCD16   DataFormat = "bcd16"
	FormatBCD32   DataFormat = "bcd32"
)

func (f DataFormat) Valid() bool {
	switch f {
	case FormatInt16, FormatUint16, FormatBits16, FormatInt32, FormatUint32,
		FormatFloat32, FormatFloat64, FormatBCD16, FormatBCD32:
		return true
	}
	return false
}

const (
	DefaultSlaveAddress    = 1
	DefaultFunctionCode    = FuncReadOnlyRegister
	DefaultDataFormat      = FormatInt16
	DefaultCollectionCycle = 2
)

type MBRTUConfig struct {
	ID              int64        `db:"id"               json:"id"`
	DtuID           string       `db:"dtu_id"           json:"dtu_id"`
	SensorID        string       `db:"sensor_id"        json:"sensor_id"`
	SlaveAddress    int          `db:"slave_address"    json:"slave_address"`
	FunctionCode    FunctionCode `db:"function_code"    json:"function_code"`
	OffsetValue     float64      `db:"offset_value"     json:"offset_value"`
	DataFormat      DataFormat   `db:"data_format"      json:"data_format"`
	DataBits        *int         `db:"data_bits"        json:"data_bits"`
	ByteOrder       *string      `db:"byte_order_value" json:"byte_order_value"`
	CollectionCycle int          `db:"collection_cycle" json:"collection_cycle"`
	CreatedAt       time.Time    `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"       json:"updated_at"`
}

// DefaultConfig returns the protocol defaults for one sensor.
func DefaultConfig(dtuID, sensorID string) *MBRTUConfig {
	return &MBRTUConfig{
		DtuID:           dtuID,
		SensorID:        sensorID,
		SlaveAddress:    DefaultSlaveAddress,
		FunctionCode:    DefaultFunctionCode,
		DataFormat:      DefaultDataFormat,
		CollectionCycle: DefaultCollectionCycle,
	}
}

// CloneAs returns c rekeyed to a new device and sensor.
func (c *MBRTUConfig) CloneAs(dtuID, sensorID string) *MBRTUConfig {
	clone := *c
	clone.ID = 0
	clone.DtuID = dtuID
	clone.SensorID = sensorID
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	return &clone
}

// ConfigPatch addresses one config by (DtuID, SensorID). Nil fields are left
// unchanged on update and take protocol defaults on create.
type ConfigPatch struct {
	DtuID           string        `json:"dtu_id"`
	SensorID        string        `json:"sensor_id"`
	SlaveAddress    *int          `json:"slave_address"`
	FunctionCode    *FunctionCode `json:"function_code"`
	OffsetValue     *float64      `json:"offset_value"`
	DataFormat      *DataFormat   `json:"data_format"`
	DataBits        *int          `json:"data_bits"`
	ByteOrder       *string       `json:"byte_order_value"`
	CollectionCycle *int          `json:"collection_cycle"`
}

// Merge applies p over the protocol defaults for the given keys.
func (p *ConfigPatch) Merge(dtuID, sensorID string) *MBRTUConfig {
	cfg := DefaultConfig(dtuID, sensorID)
	if p == nil {
		return cfg
	}
	if p.SlaveAddress != nil {
		cfg.SlaveAddress = *p.SlaveAddress
	}
	if p.FunctionCode != nil {
		cfg.FunctionCode = *p.FunctionCode
	}
	if p.OffsetValue != nil {
		cfg.OffsetValue = *p.OffsetValue
	}
	if p.DataFormat != nil {
		cfg.DataFormat = *p.DataFormat
	}
	cfg.DataBits = p.DataBits
	cfg.ByteOrder = p.ByteOrder
	if p.CollectionCycle != nil {
		cfg.CollectionCycle = *p.CollectionCycle
	}
	return cfg
}

// Columns returns the supplied fields keyed by column name.
func (p *ConfigPatch) Columns() map[string]any {
	cols := make(map[string]any)
	if p.SlaveAddress != nil {
		cols["slave_address"] = *p.SlaveAddress
	}
	if p.FunctionCode != nil {
		cols["function_code"] = *p.FunctionCode
	}
	if p.OffsetValue != nil {
		cols["offset_value"] = *p.OffsetValue
	}
	if p.DataFormat != nil {
		cols["data_format"] = *p.DataFormat
	}
	if p.DataBits != nil {
		cols["data_bits"] = *p.DataBits
	}
	if p.ByteOrder != nil {
		cols["byte_order_value"] = *p.ByteOrder
	}
	if p.CollectionCycle != nil {
		cols["collection_cycle"] = *p.CollectionCycle
	}
	return cols
}

// Key identifies the config in batch reports.
func (p *ConfigPatch) Key() string {
	return p.DtuID + "/" + p.SensorID
}

func (p *ConfigPatch) Validate() error {
	v := &validator{}
	validateBusinessKey(v, "dtu_id", p.DtuID)
	validateBusinessKey(v, "sensor_id", p.SensorID)
	p.validate(v)
	return v.err()
}

func (p *ConfigPatch) validate(v *validator) {
	if p.SlaveAddress != nil {
		v.check(*p.SlaveAddress >= 1 && *p.SlaveAddress <= 247, "slave_address must be 1-247")
	}
	if p.FunctionCode != nil {
		v.check(p.FunctionCode.Valid(), "function_code %q is not supported", string(*p.FunctionCode))
	}
	if p.DataFormat != nil {
		v.check(p.DataFormat.Valid(), "data_format %q is not supported", string(*p.DataFormat))
	}
	if p.DataBits != nil {
		v.check(*p.DataBits > 0 && *p.DataBits <= 64, "data_bits must be 1-64")
	}
	if p.CollectionCycle != nil {
		v.check(*p.CollectionCycle >= 1 && *p.CollectionCycle <= 3600, "collection_cycle must be 1-3600 seconds")
	}
}

// ValidateConfigs validates a batch of patches, prefixing problems with the
// item index.
func ValidateConfigs(patches []ConfigPatch) error {
	v := &validator{}
	v.check(len(patches) > 0, "configs must not be empty")
	for i := range patches {
		v.prefix = indexPrefix(i, len(patches))
		validateBusinessKey(v, "dtu_id", patches[i].DtuID)
		validateBusinessKey(v, "sensor_id", patches[i].SensorID)
		patches[i].validate(v)
	}
	return v.err()
}
