package service

import (
	"context"
	"io"

	"github.com/kurochkinivan/iot_center/internal/domain"
)

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	AfterCommit(ctx context.Context, fn func())
	InTransaction(ctx context.Context) bool
}

type GroupsRepository interface {
	Names(ctx context.Context) ([]string, error)
	Groups(ctx context.Context) ([]*domain.Group, error)
	Default(ctx context.Context) (*domain.Group, error)
	GroupByID(ctx context.Context, id int64) (*domain.Group, error)
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateGroup(ctx context.Context, in domain.GroupInput) (*domain.Group, error)
	UpdateGroup(ctx context.Context, id int64, in domain.GroupInput) (*domain.Group, error)
	ReassignAndDelete(ctx context.Context, id int64, from, to string) (int64, error)
}

type DevicesRepository interface {
	Device(ctx context.Context, dtuID string) (*domain.Device, error)
	DeviceExists(ctx context.Context, dtuID string) (bool, error)
	Devices(ctx context.Context, filter domain.DeviceFilter, page domain.Pagination) ([]*domain.Device, int64, error)
	CreateDevice(ctx context.Context, d *domain.Device) (*domain.Device, error)
	UpdateDevice(ctx context.Context, d *domain.Device) (*domain.Device, error)
	States(ctx context.Context, ids []string, lock bool) ([]domain.DeviceState, error)
	SetStatus(ctx context.Context, ids []string, to domain.Status, from ...domain.Status) (int64, error)
	MoveDevices(ctx context.Context, ids []string, group string) (int64, error)
	Purge(ctx context.Context, ids []string) (*domain.CascadeResult, error)
	StatusCounts(ctx context.Context) (map[domain.Status]int64, error)
}

type SensorsRepository interface {
	Sensor(ctx context.Context, sensorID string) (*domain.Sensor, error)
	SensorsByDevice(ctx context.Context, dtuID string) ([]*domain.Sensor, error)
	CreateSensor(ctx context.Context, s *domain.Sensor) (*domain.Sensor, error)
	UpdateSensor(ctx context.Context, sensorID string, columns map[string]any) (*domain.Sensor, error)
	DeleteSensor(ctx context.Context, sensorID string) (*domain.CascadeResult, error)
}

type ConfigsRepository interface {
	Config(ctx context.Context, dtuID, sensorID string) (*domain.MBRTUConfig, error)
	ConfigsByDevice(ctx context.Context, dtuID string) ([]*domain.MBRTUConfig, error)
	CreateConfig(ctx context.Context, c *domain.MBRTUConfig) (*domain.MBRTUConfig, error)
	UpdateConfig(ctx context.Context, dtuID, sensorID string, columns map[string]any) (*domain.MBRTUConfig, error)
	DeleteConfig(ctx context.Context, dtuID, sensorID string) (int64, error)
}

type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	InvalidatePrefix(prefix string) int
}

type BatchObserver interface {
	ObserveBatch(operation string, succeeded, failed int)
}

type ReportGenerator interface {
	GenerateReport(device *domain.Device, sensors []*domain.Sensor, configs []*domain.MBRTUConfig) ([]byte, error)
}

type SensorDecoder interface {
	DecodeSensors(r io.Reader) ([]domain.SensorSpec, error)
}
