package v1

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/kurochkinivan/iot_center/internal/domain"
)

type GroupService interface {
	Names(ctx context.Context) ([]string, error)
	Groups(ctx context.Context) ([]*domain.Group, error)
	Default(ctx context.Context) (*domain.Group, error)
	Group(ctx context.Context, id int64) (*domain.Group, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, in domain.GroupInput) (*domain.Group, error)
	Update(ctx context.Context, id int64, in domain.GroupInput) (*domain.Group, error)
	Delete(ctx context.Context, id int64) (*domain.GroupDeletion, error)
}

type DeviceService interface {
	Device(ctx context.Context, dtuID string) (*domain.Device, error)
	Devices(ctx context.Context, filter domain.DeviceFilter, page domain.Pagination) (*domain.Page[*domain.Device], error)
	Statuses(ctx context.Context) ([]domain.StatusOption, error)
	Create(ctx context.Context, d *domain.Device) (*domain.Device, error)
	CreateWithSensors(
		ctx context.Context,
		d *domain.Device,
		specs []domain.SensorSpec,
		configs []domain.ConfigPatch,
	) (*domain.CreateWithSensorsResult, error)
	Update(ctx context.Context, d *domain.Device) (*domain.Device, error)
	SoftDelete(ctx context.Context, ids []string) (*domain.StatusChangeResult, error)
	Restore(ctx context.Context, ids []string) (*domain.StatusChangeResult, error)
	PermanentDelete(ctx context.Context, ids []string) (*domain.PurgeResult, error)
	Copy(ctx context.Context, ids []string) (*domain.CopyResult, error)
	MoveToGroup(ctx context.Context, ids []string, target string) (*domain.MoveResult, error)
	Report(ctx context.Context, dtuID string) ([]byte, error)
}

type SensorService interface {
	Sensors(ctx context.Context, filter domain.SensorFilter) ([]*domain.Sensor, error)
	Create(ctx context.Context, specs []domain.SensorSpec) (*domain.BatchResult, error)
	Import(ctx context.Context, dtuID string, r io.Reader) (*domain.BatchResult, error)
	Update(ctx context.Context, patches []domain.SensorPatch) (*domain.BatchResult, error)
	Delete(ctx context.Context, ids []string) (*domain.BatchResult, error)
}

type ConfigService interface {
	Configs(ctx context.Context, dtuID, sensorID string) ([]*domain.MBRTUConfig, error)
	Create(ctx context.Context, patch domain.ConfigPatch) (*domain.MBRTUConfig, error)
	Update(ctx context.Context, patches []domain.ConfigPatch) (*domain.BatchResult, error)
	Delete(ctx context.Context, dtuID, sensorID string) (int64, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Metrics interface {
	Handler() http.Handler
	ObserveRequest(method, route string, code int, d time.Duration)
}
