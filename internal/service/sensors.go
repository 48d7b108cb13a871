package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kurochkinivan/iot_center/internal/domain"
)

type SensorService struct {
	log        *slog.Logger
	sensors    SensorsRepository
	devices    DevicesRepository
	configs    ConfigsRepository
	transactor Transactor
	decoder    SensorDecoder
	observer   BatchObserver
}

func NewSensorService(
	log *slog.Logger,
	sensors SensorsRepository,
	devices DevicesRepository,
	configs ConfigsRepository,
	transactor Transactor,
	decoder SensorDecoder,
	observer BatchObserver,
) *SensorService {
	return &SensorService{
		log:        log,
		sensors:    sensors,
		devices:    devices,
		configs:    configs,
		transactor: transactor,
		decoder:    decoder,
		observer:   observer,
	}
}

// Sensors looks sensors up by id or by owning device. A missing sensor id
// yields an empty list.
func (s *SensorService) Sensors(ctx context.Context, filter domain.SensorFilter) ([]*domain.Sensor, error) {
	switch {
	case filter.SensorID != "":
		sensor, err := s.sensors.Sensor(ctx, filter.SensorID)
		if errors.Is(err, domain.ErrSensorNotFound) {
			return []*domain.Sensor{}, nil
		}
		if err != nil {
			return nil, err
		}
		if filter.DtuID != "" && sensor.DtuID != filter.DtuID {
			return []*domain.Sensor{}, nil
		}
		return []*domain.Sensor{sensor}, nil

	case filter.DtuID != "":
		return s.sensors.SensorsByDevice(ctx, filter.DtuID)
	}

	return nil, &domain.ValidationError{Problems: []string{"dtu_id or sensor_id is required"}}
}

// Create adds sensors together with their MB-RTU configs. All items share one
// transaction; each runs in its own savepoint so a failed item is reported
// without undoing the rest.
func (s *SensorService) Create(ctx context.Context, specs []domain.SensorSpec) (*domain.BatchResult, error) {
	for i := range specs {
		specs[i].ApplyDefaults()
	}
	if err := domain.ValidateSensorSpecs(specs); err != nil {
		return nil, err
	}

	res, err := runBatch(ctx, s.log, s.transactor, len(specs), func(i int) string { return specs[i].SensorID }, func(ctx context.Context, i int) (any, error) {
		return s.createOne(ctx, &specs[i])
	})
	if err != nil {
		return nil, err
	}

	s.observe("sensor_create", res)

	return res, nil
}

func (s *SensorService) createOne(ctx context.Context, spec *domain.SensorSpec) (*domain.SensorWithConfig, error) {
	device, err := s.devices.Device(ctx, spec.DtuID)
	if err != nil {
		return nil, err
	}
	if device.Status == domain.StatusDeleted {
		return nil, domain.ErrDeviceGone
	}

	sensor, err := s.sensors.CreateSensor(ctx, &spec.Sensor)
	if err != nil {
		return nil, err
	}

	cfg, err := s.configs.CreateConfig(ctx, spec.Config.Merge(sensor.DtuID, sensor.SensorID))
	if err != nil {
		return nil, fmt.Errorf("failed to create mb-rtu config: %w", err)
	}

	return &domain.SensorWithConfig{Sensor: sensor, Config: cfg}, nil
}

// Import decodes sensors from r, assigns them to dtuID and creates them like
// Create does.
func (s *SensorService) Import(ctx context.Context, dtuID string, r io.Reader) (*domain.BatchResult, error) {
	specs, err := s.decoder.DecodeSensors(r)
	if err != nil {
		return nil, err
	}

	for i := range specs {
		specs[i].DtuID = dtuID
	}

	return s.Create(ctx, specs)
}

// Update patches sensors. Their MB-RTU configs are not touched.
func (s *SensorService) Update(ctx context.Context, patches []domain.SensorPatch) (*domain.BatchResult, error) {
	if err := domain.ValidateSensorPatches(patches); err != nil {
		return nil, err
	}

	res, err := runBatch(ctx, s.log, s.transactor, len(patches), func(i int) string { return patches[i].SensorID }, func(ctx context.Context, i int) (any, error) {
		cols := patches[i].Columns()
		if len(cols) == 0 {
			return nil, domain.ErrNothingToUpdate
		}
		return s.sensors.UpdateSensor(ctx, patches[i].SensorID, cols)
	})
	if err != nil {
		return nil, err
	}

	s.observe("sensor_update", res)

	return res, nil
}

// Delete removes sensors and their MB-RTU configs. A sensor without a config
// is still deleted.
func (s *SensorService) Delete(ctx context.Context, ids []string) (*domain.BatchResult, error) {
	if err := domain.ValidateIDs("sensor_ids", ids); err != nil {
		return nil, err
	}
	ids = dedupe(ids)

	res, err := runBatch(ctx, s.log, s.transactor, len(ids), func(i int) string { return ids[i] }, func(ctx context.Context, i int) (any, error) {
		deleted, err := s.sensors.DeleteSensor(ctx, ids[i])
		if err != nil {
			return nil, err
		}

		if len(deleted.Dependents) > 0 && deleted.Dependents[0].Affected == 0 {
			s.log.WarnContext(ctx, "sensor had no mb-rtu config", slog.String("sensor_id", ids[i]))
		}

		return deleted, nil
	})
	if err != nil {
		return nil, err
	}

	s.observe("sensor_delete", res)

	return res, nil
}

func (s *SensorService) observe(op string, res *domain.BatchResult) {
	if s.observer != nil {
		s.observer.ObserveBatch(op, res.Summary.Succeeded, res.Summary.Failed)
	}
}

// runBatch runs n items in one transaction with a savepoint per item. A
// transient storage error in any item aborts the whole transaction so the
// orchestrator retries the batch from the start.
func runBatch(
	ctx context.Context,
	log *slog.Logger,
	transactor Transactor,
	n int,
	id func(i int) string,
	item func(ctx context.Context, i int) (any, error),
) (*domain.BatchResult, error) {
	var res *domain.BatchResult
	err := transactor.WithTransaction(ctx, func(ctx context.Context) error {
		res = &domain.BatchResult{}

		for i := range n {
			var data any
			err := transactor.WithTransaction(ctx, func(ctx context.Context) error {
				var err error
				data, err = item(ctx, i)
				return err
			})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if errors.Is(err, domain.ErrTransientStorage) {
					return err
				}
				log.DebugContext(ctx, "batch item failed", slog.String("id", id(i)), slog.String("err", err.Error()))
				res.Fail(id(i), err)
				continue
			}
			res.Succeed(id(i), data)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
