package service

import (
	"context"
	"log/slog"

	"github.com/kurochkinivan/iot_center/internal/domain"
)

type ConfigService struct {
	log        *slog.Logger
	configs    ConfigsRepository
	devices    DevicesRepository
	sensors    SensorsRepository
	transactor Transactor
	observer   BatchObserver
}

func NewConfigService(
	log *slog.Logger,
	configs ConfigsRepository,
	devices DevicesRepository,
	sensors SensorsRepository,
	transactor Transactor,
	observer BatchObserver,
) *ConfigService {
	return &ConfigService{
		log:        log,
		configs:    configs,
		devices:    devices,
		sensors:    sensors,
		transactor: transactor,
		observer:   observer,
	}
}

// Configs returns the config of one sensor when both keys are given, every
// config of the device when only dtuID is, and nothing otherwise.
func (s *ConfigService) Configs(ctx context.Context, dtuID, sensorID string) ([]*domain.MBRTUConfig, error) {
	switch {
	case dtuID != "" && sensorID != "":
		cfg, err := s.configs.Config(ctx, dtuID, sensorID)
		if err != nil {
			return nil, err
		}
		return []*domain.MBRTUConfig{cfg}, nil

	case dtuID != "":
		return s.configs.ConfigsByDevice(ctx, dtuID)
	}

	return []*domain.MBRTUConfig{}, nil
}

// Create adds the config of a sensor that has none, merging the supplied
// fields over protocol defaults.
func (s *ConfigService) Create(ctx context.Context, patch domain.ConfigPatch) (*domain.MBRTUConfig, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var created *domain.MBRTUConfig
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkPair(ctx, patch.DtuID, patch.SensorID); err != nil {
			return err
		}

		var err error
		created, err = s.configs.CreateConfig(ctx, patch.Merge(patch.DtuID, patch.SensorID))
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Update patches configs one savepoint per item inside a single transaction.
func (s *ConfigService) Update(ctx context.Context, patches []domain.ConfigPatch) (*domain.BatchResult, error) {
	if err := domain.ValidateConfigs(patches); err != nil {
		return nil, err
	}

	res, err := runBatch(ctx, s.log, s.transactor, len(patches), func(i int) string { return patches[i].Key() }, func(ctx context.Context, i int) (any, error) {
		p := &patches[i]

		if err := s.checkPair(ctx, p.DtuID, p.SensorID); err != nil {
			return nil, err
		}

		if _, err := s.configs.Config(ctx, p.DtuID, p.SensorID); err != nil {
			return nil, err
		}

		cols := p.Columns()
		if len(cols) == 0 {
			return nil, domain.ErrNothingToUpdate
		}

		return s.configs.UpdateConfig(ctx, p.DtuID, p.SensorID, cols)
	})
	if err != nil {
		return nil, err
	}

	if s.observer != nil {
		s.observer.ObserveBatch("mbrtu_update", res.Summary.Succeeded, res.Summary.Failed)
	}

	return res, nil
}

func (s *ConfigService) Delete(ctx context.Context, dtuID, sensorID string) (int64, error) {
	patch := domain.ConfigPatch{DtuID: dtuID, SensorID: sensorID}
	if err := patch.Validate(); err != nil {
		return 0, err
	}

	var affected int64
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkPair(ctx, dtuID, sensorID); err != nil {
			return err
		}

		var err error
		affected, err = s.configs.DeleteConfig(ctx, dtuID, sensorID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "mb-rtu config deleted", slog.String("dtu_id", dtuID), slog.String("sensor_id", sensorID))

	return affected, nil
}

// checkPair makes sure the device exists and owns the sensor.
func (s *ConfigService) checkPair(ctx context.Context, dtuID, sensorID string) error {
	if _, err := s.devices.Device(ctx, dtuID); err != nil {
		return err
	}

	sensor, err := s.sensors.Sensor(ctx, sensorID)
	if err != nil {
		return err
	}

	if sensor.DtuID != dtuID {
		return domain.ErrSensorMismatch
	}

	return nil
}
