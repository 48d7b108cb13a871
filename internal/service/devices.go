package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kurochkinivan/iot_center/internal/domain"
)

type DeviceService struct {
	log        *slog.Logger
	devices    DevicesRepository
	groups     GroupsRepository
	sensors    SensorsRepository
	configs    ConfigsRepository
	transactor Transactor
	reports    ReportGenerator
	observer   BatchObserver
}

func NewDeviceService(
	log *slog.Logger,
	devices DevicesRepository,
	groups GroupsRepository,
	sensors SensorsRepository,
	configs ConfigsRepository,
	transactor Transactor,
	reports ReportGenerator,
	observer BatchObserver,
) *DeviceService {
	return &DeviceService{
		log:        log,
		devices:    devices,
		groups:     groups,
		sensors:    sensors,
		configs:    configs,
		transactor: transactor,
		reports:    reports,
		observer:   observer,
	}
}

func (s *DeviceService) Device(ctx context.Context, dtuID string) (*domain.Device, error) {
	return s.devices.Device(ctx, dtuID)
}

func (s *DeviceService) Devices(
	ctx context.Context,
	filter domain.DeviceFilter,
	page domain.Pagination,
) (*domain.Page[*domain.Device], error) {
	page.Normalize()
	if err := domain.JoinValidation(filter.Validate(), page.Validate()); err != nil {
		return nil, err
	}

	devices, total, err := s.devices.Devices(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	return domain.NewPage(devices, total, page), nil
}

// Statuses lists every device status with the number of devices in it.
func (s *DeviceService) Statuses(ctx context.Context) ([]domain.StatusOption, error) {
	counts, err := s.devices.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}

	opts := make([]domain.StatusOption, 0, len(domain.Statuses))
	for _, st := range domain.Statuses {
		opts = append(opts, domain.StatusOption{Status: st, Count: counts[st]})
	}

	return opts, nil
}

func (s *DeviceService) Create(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	d.ApplyDefaults()
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Device
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.create(ctx, d)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "device created", slog.String("dtu_id", created.DtuID))

	return created, nil
}

func (s *DeviceService) create(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	exists, err := s.devices.DeviceExists(ctx, d.DtuID)
	if err != nil {
		return nil, fmt.Errorf("failed to check device id: %w", err)
	}
	if exists {
		return nil, domain.ErrDeviceExists
	}

	if err := s.requireGroup(ctx, d.Group); err != nil {
		return nil, err
	}

	return s.devices.CreateDevice(ctx, d)
}

func (s *DeviceService) requireGroup(ctx context.Context, name string) error {
	exists, err := s.groups.NameExists(ctx, name, 0)
	if err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return domain.ErrGroupNotFound
	}
	return nil
}

// Update replaces the writable fields of an existing device. An omitted
// status keeps the stored one; the deleted status is entered and left only
// through SoftDelete, Restore and PermanentDelete.
func (s *DeviceService) Update(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	status := d.Status
	d.ApplyDefaults()
	d.Status = status
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Device
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.devices.Device(ctx, d.DtuID)
		if err != nil {
			return err
		}

		if d.Status == "" {
			d.Status = current.Status
		}
		if (d.Status == domain.StatusDeleted) != (current.Status == domain.StatusDeleted) {
			return domain.ErrDeletedStatusLocked
		}

		if current.Group != d.Group {
			if err := s.requireGroup(ctx, d.Group); err != nil {
				return err
			}
		}

		updated, err = s.devices.UpdateDevice(ctx, d)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// SoftDelete marks devices as deleted. Unknown and already deleted ids are
// reported as failed items.
func (s *DeviceService) SoftDelete(ctx context.Context, ids []string) (*domain.StatusChangeResult, error) {
	res, err := s.changeStatus(ctx, ids, domain.StatusDeleted, func(st domain.Status) error {
		if st == domain.StatusDeleted {
			return domain.ErrAlreadyDeleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.observe("soft_delete", &res.BatchResult)

	return res, nil
}

// Restore returns deleted devices to disconnected. Ids that are unknown or
// not deleted are reported as failed items.
func (s *DeviceService) Restore(ctx context.Context, ids []string) (*domain.StatusChangeResult, error) {
	res, err := s.changeStatus(ctx, ids, domain.StatusDisconnected, func(st domain.Status) error {
		if st != domain.StatusDeleted {
			return domain.ErrNotDeleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.observe("restore", &res.BatchResult)

	return res, nil
}

func (s *DeviceService) changeStatus(
	ctx context.Context,
	ids []string,
	to domain.Status,
	allowed func(domain.Status) error,
) (*domain.StatusChangeResult, error) {
	if err := domain.ValidateIDs("dtu_ids", ids); err != nil {
		return nil, err
	}
	ids = dedupe(ids)

	var res *domain.StatusChangeResult
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		res = &domain.StatusChangeResult{}

		eligible, from, err := s.partition(ctx, ids, &res.BatchResult, allowed)
		if err != nil {
			return err
		}
		if len(eligible) == 0 {
			return nil
		}

		res.Affected, err = s.devices.SetStatus(ctx, eligible, to, from...)
		if err != nil {
			return fmt.Errorf("failed to set status %s: %w", to, err)
		}

		for _, id := range eligible {
			res.Succeed(id, nil)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// partition locks the devices among ids and splits them into the ones whose
// status allows the transition and the ones recorded as failures in res. It
// also returns the distinct current statuses of the eligible devices.
func (s *DeviceService) partition(
	ctx context.Context,
	ids []string,
	res *domain.BatchResult,
	allowed func(domain.Status) error,
) ([]string, []domain.Status, error) {
	states, err := s.devices.States(ctx, ids, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read device states: %w", err)
	}

	byID := make(map[string]domain.DeviceState, len(states))
	for _, st := range states {
		byID[st.DtuID] = st
	}

	var (
		eligible []string
		from     []domain.Status
		seen     = make(map[domain.Status]bool)
	)
	for _, id := range ids {
		st, ok := byID[id]
		if !ok {
			res.Fail(id, domain.ErrDeviceNotFound)
			continue
		}
		if err := allowed(st.Status); err != nil {
			res.Fail(id, err)
			continue
		}
		eligible = append(eligible, id)
		if !seen[st.Status] {
			seen[st.Status] = true
			from = append(from, st.Status)
		}
	}

	return eligible, from, nil
}

// PermanentDelete removes soft-deleted devices together with their sensors
// and MB-RTU configs in one transaction. Devices in any other status are
// left untouched and reported as failed items.
func (s *DeviceService) PermanentDelete(ctx context.Context, ids []string) (*domain.PurgeResult, error) {
	if err := domain.ValidateIDs("dtu_ids", ids); err != nil {
		return nil, err
	}
	ids = dedupe(ids)

	var res *domain.PurgeResult
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		res = &domain.PurgeResult{Deleted: &domain.CascadeResult{}}

		eligible, _, err := s.partition(ctx, ids, &res.BatchResult, func(st domain.Status) error {
			if st != domain.StatusDeleted {
				return domain.ErrNotDeleted
			}
			return nil
		})
		if err != nil {
			return err
		}
		if len(eligible) == 0 {
			return nil
		}

		res.Deleted, err = s.devices.Purge(ctx, eligible)
		if err != nil {
			return err
		}

		for _, id := range eligible {
			res.Succeed(id, nil)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "devices purged",
		slog.Int64("devices", res.Deleted.Primary),
		slog.Int64("total_rows", res.Deleted.Total))
	s.observe("permanent_delete", &res.BatchResult)

	return res, nil
}

// Copy clones every device in ids with all of its sensors and their MB-RTU
// configs. Each device is copied in its own transaction, so a failed copy
// never undoes the others.
func (s *DeviceService) Copy(ctx context.Context, ids []string) (*domain.CopyResult, error) {
	if err := domain.ValidateIDs("dtu_ids", ids); err != nil {
		return nil, err
	}

	res := &domain.CopyResult{}
	for _, id := range ids {
		var (
			copied  *domain.CopiedDevice
			configs int
		)
		err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
			var err error
			copied, configs, err = s.copyDevice(ctx, id)
			return err
		})
		if err != nil {
			s.log.WarnContext(ctx, "failed to copy device", slog.String("dtu_id", id), slog.String("err", err.Error()))
			res.Fail(id, err)
			continue
		}

		res.Succeed(id, copied)
		res.SensorsCopied += copied.SensorCount
		res.ConfigsCopied += configs
	}

	s.observe("copy", &res.BatchResult)

	return res, nil
}

func (s *DeviceService) copyDevice(ctx context.Context, id string) (*domain.CopiedDevice, int, error) {
	src, err := s.devices.Device(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			return nil, 0, domain.ErrDeviceGone
		}
		return nil, 0, err
	}
	if src.Status == domain.StatusDeleted {
		return nil, 0, domain.ErrDeviceGone
	}

	clone, err := s.devices.CreateDevice(ctx, src.CloneAs(newDtuID(), newSerialNumber()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create copy: %w", err)
	}

	sensors, err := s.sensors.SensorsByDevice(ctx, src.DtuID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sensors: %w", err)
	}

	configs := 0
	for _, sensor := range sensors {
		newSensor, err := s.sensors.CreateSensor(ctx, sensor.CloneAs(clone.DtuID, newSensorID()))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to copy sensor %s: %w", sensor.SensorID, err)
		}

		cfg, err := s.configs.Config(ctx, src.DtuID, sensor.SensorID)
		if errors.Is(err, domain.ErrConfigNotFound) {
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read config of sensor %s: %w", sensor.SensorID, err)
		}

		if _, err := s.configs.CreateConfig(ctx, cfg.CloneAs(clone.DtuID, newSensor.SensorID)); err != nil {
			return nil, 0, fmt.Errorf("failed to copy config of sensor %s: %w", sensor.SensorID, err)
		}
		configs++
	}

	return &domain.CopiedDevice{
		OriginalID:  src.DtuID,
		NewID:       clone.DtuID,
		NewName:     clone.Name,
		SensorCount: len(sensors),
	}, configs, nil
}

// MoveToGroup assigns devices to target. Devices already there are skipped,
// unknown ids are listed as not found.
func (s *DeviceService) MoveToGroup(ctx context.Context, ids []string, target string) (*domain.MoveResult, error) {
	if err := domain.ValidateIDs("dtu_ids", ids); err != nil {
		return nil, err
	}
	ids = dedupe(ids)

	var res *domain.MoveResult
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireGroup(ctx, target); err != nil {
			return err
		}

		states, err := s.devices.States(ctx, ids, true)
		if err != nil {
			return fmt.Errorf("failed to read device states: %w", err)
		}

		res = &domain.MoveResult{TargetGroup: target, NotFound: []string{}}

		byID := make(map[string]domain.DeviceState, len(states))
		for _, st := range states {
			byID[st.DtuID] = st
		}

		var move []string
		for _, id := range ids {
			st, ok := byID[id]
			switch {
			case !ok:
				res.NotFound = append(res.NotFound, id)
			case st.Group == target:
				res.Skipped++
			default:
				move = append(move, id)
			}
		}

		if len(move) == 0 {
			return nil
		}

		res.Moved, err = s.devices.MoveDevices(ctx, move, target)
		return err
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// CreateWithSensors registers a device, its sensors and their MB-RTU configs
// atomically. Sensors without a config in configs or in their own spec get
// protocol defaults.
func (s *DeviceService) CreateWithSensors(
	ctx context.Context,
	d *domain.Device,
	specs []domain.SensorSpec,
	configs []domain.ConfigPatch,
) (*domain.CreateWithSensorsResult, error) {
	d.ApplyDefaults()
	for i := range specs {
		specs[i].DtuID = d.DtuID
		specs[i].ApplyDefaults()
	}
	for i := range configs {
		configs[i].DtuID = d.DtuID
	}

	verr := []error{d.Validate()}
	if len(specs) > 0 {
		verr = append(verr, domain.ValidateSensorSpecs(specs))
	}
	if len(configs) > 0 {
		verr = append(verr, domain.ValidateConfigs(configs))
	}
	if err := domain.JoinValidation(verr...); err != nil {
		return nil, err
	}

	patches := make(map[string]*domain.ConfigPatch, len(configs))
	for i := range configs {
		patches[configs[i].SensorID] = &configs[i]
	}

	var res *domain.CreateWithSensorsResult
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		created, err := s.create(ctx, d)
		if err != nil {
			return err
		}

		res = &domain.CreateWithSensorsResult{
			DtuID:   created.DtuID,
			Sensors: make([]domain.SensorOutcome, 0, len(specs)),
			Configs: make([]string, 0, len(specs)),
		}

		inCall := make(map[string]bool, len(specs))
		for i := range specs {
			if _, err := s.sensors.CreateSensor(ctx, &specs[i].Sensor); err != nil {
				return fmt.Errorf("failed to create sensor %s: %w", specs[i].SensorID, err)
			}
			inCall[specs[i].SensorID] = true
			res.Sensors = append(res.Sensors, domain.SensorOutcome{SensorID: specs[i].SensorID, Success: true})
			res.SensorsCreated++
		}

		for sensorID := range patches {
			if !inCall[sensorID] {
				return fmt.Errorf("config for sensor %s: %w", sensorID, domain.ErrSensorNotFound)
			}
		}

		for i := range specs {
			patch := specs[i].Config
			if p, ok := patches[specs[i].SensorID]; ok {
				patch = p
			}

			cfg, err := s.configs.CreateConfig(ctx, patch.Merge(created.DtuID, specs[i].SensorID))
			if err != nil {
				return fmt.Errorf("failed to create config for sensor %s: %w", specs[i].SensorID, err)
			}
			res.Configs = append(res.Configs, cfg.DtuID+"/"+cfg.SensorID)
			res.ConfigsCreated++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "device created with sensors",
		slog.String("dtu_id", res.DtuID),
		slog.Int("sensors", res.SensorsCreated),
		slog.Int("configs", res.ConfigsCreated))

	return res, nil
}

// Report renders the inventory of one device as a document.
func (s *DeviceService) Report(ctx context.Context, dtuID string) ([]byte, error) {
	device, err := s.devices.Device(ctx, dtuID)
	if err != nil {
		return nil, err
	}

	sensors, err := s.sensors.SensorsByDevice(ctx, dtuID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sensors: %w", err)
	}

	configs, err := s.configs.ConfigsByDevice(ctx, dtuID)
	if err != nil {
		return nil, fmt.Errorf("failed to list configs: %w", err)
	}

	doc, err := s.reports.GenerateReport(device, sensors, configs)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	return doc, nil
}

func (s *DeviceService) observe(op string, res *domain.BatchResult) {
	if s.observer != nil {
		s.observer.ObserveBatch(op, res.Summary.Succeeded, res.Summary.Failed)
	}
}
