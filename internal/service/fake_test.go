package service_test

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/kurochkinivan/iot_center/internal/domain"
)

type configKey struct {
	dtuID, sensorID string
}

type tables struct {
	groups  map[int64]domain.Group
	devices map[string]domain.Device
	sensors map[string]domain.Sensor
	configs map[configKey]domain.MBRTUConfig
}

func (t tables) clone() tables {
	return tables{
		groups:  maps.Clone(t.groups),
		devices: maps.Clone(t.devices),
		sensors: maps.Clone(t.sensors),
		configs: maps.Clone(t.configs),
	}
}

type fakeTx struct {
	hooks []func()
}

type fakeTxKey struct{}

// fakeDB is an in-memory stand-in for every repository and the transactor.
// Each transaction or savepoint snapshots the tables and restores them when
// its function fails.
type fakeDB struct {
	t      tables
	nextID int64
	now    time.Time

	// fail maps "Method:key" or "Method:*" to the error the call returns.
	fail map[string]error

	commits int
}

func newFakeDB() *fakeDB {
	db := &fakeDB{
		t: tables{
			groups:  map[int64]domain.Group{},
			devices: map[string]domain.Device{},
			sensors: map[string]domain.Sensor{},
			configs: map[configKey]domain.MBRTUConfig{},
		},
		now:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		fail: map[string]error{},
	}
	db.t.groups[1] = domain.Group{ID: 1, Name: "default", Description: "Default group", IsDefault: true}
	db.nextID = 2
	return db
}

func (db *fakeDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *fakeDB) injected(method, key string) error {
	if err, ok := db.fail[method+":"+key]; ok {
		return err
	}
	return db.fail[method+":*"]
}

// Transactor

func (db *fakeDB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	parent, nested := ctx.Value(fakeTxKey{}).(*fakeTx)

	snapshot := db.t.clone()
	tx := &fakeTx{}

	if err := fn(context.WithValue(ctx, fakeTxKey{}, tx)); err != nil {
		db.t = snapshot
		return err
	}

	if nested {
		parent.hooks = append(parent.hooks, tx.hooks...)
		return nil
	}

	db.commits++
	for _, hook := range tx.hooks {
		hook()
	}

	return nil
}

func (db *fakeDB) AfterCommit(ctx context.Context, fn func()) {
	if tx, ok := ctx.Value(fakeTxKey{}).(*fakeTx); ok {
		tx.hooks = append(tx.hooks, fn)
		return
	}
	fn()
}

func (db *fakeDB) InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(fakeTxKey{}).(*fakeTx)
	return ok
}

// Groups

func (db *fakeDB) sortedGroups() []domain.Group {
	groups := slices.Collect(maps.Values(db.t.groups))
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].IsDefault != groups[j].IsDefault {
			return groups[i].IsDefault
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}

func (db *fakeDB) Names(context.Context) ([]string, error) {
	if err := db.injected("Names", "*"); err != nil {
		return nil, err
	}
	var names []string
	for _, g := range db.sortedGroups() {
		names = append(names, g.Name)
	}
	return names, nil
}

func (db *fakeDB) Groups(context.Context) ([]*domain.Group, error) {
	var groups []*domain.Group
	for _, g := range db.sortedGroups() {
		groups = append(groups, &g)
	}
	return groups, nil
}

func (db *fakeDB) Default(context.Context) (*domain.Group, error) {
	for _, g := range db.t.groups {
		if g.IsDefault {
			return &g, nil
		}
	}
	return nil, domain.ErrDefaultGroupNotFound
}

func (db *fakeDB) GroupByID(_ context.Context, id int64) (*domain.Group, error) {
	g, ok := db.t.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	return &g, nil
}

func (db *fakeDB) NameExists(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, g := range db.t.groups {
		if g.Name == name && g.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (db *fakeDB) CreateGroup(_ context.Context, in domain.GroupInput) (*domain.Group, error) {
	if exists, _ := db.NameExists(context.Background(), in.Name, 0); exists {
		return nil, domain.ErrGroupExists
	}
	g := domain.Group{ID: db.id(), Name: in.Name, Description: in.Description, CreatedAt: db.now, UpdatedAt: db.now}
	db.t.groups[g.ID] = g
	return &g, nil
}

func (db *fakeDB) UpdateGroup(_ context.Context, id int64, in domain.GroupInput) (*domain.Group, error) {
	g, ok := db.t.groups[id]
	if !ok || g.IsDefault {
		return nil, domain.ErrGroupNotFound
	}
	old := g.Name
	g.Name, g.Description = in.Name, in.Description
	db.t.groups[id] = g
	for k, d := range db.t.devices {
		if d.Group == old {
			d.Group = g.Name
			db.t.devices[k] = d
		}
	}
	return &g, nil
}

func (db *fakeDB) ReassignAndDelete(_ context.Context, id int64, from, to string) (int64, error) {
	var moved int64
	for k, d := range db.t.devices {
		if d.Group == from {
			d.Group = to
			db.t.devices[k] = d
			moved++
		}
	}
	g, ok := db.t.groups[id]
	if !ok || g.IsDefault {
		return 0, domain.ErrGroupNotFound
	}
	delete(db.t.groups, id)
	return moved, nil
}

// Devices

func (db *fakeDB) Device(_ context.Context, dtuID string) (*domain.Device, error) {
	d, ok := db.t.devices[dtuID]
	if !ok {
		return nil, domain.ErrDeviceNotFound
	}
	return &d, nil
}

func (db *fakeDB) DeviceExists(_ context.Context, dtuID string) (bool, error) {
	_, ok := db.t.devices[dtuID]
	return ok, nil
}

func (db *fakeDB) Devices(_ context.Context, f domain.DeviceFilter, page domain.Pagination) ([]*domain.Device, int64, error) {
	if err := db.injected("Devices", "*"); err != nil {
		return nil, -1, err
	}

	var all []domain.Device
	for _, d := range db.t.devices {
		if f.Group != "" && d.Group != f.Group {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			serial := ""
			if d.SerialNumber != nil {
				serial = *d.SerialNumber
			}
			if !strings.Contains(strings.ToLower(d.Name), q) &&
				!strings.Contains(strings.ToLower(d.DtuID), q) &&
				!strings.Contains(strings.ToLower(serial), q) {
				continue
			}
		}
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := min(int(page.Offset()), len(all))
	end := min(start+page.Limit, len(all))

	var out []*domain.Device
	for _, d := range all[start:end] {
		out = append(out, &d)
	}

	return out, int64(len(all)), nil
}

func (db *fakeDB) CreateDevice(_ context.Context, d *domain.Device) (*domain.Device, error) {
	if err := db.injected("CreateDevice", d.DtuID); err != nil {
		return nil, err
	}
	if _, ok := db.t.devices[d.DtuID]; ok {
		return nil, domain.ErrDeviceExists
	}
	if exists, _ := db.NameExists(context.Background(), d.Group, 0); !exists {
		return nil, domain.ErrGroupNotFound
	}
	created := *d
	created.ID = db.id()
	created.CreatedAt, created.UpdatedAt = db.now, db.now
	db.t.devices[created.DtuID] = created
	return &created, nil
}

func (db *fakeDB) UpdateDevice(_ context.Context, d *domain.Device) (*domain.Device, error) {
	current, ok := db.t.devices[d.DtuID]
	if !ok {
		return nil, domain.ErrDeviceNotFound
	}
	updated := *d
	updated.ID, updated.CreatedAt = current.ID, current.CreatedAt
	updated.UpdatedAt = db.now.Add(time.Minute)
	db.t.devices[d.DtuID] = updated
	return &updated, nil
}

func (db *fakeDB) States(_ context.Context, ids []string, _ bool) ([]domain.DeviceState, error) {
	var states []domain.DeviceState
	for _, id := range ids {
		if d, ok := db.t.devices[id]; ok {
			states = append(states, domain.DeviceState{DtuID: d.DtuID, Group: d.Group, Status: d.Status})
		}
	}
	return states, nil
}

func (db *fakeDB) SetStatus(_ context.Context, ids []string, to domain.Status, from ...domain.Status) (int64, error) {
	var n int64
	for _, id := range ids {
		d, ok := db.t.devices[id]
		if !ok || (len(from) > 0 && !slices.Contains(from, d.Status)) {
			continue
		}
		d.Status = to
		db.t.devices[id] = d
		n++
	}
	return n, nil
}

func (db *fakeDB) MoveDevices(_ context.Context, ids []string, group string) (int64, error) {
	var n int64
	for _, id := range ids {
		if d, ok := db.t.devices[id]; ok {
			d.Group = group
			db.t.devices[id] = d
			n++
		}
	}
	return n, nil
}

func (db *fakeDB) Purge(_ context.Context, ids []string) (*domain.CascadeResult, error) {
	if err := db.injected("Purge", "*"); err != nil {
		return nil, err
	}
	res := &domain.CascadeResult{Dependents: []domain.TableCount{{Table: "mb_rtu"}, {Table: "sensors"}}}
	for k := range db.t.configs {
		if slices.Contains(ids, k.dtuID) {
			delete(db.t.configs, k)
			res.Dependents[0].Affected++
		}
	}
	for k, s := range db.t.sensors {
		if slices.Contains(ids, s.DtuID) {
			delete(db.t.sensors, k)
			res.Dependents[1].Affected++
		}
	}
	for _, id := range ids {
		if _, ok := db.t.devices[id]; ok {
			delete(db.t.devices, id)
			res.Primary++
		}
	}
	res.Total = res.Dependents[0].Affected + res.Dependents[1].Affected + res.Primary
	return res, nil
}

func (db *fakeDB) StatusCounts(context.Context) (map[domain.Status]int64, error) {
	counts := map[domain.Status]int64{}
	for _, d := range db.t.devices {
		counts[d.Status]++
	}
	return counts, nil
}

// Sensors

func (db *fakeDB) Sensor(_ context.Context, sensorID string) (*domain.Sensor, error) {
	s, ok := db.t.sensors[sensorID]
	if !ok {
		return nil, domain.ErrSensorNotFound
	}
	return &s, nil
}

func (db *fakeDB) SensorsByDevice(_ context.Context, dtuID string) ([]*domain.Sensor, error) {
	var out []*domain.Sensor
	for _, s := range db.t.sensors {
		if s.DtuID == dtuID {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (db *fakeDB) CreateSensor(_ context.Context, s *domain.Sensor) (*domain.Sensor, error) {
	if err := db.injected("CreateSensor", s.SensorID); err != nil {
		return nil, err
	}
	if _, ok := db.t.sensors[s.SensorID]; ok {
		return nil, domain.ErrSensorExists
	}
	if _, ok := db.t.devices[s.DtuID]; !ok {
		return nil, domain.ErrDeviceNotFound
	}
	created := *s
	created.ID = db.id()
	created.CreatedAt, created.UpdatedAt = db.now, db.now
	db.t.sensors[created.SensorID] = created
	return &created, nil
}

func (db *fakeDB) UpdateSensor(_ context.Context, sensorID string, columns map[string]any) (*domain.Sensor, error) {
	if len(columns) == 0 {
		return nil, domain.ErrNothingToUpdate
	}
	s, ok := db.t.sensors[sensorID]
	if !ok {
		return nil, domain.ErrSensorNotFound
	}
	if v, ok := columns["sensor_name"].(*string); ok {
		s.Name = *v
	}
	if v, ok := columns["unit"].(*string); ok {
		s.Unit = v
	}
	if v, ok := columns["upper_mapping_x1"].(*float64); ok {
		s.UpperX1 = v
	}
	db.t.sensors[sensorID] = s
	return &s, nil
}

func (db *fakeDB) DeleteSensor(_ context.Context, sensorID string) (*domain.CascadeResult, error) {
	res := &domain.CascadeResult{Dependents: []domain.TableCount{{Table: "mb_rtu"}}}
	for k := range db.t.configs {
		if k.sensorID == sensorID {
			delete(db.t.configs, k)
			res.Dependents[0].Affected++
		}
	}
	if _, ok := db.t.sensors[sensorID]; !ok {
		return nil, domain.ErrSensorNotFound
	}
	delete(db.t.sensors, sensorID)
	res.Primary = 1
	res.Total = res.Primary + res.Dependents[0].Affected
	return res, nil
}

// MB-RTU configs

func (db *fakeDB) Config(_ context.Context, dtuID, sensorID string) (*domain.MBRTUConfig, error) {
	c, ok := db.t.configs[configKey{dtuID, sensorID}]
	if !ok {
		return nil, domain.ErrConfigNotFound
	}
	return &c, nil
}

func (db *fakeDB) ConfigsByDevice(_ context.Context, dtuID string) ([]*domain.MBRTUConfig, error) {
	var out []*domain.MBRTUConfig
	for k, c := range db.t.configs {
		if k.dtuID == dtuID {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (db *fakeDB) CreateConfig(_ context.Context, c *domain.MBRTUConfig) (*domain.MBRTUConfig, error) {
	if err := db.injected("CreateConfig", c.SensorID); err != nil {
		return nil, err
	}
	k := configKey{c.DtuID, c.SensorID}
	if _, ok := db.t.configs[k]; ok {
		return nil, domain.ErrConfigExists
	}
	if _, ok := db.t.devices[c.DtuID]; !ok {
		return nil, domain.ErrReference
	}
	if _, ok := db.t.sensors[c.SensorID]; !ok {
		return nil, domain.ErrReference
	}
	created := *c
	created.ID = db.id()
	db.t.configs[k] = created
	return &created, nil
}

func (db *fakeDB) UpdateConfig(_ context.Context, dtuID, sensorID string, columns map[string]any) (*domain.MBRTUConfig, error) {
	if len(columns) == 0 {
		return nil, domain.ErrNothingToUpdate
	}
	k := configKey{dtuID, sensorID}
	c, ok := db.t.configs[k]
	if !ok {
		return nil, domain.ErrConfigNotFound
	}
	if v, ok := columns["slave_address"].(int); ok {
		c.SlaveAddress = v
	}
	if v, ok := columns["collection_cycle"].(int); ok {
		c.CollectionCycle = v
	}
	if v, ok := columns["function_code"].(domain.FunctionCode); ok {
		c.FunctionCode = v
	}
	db.t.configs[k] = c
	return &c, nil
}

func (db *fakeDB) DeleteConfig(_ context.Context, dtuID, sensorID string) (int64, error) {
	k := configKey{dtuID, sensorID}
	if _, ok := db.t.configs[k]; !ok {
		return 0, domain.ErrConfigNotFound
	}
	delete(db.t.configs, k)
	return 1, nil
}

// Fixtures

func (db *fakeDB) addGroup(name string) int64 {
	g := domain.Group{ID: db.id(), Name: name}
	db.t.groups[g.ID] = g
	return g.ID
}

func (db *fakeDB) addDevice(dtuID, group string, status domain.Status) {
	serial := "SN-" + dtuID
	db.t.devices[dtuID] = domain.Device{
		ID:           db.id(),
		DtuID:        dtuID,
		SerialNumber: &serial,
		Group:        group,
		Name:         "Device " + dtuID,
		LinkProtocol: domain.DefaultLinkProtocol,
		OfflineDelay: domain.DefaultOfflineDelay,
		Timezone:     domain.DefaultTimezone,
		Status:       status,
	}
}

func (db *fakeDB) addSensor(dtuID, sensorID string, withConfig bool) {
	x1, y1, x2, y2 := 0.0, 0.0, 4095.0, 100.0
	db.t.sensors[sensorID] = domain.Sensor{
		ID:       db.id(),
		SensorID: sensorID,
		DtuID:    dtuID,
		Icon:     domain.DefaultSensorIcon,
		Name:     "Sensor " + sensorID,
		UpperX1:  &x1,
		UpperY1:  &y1,
		UpperX2:  &x2,
		UpperY2:  &y2,
	}
	if withConfig {
		cfg := domain.DefaultConfig(dtuID, sensorID)
		cfg.ID = db.id()
		cfg.SlaveAddress = 7
		db.t.configs[configKey{dtuID, sensorID}] = *cfg
	}
}

func (db *fakeDB) sensorsOf(dtuID string) []domain.Sensor {
	var out []domain.Sensor
	for _, s := range db.t.sensors {
		if s.DtuID == dtuID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (db *fakeDB) defaultGroups() int {
	n := 0
	for _, g := range db.t.groups {
		if g.IsDefault {
			n++
		}
	}
	return n
}

func (db *fakeDB) String() string {
	return fmt.Sprintf("groups=%d devices=%d sensors=%d configs=%d",
		len(db.t.groups), len(db.t.devices), len(db.t.sensors), len(db.t.configs))
}
