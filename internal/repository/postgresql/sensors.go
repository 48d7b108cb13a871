package postgresql

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

const TableSensors = "sensors"

var sensorColumns = []string{
	"id",
	"sensor_id",
	"dtu_id",
	"icon",
	"sensor_name",
	"sensor_type",
	"decimal_places",
	"unit",
	"sort_order",
	"upper_mapping_x1",
	"upper_mapping_y1",
	"upper_mapping_x2",
	"upper_mapping_y2",
	"lower_mapping_x1",
	"lower_mapping_y1",
	"lower_mapping_x2",
	"lower_mapping_y2",
	"created_at",
	"updated_at",
}

type SensorsRepository struct {
	pool *pgxpool.Pool
	tx   *TxManager
	qb   sq.StatementBuilderType
}

func NewSensorsRepository(pool *pgxpool.Pool, tx *TxManager) *SensorsRepository {
	return &SensorsRepository{
		pool: pool,
		tx:   tx,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *SensorsRepository) Sensor(ctx context.Context, sensorID string) (*domain.Sensor, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(sensorColumns...).
		From(TableSensors).
		Where(sq.Eq{"sensor_id": sensorID}).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	sensor, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Sensor])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSensorNotFound
		}
		return nil, collectRowsError(err)
	}

	return sensor, nil
}

func (r *SensorsRepository) SensorsByDevice(ctx context.Context, dtuID string) ([]*domain.Sensor, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(sensorColumns...).
		From(TableSensors).
		Where(sq.Eq{"dtu_id": dtuID}).
		OrderBy("sort_order ASC NULLS LAST", "id ASC").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	sensors, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.Sensor])
	if err != nil {
		return nil, collectRowsError(err)
	}

	return sensors, nil
}

func (r *SensorsRepository) CreateSensor(ctx context.Context, s *domain.Sensor) (*domain.Sensor, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Insert(TableSensors).
		Columns(
			"sensor_id",
			"dtu_id",
			"icon",
			"sensor_name",
			"sensor_type",
			"decimal_places",
			"unit",
			"sort_order",
			"upper_mapping_x1",
			"upper_mapping_y1",
			"upper_mapping_x2",
			"upper_mapping_y2",
			"lower_mapping_x1",
			"lower_mapping_y1",
			"lower_mapping_x2",
			"lower_mapping_y2",
		).
		Values(
			s.SensorID,
			s.DtuID,
			s.Icon,
			s.Name,
			s.Type,
			s.DecimalPlaces,
			s.Unit,
			s.SortOrder,
			s.UpperX1,
			s.UpperY1,
			s.UpperX2,
			s.UpperY2,
			s.LowerX1,
			s.LowerY1,
			s.LowerX2,
			s.LowerY2,
		).
		Suffix("RETURNING " + columnList(sensorColumns)).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Sensor])
	if err != nil {
		if isViolation(err, codeForeignKeyViolation) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, constraintError(err, domain.ErrSensorExists)
	}

	return created, nil
}

// UpdateSensor patches the given columns of one sensor.
func (r *SensorsRepository) UpdateSensor(ctx context.Context, sensorID string, columns map[string]any) (*domain.Sensor, error) {
	if len(columns) == 0 {
		return nil, domain.ErrNothingToUpdate
	}

	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Update(TableSensors).
		SetMap(columns).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"sensor_id": sensorID}).
		Suffix("RETURNING " + columnList(sensorColumns)).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Sensor])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSensorNotFound
		}
		return nil, collectRowsError(err)
	}

	return updated, nil
}

// DeleteSensor removes a sensor and its MB-RTU config in one transaction.
// A missing config is reported as a zero dependent count, not an error.
func (r *SensorsRepository) DeleteSensor(ctx context.Context, sensorID string) (*domain.CascadeResult, error) {
	res, err := r.tx.CascadeDelete(ctx, TableSensors, "sensor_id", []string{sensorID},
		CascadeTable{Table: TableMBRTU},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to delete sensor: %w", err)
	}

	if res.Primary == 0 {
		return nil, domain.ErrSensorNotFound
	}

	return res, nil
}
