package postgresql

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

const TableMBRTU = "mb_rtu"

var configColumns = []string{
	"id",
	"dtu_id",
	"sensor_id",
	"slave_address",
	"function_code",
	"offset_value",
	"data_format",
	"data_bits",
	"byte_order_value",
	"collection_cycle",
	"created_at",
	"updated_at",
}

type MBRTURepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewMBRTURepository(pool *pgxpool.Pool) *MBRTURepository {
	return &MBRTURepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *MBRTURepository) Config(ctx context.Context, dtuID, sensorID string) (*domain.MBRTUConfig, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(configColumns...).
		From(TableMBRTU).
		Where(sq.Eq{"dtu_id": dtuID, "sensor_id": sensorID}).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	cfg, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.MBRTUConfig])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, collectRowsError(err)
	}

	return cfg, nil
}

func (r *MBRTURepository) ConfigsByDevice(ctx context.Context, dtuID string) ([]*domain.MBRTUConfig, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(configColumns...).
		From(TableMBRTU).
		Where(sq.Eq{"dtu_id": dtuID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	cfgs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.MBRTUConfig])
	if err != nil {
		return nil, collectRowsError(err)
	}

	return cfgs, nil
}

func (r *MBRTURepository) CreateConfig(ctx context.Context, c *domain.MBRTUConfig) (*domain.MBRTUConfig, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Insert(TableMBRTU).
		Columns(
			"dtu_id",
			"sensor_id",
			"slave_address",
			"function_code",
			"offset_value",
			"data_format",
			"data_bits",
			"byte_order_value",
			"collection_cycle",
		).
		Values(
			c.DtuID,
			c.SensorID,
			c.SlaveAddress,
			c.FunctionCode,
			c.OffsetValue,
			c.DataFormat,
			c.DataBits,
			c.ByteOrder,
			c.CollectionCycle,
		).
		Suffix("RETURNING " + columnList(configColumns)).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.MBRTUConfig])
	if err != nil {
		return nil, constraintError(err, domain.ErrConfigExists)
	}

	return created, nil
}

func (r *MBRTURepository) UpdateConfig(
	ctx context.Context,
	dtuID, sensorID string,
	columns map[string]any,
) (*domain.MBRTUConfig, error) {
	if len(columns) == 0 {
		return nil, domain.ErrNothingToUpdate
	}

	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Update(TableMBRTU).
		SetMap(columns).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"dtu_id": dtuID, "sensor_id": sensorID}).
		Suffix("RETURNING " + columnList(configColumns)).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.MBRTUConfig])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, collectRowsError(err)
	}

	return updated, nil
}

func (r *MBRTURepository) DeleteConfig(ctx context.Context, dtuID, sensorID string) (int64, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Delete(TableMBRTU).
		Where(sq.Eq{"dtu_id": dtuID, "sensor_id": sensorID}).
		ToSql()
	if err != nil {
		return 0, createQueryError(err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, executeQueryError(err)
	}

	if tag.RowsAffected() == 0 {
		return 0, domain.ErrConfigNotFound
	}

	return tag.RowsAffected(), nil
}
