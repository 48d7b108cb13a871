package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

const TableDevices = "dtu_devices"

var deviceColumns = []string{
	"id",
	"dtu_id",
	"serial_number",
	"dtu_group",
	"dtu_name",
	"dtu_image",
	"link_protocol",
	"offline_delay",
	"timezone_setting",
	"longitude",
	"latitude",
	"status",
	"created_at",
	"updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type DevicesRepository struct {
	pool *pgxpool.Pool
	tx   *TxManager
	qb   sq.StatementBuilderType
}

func NewDevicesRepository(pool *pgxpool.Pool, tx *TxManager) *DevicesRepository {
	return &DevicesRepository{
		pool: pool,
		tx:   tx,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *DevicesRepository) Device(ctx context.Context, dtuID string) (*domain.Device, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(deviceColumns...).
		From(TableDevices).
		Where(sq.Eq{"dtu_id": dtuID}).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	device, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Device])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, collectRowsError(err)
	}

	return device, nil
}

func (r *DevicesRepository) DeviceExists(ctx context.Context, dtuID string) (bool, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("1").
		Prefix("SELECT EXISTS (").
		From(TableDevices).
		Where(sq.Eq{"dtu_id": dtuID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, createQueryError(err)
	}

	var exists bool
	if err := db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, scanRowError(err)
	}

	return exists, nil
}

func (r *DevicesRepository) Devices(
	ctx context.Context,
	filter domain.DeviceFilter,
	page domain.Pagination,
) ([]*domain.Device, int64, error) {
	db := extractDB(ctx, r.pool)

	where := sq.And{}
	if filter.Group != "" {
		where = append(where, sq.Eq{"dtu_group": filter.Group})
	}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"dtu_name": pattern},
			sq.ILike{"dtu_id": pattern},
			sq.ILike{"serial_number": pattern},
		})
	}

	sql, args, err := r.qb.
		Select("COUNT(*)").
		From(TableDevices).
		Where(where).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	var total int64
	if err := db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, -1, scanRowError(err)
	}

	sql, args, err = r.qb.
		Select(deviceColumns...).
		From(TableDevices).
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Limit)).
		Offset(page.Offset()).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, -1, executeQueryError(err)
	}

	devices, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.Device])
	if err != nil {
		return nil, -1, collectRowsError(err)
	}

	return devices, total, nil
}

func (r *DevicesRepository) CreateDevice(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Insert(TableDevices).
		Columns(
			"dtu_id",
			"serial_number",
			"dtu_group",
			"dtu_name",
			"dtu_image",
			"link_protocol",
			"offline_delay",
			"timezone_setting",
			"longitude",
			"latitude",
			"status",
		).
		Values(
			d.DtuID,
			d.SerialNumber,
			d.Group,
			d.Name,
			d.Image,
			d.LinkProtocol,
			d.OfflineDelay,
			d.Timezone,
			d.Longitude,
			d.Latitude,
			d.Status,
		).
		Suffix("RETURNING " + columnList(deviceColumns)).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Device])
	if err != nil {
		if isViolation(err, codeForeignKeyViolation) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, constraintError(err, domain.ErrDeviceExists)
	}

	return created, nil
}

// UpdateDevice replaces every writable column of the device d.DtuID.
func (r *DevicesRepository) UpdateDevice(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Update(TableDevices).
		SetMap(map[string]any{
			"serial_number":    d.SerialNumber,
			"dtu_group":        d.Group,
			"dtu_name":         d.Name,
			"dtu_image":        d.Image,
			"link_protocol":    d.LinkProtocol,
			"offline_delay":    d.OfflineDelay,
			"timezone_setting": d.Timezone,
			"longitude":        d.Longitude,
			"latitude":         d.Latitude,
			"status":           d.Status,
			"updated_at":       sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"dtu_id": d.DtuID}).
		Suffix("RETURNING " + columnList(deviceColumns)).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Device])
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, domain.ErrDeviceNotFound
		case isViolation(err, codeForeignKeyViolation):
			return nil, domain.ErrGroupNotFound
		}
		return nil, collectRowsError(err)
	}

	return updated, nil
}

// States returns the lifecycle state of every existing device among ids.
// With lock set the rows stay locked until the surrounding transaction ends.
func (r *DevicesRepository) States(ctx context.Context, ids []string, lock bool) ([]domain.DeviceState, error) {
	db := extractDB(ctx, r.pool)

	q := r.qb.
		Select("dtu_id", "dtu_group", "status").
		From(TableDevices).
		Where(sq.Eq{"dtu_id": ids}).
		OrderBy("dtu_id")
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	states, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.DeviceState])
	if err != nil {
		return nil, collectRowsError(err)
	}

	return states, nil
}

// SetStatus changes the status of ids whose current status is one of from.
func (r *DevicesRepository) SetStatus(
	ctx context.Context,
	ids []string,
	to domain.Status,
	from ...domain.Status,
) (int64, error) {
	db := extractDB(ctx, r.pool)

	where := sq.And{sq.Eq{"dtu_id": ids}}
	if len(from) > 0 {
		where = append(where, sq.Eq{"status": from})
	}

	sql, args, err := r.qb.
		Update(TableDevices).
		Set("status", to).
		Set("updated_at", sq.Expr("NOW()")).
		Where(where).
		ToSql()
	if err != nil {
		return 0, createQueryError(err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, executeQueryError(err)
	}

	return tag.RowsAffected(), nil
}

func (r *DevicesRepository) MoveDevices(ctx context.Context, ids []string, group string) (int64, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Update(TableDevices).
		Set("dtu_group", group).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"dtu_id": ids}).
		ToSql()
	if err != nil {
		return 0, createQueryError(err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		if isViolation(err, codeForeignKeyViolation) {
			return 0, domain.ErrGroupNotFound
		}
		return 0, executeQueryError(err)
	}

	return tag.RowsAffected(), nil
}

// Purge removes soft-deleted devices together with their sensors and MB-RTU
// configs. Callers pass only ids already known to be in deleted status.
func (r *DevicesRepository) Purge(ctx context.Context, ids []string) (*domain.CascadeResult, error) {
	res, err := r.tx.CascadeDelete(ctx, TableDevices, "dtu_id", ids,
		CascadeTable{Table: TableMBRTU},
		CascadeTable{Table: TableSensors},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to purge devices: %w", err)
	}

	return res, nil
}

func (r *DevicesRepository) StatusCounts(ctx context.Context) (map[domain.Status]int64, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("status", "COUNT(*)").
		From(TableDevices).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int64, len(domain.Statuses))
	for rows.Next() {
		var (
			status domain.Status
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, scanRowError(err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, collectRowsError(err)
	}

	return counts, nil
}

func columnList(columns []string) string {
	return strings.Join(columns, ", ")
}
