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

const TableGroups = "dtu_groups"

var groupColumns = []string{
	"id",
	"group_name",
	"description",
	"is_default",
	"created_at",
	"updated_at",
}

type GroupsRepository struct {
	pool *pgxpool.Pool
	tx   *TxManager
	qb   sq.StatementBuilderType
}

func NewGroupsRepository(pool *pgxpool.Pool, tx *TxManager) *GroupsRepository {
	return &GroupsRepository{
		pool: pool,
		tx:   tx,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *GroupsRepository) Names(ctx context.Context) ([]string, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("group_name").
		From(TableGroups).
		OrderBy("is_default DESC", "group_name ASC").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, collectRowsError(err)
	}

	return names, nil
}

func (r *GroupsRepository) Groups(ctx context.Context) ([]*domain.Group, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(groupColumns...).
		From(TableGroups).
		OrderBy("is_default DESC", "group_name ASC").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	groups, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.Group])
	if err != nil {
		return nil, collectRowsError(err)
	}

	return groups, nil
}

func (r *GroupsRepository) Default(ctx context.Context) (*domain.Group, error) {
	group, err := r.groupWhere(ctx, sq.Eq{"is_default": true})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDefaultGroupNotFound
	}

	return group, err
}

func (r *GroupsRepository) GroupByID(ctx context.Context, id int64) (*domain.Group, error) {
	group, err := r.groupWhere(ctx, sq.Eq{"id": id})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGroupNotFound
	}

	return group, err
}

func (r *GroupsRepository) groupWhere(ctx context.Context, pred sq.Sqlizer) (*domain.Group, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(groupColumns...).
		From(TableGroups).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	group, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Group])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, collectRowsError(err)
	}

	return group, nil
}

// NameExists reports whether a group other than excludeID is called name.
// Pass 0 to check against every group.
func (r *GroupsRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	db := extractDB(ctx, r.pool)

	where := sq.And{sq.Eq{"group_name": name}}
	if excludeID != 0 {
		where = append(where, sq.NotEq{"id": excludeID})
	}

	sql, args, err := r.qb.
		Select("1").
		Prefix("SELECT EXISTS (").
		From(TableGroups).
		Where(where).
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

func (r *GroupsRepository) CreateGroup(ctx context.Context, in domain.GroupInput) (*domain.Group, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Insert(TableGroups).
		Columns("group_name", "description").
		Values(in.Name, in.Description).
		Suffix("RETURNING " + columnList(groupColumns)).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	group, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Group])
	if err != nil {
		return nil, constraintError(err, domain.ErrGroupExists)
	}

	return group, nil
}

// UpdateGroup renames a non-default group. Devices follow the rename through
// the foreign key's ON UPDATE CASCADE.
func (r *GroupsRepository) UpdateGroup(ctx context.Context, id int64, in domain.GroupInput) (*domain.Group, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Update(TableGroups).
		Set("group_name", in.Name).
		Set("description", in.Description).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "is_default": false}).
		Suffix("RETURNING " + columnList(groupColumns)).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	group, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Group])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, constraintError(err, domain.ErrGroupExists)
	}

	return group, nil
}

// ReassignAndDelete moves every device of group from to group to and removes
// the group row in one transaction. It returns the number of moved devices.
func (r *GroupsRepository) ReassignAndDelete(ctx context.Context, id int64, from, to string) (int64, error) {
	affected, err := r.tx.BatchExecute(ctx,
		r.qb.Update(TableDevices).
			Set("dtu_group", to).
			Set("updated_at", sq.Expr("NOW()")).
			Where(sq.Eq{"dtu_group": from}),
		r.qb.Delete(TableGroups).
			Where(sq.Eq{"id": id, "is_default": false}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group: %w", err)
	}

	if affected[1] == 0 {
		return 0, domain.ErrGroupNotFound
	}

	return affected[0], nil
}
