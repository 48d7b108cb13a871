package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner opens top-level transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxObserver receives transaction outcomes. Outcome is "commit" or "rollback".
type TxObserver interface {
	ObserveTx(outcome string, d time.Duration)
	IncTxRetries()
}

type TxOptions struct {
	IsoLevel   pgx.TxIsoLevel
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		Timeout:    30 * time.Second,
		Retries:    3,
		RetryDelay: time.Second,
	}
}

// ParseIsoLevel accepts the SQL spelling of an isolation level, case
// insensitive, with spaces or underscores.
func ParseIsoLevel(level string) (pgx.TxIsoLevel, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(level)), "_", " ") {
	case "", "read committed":
		return pgx.ReadCommitted, nil
	case "read uncommitted":
		return pgx.ReadUncommitted, nil
	case "repeatable read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	}
	return "", fmt.Errorf("unknown isolation level %q", level)
}

type ctxKey struct{}

type txState struct {
	tx    pgx.Tx
	hooks []func()
}

// TxManager runs units of work inside transactions. The open transaction
// travels in the context; nested calls become savepoints of the outer one.
type TxManager struct {
	db       TxBeginner
	log      *slog.Logger
	opts     TxOptions
	observer TxObserver
	qb       sq.StatementBuilderType
}

func NewTxManager(db TxBeginner, log *slog.Logger, opts TxOptions, observer TxObserver) *TxManager {
	return &TxManager{
		db:       db,
		log:      log,
		opts:     opts,
		observer: observer,
		qb:       sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Execute(ctx, m.opts, fn)
}

// Execute runs fn in a transaction. Transient failures are retried with a
// linearly growing delay until opts.Retries attempts are used up. When ctx
// already carries a transaction, fn runs in a savepoint and is not retried.
func (m *TxManager) Execute(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	if state, ok := ctx.Value(ctxKey{}).(*txState); ok {
		return m.savepoint(ctx, state, fn)
	}

	start := time.Now()
	attempts := max(opts.Retries, 1)

	var err error
	for attempt := 1; ; attempt++ {
		err = m.attempt(ctx, opts, fn)
		if err == nil {
			m.observe("commit", start)
			return nil
		}

		if attempt >= attempts || ctx.Err() != nil || !IsRetryable(err) {
			break
		}

		delay := opts.RetryDelay * time.Duration(attempt)
		m.log.WarnContext(ctx, "transaction failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", delay),
			slog.String("err", err.Error()))
		if m.observer != nil {
			m.observer.IncTxRetries()
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			m.observe("rollback", start)
			return classify(err)
		}
	}

	m.observe("rollback", start)

	return classify(err)
}

func (m *TxManager) attempt(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: opts.IsoLevel})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			m.log.WarnContext(ctx, "failed to roll back transaction", slog.String("err", err.Error()))
		}
	}()

	m.log.DebugContext(ctx, "transaction started", slog.String("isolation", string(opts.IsoLevel)))

	state := &txState{tx: tx}
	if err := fn(context.WithValue(ctx, ctxKey{}, state)); err != nil {
		m.log.DebugContext(ctx, "transaction rolled back", slog.String("err", err.Error()))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	m.log.DebugContext(ctx, "transaction committed")

	for _, hook := range state.hooks {
		hook()
	}

	return nil
}

func (m *TxManager) savepoint(ctx context.Context, parent *txState, fn func(ctx context.Context) error) error {
	sp, err := parent.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}
	defer func() {
		if err := sp.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			m.log.WarnContext(ctx, "failed to roll back savepoint", slog.String("err", err.Error()))
		}
	}()

	state := &txState{tx: sp}
	if err := fn(context.WithValue(ctx, ctxKey{}, state)); err != nil {
		return err
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}

	parent.hooks = append(parent.hooks, state.hooks...)

	return nil
}

// AfterCommit defers fn until the outermost transaction of ctx commits. The
// hook is dropped if the transaction, or the savepoint it was registered in,
// rolls back. Outside a transaction fn runs immediately.
func (m *TxManager) AfterCommit(ctx context.Context, fn func()) {
	if state, ok := ctx.Value(ctxKey{}).(*txState); ok {
		state.hooks = append(state.hooks, fn)
		return
	}
	fn()
}

func (m *TxManager) InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKey{}).(*txState)
	return ok
}

// BatchExecute runs stmts in order inside one transaction and returns the
// affected row count of each.
func (m *TxManager) BatchExecute(ctx context.Context, stmts ...sq.Sqlizer) ([]int64, error) {
	affected := make([]int64, 0, len(stmts))

	err := m.WithTransaction(ctx, func(ctx context.Context) error {
		affected = affected[:0]
		db := ctx.Value(ctxKey{}).(*txState).tx

		for i, stmt := range stmts {
			sql, args, err := stmt.ToSql()
			if err != nil {
				return createQueryError(err)
			}

			tag, err := db.Exec(ctx, sql, args...)
			if err != nil {
				return fmt.Errorf("statement %d: %w", i, executeQueryError(err))
			}

			affected = append(affected, tag.RowsAffected())
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return affected, nil
}

// CascadeTable is a dependent table cleared before its parent. Field
// defaults to the parent's id field.
type CascadeTable struct {
	Table string
	Field string
}

// CascadeDelete removes the rows matching ids from every cascade table, in
// the given order, and then from table, all inside one transaction.
func (m *TxManager) CascadeDelete(
	ctx context.Context,
	table, idField string,
	ids []string,
	cascade ...CascadeTable,
) (*domain.CascadeResult, error) {
	stmts := make([]sq.Sqlizer, 0, len(cascade)+1)
	for _, dep := range cascade {
		field := dep.Field
		if field == "" {
			field = idField
		}
		stmts = append(stmts, m.qb.Delete(dep.Table).Where(sq.Eq{field: ids}))
	}
	stmts = append(stmts, m.qb.Delete(table).Where(sq.Eq{idField: ids}))

	affected, err := m.BatchExecute(ctx, stmts...)
	if err != nil {
		return nil, fmt.Errorf("failed to cascade delete from %s: %w", table, err)
	}

	res := &domain.CascadeResult{Dependents: make([]domain.TableCount, 0, len(cascade))}
	for i, dep := range cascade {
		res.Dependents = append(res.Dependents, domain.TableCount{Table: dep.Table, Affected: affected[i]})
		res.Total += affected[i]
	}
	res.Primary = affected[len(cascade)]
	res.Total += res.Primary

	return res, nil
}

// Ping checks that a transaction can be opened and committed.
func (m *TxManager) Ping(ctx context.Context) error {
	return m.Execute(ctx, TxOptions{IsoLevel: pgx.ReadCommitted, Timeout: 5 * time.Second, Retries: 1}, func(ctx context.Context) error {
		var one int
		return extractDB(ctx, nil).QueryRow(ctx, "SELECT 1").Scan(&one)
	})
}

func (m *TxManager) observe(outcome string, start time.Time) {
	if m.observer != nil {
		m.observer.ObserveTx(outcome, time.Since(start))
	}
}

func extractDB(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if state, ok := ctx.Value(ctxKey{}).(*txState); ok {
		return state.tx
	}

	return pool
}
