package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
)

func createQueryError(err error) error {
	return fmt.Errorf("failed to create query: %w", err)
}

func executeQueryError(err error) error {
	return fmt.Errorf("failed to execute query: %w", classify(err))
}

func scanRowError(err error) error {
	return fmt.Errorf("failed to scan row: %w", classify(err))
}

func collectRowsError(err error) error {
	return fmt.Errorf("failed to collect rows: %w", classify(err))
}

// IsRetryable reports whether err is a transient storage failure worth
// repeating the whole transaction for.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	for _, kind := range []error{domain.ErrValidation, domain.ErrNotFound, domain.ErrConflict, domain.ErrBusinessRule} {
		if errors.Is(err, kind) {
			return false
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeDeadlockDetected, codeSerializationFailure, codeLockNotAvailable, codeQueryCanceled:
			return true
		}
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "timeout") || strings.Contains(msg, "connection")
}

// classify tags transient storage failures with the domain kind that
// decides how they surface to clients.
func classify(err error) error {
	if err == nil || errors.Is(err, domain.ErrTransientStorage) || !IsRetryable(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == codeLockNotAvailable || pgErr.Code == codeQueryCanceled) {
		return fmt.Errorf("%w: %w", domain.ErrLockTimeout, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrLockTimeout, err)
	}

	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}

func isViolation(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// constraintError maps integrity violations to domain errors. A unique
// violation becomes conflict, a missing reference becomes domain.ErrReference.
func constraintError(err, conflict error) error {
	switch {
	case isViolation(err, codeUniqueViolation):
		return conflict
	case isViolation(err, codeForeignKeyViolation):
		return domain.ErrReference
	}
	return executeQueryError(err)
}
