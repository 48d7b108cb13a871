package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Error kinds. Every domain error wraps exactly one of them, so callers
// can branch with errors.Is on the kind instead of on the concrete error.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrBusinessRule       = errors.New("business rule violated")
	ErrTransientStorage   = errors.New("transient storage error")
	ErrLockTimeout        = fmt.Errorf("lock wait timeout: %w", ErrTransientStorage)
	ErrStorageUnavailable = fmt.Errorf("storage unavailable: %w", ErrTransientStorage)
)

var (
	ErrGroupNotFound        = fmt.Errorf("group: %w", ErrNotFound)
	ErrGroupExists          = fmt.Errorf("group name: %w", ErrConflict)
	ErrDefaultGroupNotFound = fmt.Errorf("default group: %w", ErrNotFound)
	ErrDefaultGroupLocked   = fmt.Errorf("default group cannot be renamed or deleted: %w", ErrBusinessRule)

	ErrDeviceNotFound = fmt.Errorf("device: %w", ErrNotFound)
	ErrDeviceExists   = fmt.Errorf("device id: %w", ErrConflict)
	ErrDeviceGone     = fmt.Errorf("device not found or deleted: %w", ErrNotFound)
	ErrNotDeleted     = fmt.Errorf("device is not deleted: %w", ErrBusinessRule)
	ErrAlreadyDeleted = fmt.Errorf("device is already deleted: %w", ErrBusinessRule)
	// Update may not move a device into or out of the deleted status.
	ErrDeletedStatusLocked = fmt.Errorf("deleted status changes only through delete or restore: %w", ErrBusinessRule)

	ErrSensorNotFound = fmt.Errorf("sensor: %w", ErrNotFound)
	ErrSensorExists   = fmt.Errorf("sensor id: %w", ErrConflict)
	ErrSensorMismatch = fmt.Errorf("sensor does not belong to device: %w", ErrNotFound)

	ErrConfigNotFound = fmt.Errorf("mb-rtu config: %w", ErrNotFound)
	ErrConfigExists   = fmt.Errorf("mb-rtu config: %w", ErrConflict)

	ErrNothingToUpdate = fmt.Errorf("no fields to update: %w", ErrBusinessRule)
	ErrReference       = fmt.Errorf("referenced row is missing: %w", ErrBusinessRule)
)

// ValidationError collects every violated field rule of one input.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0]
	}
	return fmt.Sprintf("%d validation problems, first: %s", len(e.Problems), e.Problems[0])
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type validator struct {
	prefix   string
	problems []string
}

func (v *validator) check(ok bool, format string, args ...any) {
	if !ok {
		v.problems = append(v.problems, v.prefix+fmt.Sprintf(format, args...))
	}
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

func indexPrefix(i, n int) string {
	if n <= 1 {
		return ""
	}
	return "[" + strconv.Itoa(i) + "]."
}

// JoinValidation merges the problems of several validation results into one
// ValidationError. Nil errors are skipped; any other error is returned as is.
func JoinValidation(errs ...error) error {
	var problems []string
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		problems = append(problems, verr.Problems...)
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
