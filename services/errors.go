package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors callers are expected to branch on.
var (
	// ErrNotFound means the requested entity id or number does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoFieldsToUpdate means a partial update supplied nothing recognized.
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// ValidationError reports one rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err carries a ValidationError anywhere in
// its chain (including joined errors).
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConstraintError reports a uniqueness or foreign-key breach that was not
// resolved internally.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation: %s", e.Constraint)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// IsConstraint reports whether err is a constraint violation.
func IsConstraint(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}

// StorageError wraps an underlying store or filesystem failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// translateDBError maps gorm errors onto the engine taxonomy.
func translateDBError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ConstraintError{Constraint: "unique", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ConstraintError{Constraint: "foreign key", Err: err}
	default:
		return &StorageError{Op: op, Err: err}
	}
}
