package adminkit

import (
	"errors"
	"fmt"
)

// Sentinel errors. The four class sentinels (ErrValidation, ErrNotFound,
// ErrBusinessRule, ErrInternal) partition every error returned by public
// operations; the named business-rule sentinels wrap ErrBusinessRule so both
// the class and the specific rule can be tested with errors.Is.
var (
	// ErrValidation is returned for malformed input, references to ids that
	// do not exist, and uniqueness violations.
	ErrValidation = errors.New("adminkit: validation failed")

	// ErrNotFound is returned when an entity lookup by id finds nothing.
	ErrNotFound = errors.New("adminkit: not found")

	// ErrBusinessRule is returned when an operation would break a domain
	// invariant (self-delete, delete-while-referenced, ...).
	ErrBusinessRule = errors.New("adminkit: business rule violation")

	// ErrInternal is returned for storage or transaction failures unrelated
	// to the caller's input.
	ErrInternal = errors.New("adminkit: internal error")
)

// Business-rule sentinels. Each wraps ErrBusinessRule.
var (
	ErrCannotDeleteSelf     = fmt.Errorf("%w: cannot delete self", ErrBusinessRule)
	ErrCannotDisableSelf    = fmt.Errorf("%w: cannot disable self", ErrBusinessRule)
	ErrRoleHasAdmins        = fmt.Errorf("%w: role still has admins assigned", ErrBusinessRule)
	ErrMenuHasChildren      = fmt.Errorf("%w: menu still has child menus", ErrBusinessRule)
	ErrCategoryHasResources = fmt.Errorf("%w: resource category still has resources", ErrBusinessRule)
	ErrResourceInUse        = fmt.Errorf("%w: resource is still granted to roles", ErrBusinessRule)
)

// Error wraps a sentinel with context about what failed. Field is set for
// validation errors, Entity/ID for lookups.
type Error struct {
	Err     error  // underlying sentinel
	Message string // human-readable detail
	Field   string // offending input field, if any
	Entity  string // entity type involved, if any
	ID      int64  // entity id involved, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Err.Error(), e.Field, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying sentinel for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error wrapping a sentinel with a message.
func NewError(err error, message string) *Error {
	return &Error{Err: err, Message: message}
}

// WithField records the offending input field.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithEntity records the entity type and id involved.
func (e *Error) WithEntity(entity string, id int64) *Error {
	e.Entity = entity
	e.ID = id
	return e
}

// validationError is shorthand for a field-scoped validation failure.
func validationError(field, message string) *Error {
	return NewError(ErrValidation, message).WithField(field)
}

// notFoundError builds the standard lookup failure for an entity id.
func notFoundError(entity string, id int64) *Error {
	return NewError(ErrNotFound, fmt.Sprintf("%s %d does not exist", entity, id)).
		WithEntity(entity, id)
}

// internalError wraps a storage failure, preserving the cause chain.
func internalError(op string, cause error) *Error {
	return NewError(fmt.Errorf("%w: %s: %w", ErrInternal, op, cause), "")
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err is a lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBusinessRule reports whether err is a business rule violation.
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrBusinessRule)
}

// IsInternal reports whether err is a storage/transaction failure.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}
