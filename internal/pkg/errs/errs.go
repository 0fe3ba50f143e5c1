package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is.
// Each typed error below unwraps to exactly one of these.
var (
	// ErrObjectNotFound indicates that a requested object does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrValueIsInvalid indicates that a provided value failed validation.
	ErrValueIsInvalid = errors.New("value is invalid")

	// ErrValueIsOutOfRange indicates that a value lies outside its allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")

	// ErrValueIsRequired indicates that a required value is missing or empty.
	ErrValueIsRequired = errors.New("value is required")

	// ErrVersionIsInvalid indicates that an aggregate version check failed.
	ErrVersionIsInvalid = errors.New("version is invalid")

	// ErrStateConflict indicates that an optimistic state re-check failed because
	// a concurrent operation moved the record out of the expected state.
	ErrStateConflict = errors.New("state conflict")

	// ErrExpired indicates that the operation targeted a record that was already
	// reclaimed or retired; the caller must re-read current state.
	ErrExpired = errors.New("record expired")

	// ErrCapacityExceeded indicates that a counted shared resource is fully occupied.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// sanitize flattens newlines so error messages stay single-line in logs.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// ObjectNotFoundError reports that an object identified by ID could not be found.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without an underlying cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

// Error implements the error interface.
func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

// Unwrap returns the sentinel error for errors.Is classification.
func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports that a named value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without an underlying cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

// Error implements the error interface.
func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

// Unwrap returns the sentinel error for errors.Is classification.
func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports that a value lies outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without an underlying cause.
func NewValueIsOutOfRangeError(paramName string, value any, minValue any, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value any, minValue any, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

// Error implements the error interface.
func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return sanitize(msg)
}

// Unwrap returns the sentinel error for errors.Is classification.
func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports that a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without an underlying cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

// Error implements the error interface.
func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

// Unwrap returns the sentinel error for errors.Is classification.
func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// VersionIsInvalidError reports a failed aggregate version check.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewVersionIsInvalidError creates a VersionIsInvalidError wrapping an underlying cause.
func NewVersionIsInvalidError(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

// NewVersionIsInvalidErrorWithCause creates a VersionIsInvalidError without an underlying cause.
func NewVersionIsInvalidErrorWithCause(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

// Error implements the error interface.
func (e *VersionIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrVersionIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName))
}

// Unwrap returns the sentinel error for errors.Is classification.
func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}

// StateConflictError reports that a record was not in the state an operation
// re-validated for. It is surfaced to the caller rather than retried: the
// validation and the mutation run inside one atomic unit, so a conflict means a
// genuine concurrent race, not a transient read.
type StateConflictError struct {
	ParamName string
	Expected  string
	Actual    string
	Cause     error
}

// NewStateConflictError creates a StateConflictError without an underlying cause.
func NewStateConflictError(paramName string, expected string, actual string) *StateConflictError {
	return &StateConflictError{ParamName: paramName, Expected: expected, Actual: actual}
}

// NewStateConflictErrorWithCause creates a StateConflictError wrapping an underlying cause.
func NewStateConflictErrorWithCause(paramName string, expected string, actual string, cause error) *StateConflictError {
	return &StateConflictError{ParamName: paramName, Expected: expected, Actual: actual, Cause: cause}
}

// Error implements the error interface.
func (e *StateConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s expected %s, actual %s", ErrStateConflict, e.ParamName, e.Expected, e.Actual)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return sanitize(msg)
}

// Unwrap returns the sentinel error for errors.Is classification.
func (e *StateConflictError) Unwrap() error {
	return ErrStateConflict
}

// ExpiredError reports that an operation targeted a record that a reconciliation
// pass already reclaimed. Expired is a state, not a failure of the system: the
// caller should re-read and start over.
type ExpiredError struct {
	ParamName string
	ID        any
	Reason    string
	Cause     error
}

// NewExpiredError creates an ExpiredError without an underlying cause.
func NewExpiredError(paramName string, id any, reason string) *ExpiredError {
	return &ExpiredError{ParamName: paramName, ID: id, Reason: reason}
}

// NewExpiredErrorWithCause creates an ExpiredError wrapping an underlying cause.
func NewExpiredErrorWithCause(paramName string, id any, reason string, cause error) *ExpiredError {
	return &ExpiredError{ParamName: paramName, ID: id, Reason: reason, Cause: cause}
}

// Error implements the error interface.
func (e *ExpiredError) Error() string {
	msg := fmt.Sprintf("%s: %s %s", ErrExpired, e.ParamName, e.ID)
	if e.Reason != "" {
		msg = fmt.Sprintf("%s (reason: %s)", msg, e.Reason)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return sanitize(msg)
}

// Unwrap returns the sentinel error for errors.Is classification.
func (e *ExpiredError) Unwrap() error {
	return ErrExpired
}

// CapacityExceededError reports that a counted shared resource has no free slot.
type CapacityExceededError struct {
	ParamName string
	Capacity  int
	Cause     error
}

// NewCapacityExceededError creates a CapacityExceededError without an underlying cause.
func NewCapacityExceededError(paramName string, capacity int) *CapacityExceededError {
	return &CapacityExceededError{ParamName: paramName, Capacity: capacity}
}

// NewCapacityExceededErrorWithCause creates a CapacityExceededError wrapping an underlying cause.
func NewCapacityExceededErrorWithCause(paramName string, capacity int, cause error) *CapacityExceededError {
	return &CapacityExceededError{ParamName: paramName, Capacity: capacity, Cause: cause}
}

// Error implements the error interface.
func (e *CapacityExceededError) Error() string {
	msg := fmt.Sprintf("%s: %s, capacity is %d", ErrCapacityExceeded, e.ParamName, e.Capacity)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return sanitize(msg)
}

// Unwrap returns the sentinel error for errors.Is classification.
func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}
