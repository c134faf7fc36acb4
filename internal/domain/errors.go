// Package domain defines core types, interfaces, and errors for the
// fairdata provisioning service.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AccessDeniedError indicates insufficient privileges for the operation.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UnauthenticatedError indicates an operation that requires a principal
// was attempted without one.
type UnauthenticatedError struct {
	Message string
}

func (e *UnauthenticatedError) Error() string { return e.Message }

// InvalidNamespaceError indicates a namespace outside the allow-list.
type InvalidNamespaceError struct {
	Namespace string
}

func (e *InvalidNamespaceError) Error() string {
	return fmt.Sprintf("namespace %q is not an allowed storage namespace", e.Namespace)
}

// InvalidIdentifierError indicates a malformed or unsafe SQL identifier.
type InvalidIdentifierError struct {
	Name   string
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Name, e.Reason)
}

// UnknownRelationError indicates a gateway operation referenced a relation
// absent from the live schema.
type UnknownRelationError struct {
	Relation string
}

func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("relation %q does not exist", e.Relation)
}

// OwnershipViolationError indicates an attempt to tamper with row
// ownership (e.g., setting the owner column through the update path).
type OwnershipViolationError struct {
	Message string
}

func (e *OwnershipViolationError) Error() string { return e.Message }

// ProvisioningError indicates a DDL or grant step failed; the whole
// multi-step operation was aborted. Relation names the target for
// diagnosability.
type ProvisioningError struct {
	Relation string
	Err      error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning %q failed: %v", e.Relation, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrUnauthenticated creates an UnauthenticatedError with a formatted message.
func ErrUnauthenticated(format string, args ...interface{}) *UnauthenticatedError {
	return &UnauthenticatedError{Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidIdentifier creates an InvalidIdentifierError for name.
func ErrInvalidIdentifier(name, reason string) *InvalidIdentifierError {
	return &InvalidIdentifierError{Name: name, Reason: reason}
}

// ErrOwnershipViolation creates an OwnershipViolationError with a formatted message.
func ErrOwnershipViolation(format string, args ...interface{}) *OwnershipViolationError {
	return &OwnershipViolationError{Message: fmt.Sprintf(format, args...)}
}

// ErrProvisioning wraps err as a ProvisioningError for relation.
func ErrProvisioning(relation string, err error) *ProvisioningError {
	return &ProvisioningError{Relation: relation, Err: err}
}
