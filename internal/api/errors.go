package api

import (
	"errors"
	"net/http"

	"fairdata/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError
	var unauthenticated *domain.UnauthenticatedError
	var accessDenied *domain.AccessDeniedError
	var invalidNamespace *domain.InvalidNamespaceError
	var invalidIdentifier *domain.InvalidIdentifierError
	var unknownRelation *domain.UnknownRelationError
	var ownership *domain.OwnershipViolationError
	var provisioning *domain.ProvisioningError

	switch {
	case errors.As(err, &notFound), errors.As(err, &unknownRelation):
		return http.StatusNotFound
	case errors.As(err, &unauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &accessDenied), errors.As(err, &ownership):
		return http.StatusForbidden
	case errors.As(err, &validation), errors.As(err, &invalidNamespace), errors.As(err, &invalidIdentifier):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &provisioning):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
