package services

import (
	"net/http"

	goa "goa.design/goa/v3/pkg"

	apperrors "exoticafarms/pkg/errors"
)

// Goa error names used on the wire.
const (
	ErrNameBadRequest   = "bad_request"
	ErrNameNotFound     = "not_found"
	ErrNameUnauthorized = "unauthorized"
	ErrNameConflict     = "conflict"
	ErrNameInternal     = "internal"
)

// ToServiceError converts an application error into a goa ServiceError
// carrying only the caller-facing message.
func ToServiceError(err error) *goa.ServiceError {
	name := ErrNameInternal
	fault := false
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeValidation:
		name = ErrNameBadRequest
	case apperrors.ErrCodeNotFound:
		name = ErrNameNotFound
	case apperrors.ErrCodeUnauthorized:
		name = ErrNameUnauthorized
	case apperrors.ErrCodeConflict:
		name = ErrNameConflict
	default:
		fault = true
	}
	return goa.NewServiceError(simpleError(apperrors.MessageOf(err)), name, false, false, fault)
}

// StatusCode maps a goa error name to its HTTP status.
func StatusCode(e *goa.ServiceError) int {
	switch e.Name {
	case ErrNameBadRequest:
		return http.StatusBadRequest
	case ErrNameNotFound:
		return http.StatusNotFound
	case ErrNameUnauthorized:
		return http.StatusUnauthorized
	case ErrNameConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

type simpleError string

func (e simpleError) Error() string { return string(e) }
