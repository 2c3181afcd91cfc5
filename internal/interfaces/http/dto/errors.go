package dto

import (
	"errors"
	"net/http"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

// Transport-level codes. Domain codes come from shared.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeMissingCustomerIdentity: http.StatusBadRequest,
	shared.CodeEmptyOrderItems:         http.StatusBadRequest,
	shared.CodeInvalidInput:            http.StatusBadRequest,
	shared.CodeInvalidReference:        http.StatusNotFound,
	shared.CodeNotFound:                http.StatusNotFound,
	shared.CodeConstraintViolation:     http.StatusConflict,

	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
	ErrCodeRouteNotFound:   http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status for an error code. Unknown codes
// are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts err into a status and envelope. Anything that is not a
// domain error is reported as an opaque internal error.
func FromError(err error) (int, Response) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return GetHTTPStatus(de.Code), NewErrorResponse(de.Code, de.Message)
	}
	return http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, "An unexpected error occurred")
}
