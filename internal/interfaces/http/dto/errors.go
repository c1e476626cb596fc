// Package dto holds the HTTP response envelope and the error code to status
// mapping shared by handlers and middleware.
package dto

import (
	"net/http"

	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/domain/shared"
)

// Codes produced by the HTTP layer itself. Domain codes pass through unchanged.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeBadRequest      = "BAD_REQUEST"
	CodeInternal        = "INTERNAL_ERROR"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeTokenInvalid    = "TOKEN_INVALID"
	CodeTokenRevoked    = "TOKEN_REVOKED"
	CodeRequestTooLarge = "REQUEST_TOO_LARGE"
	CodeRequestInFlight = "REQUEST_IN_PROGRESS"
	CodeRouteNotFound   = "ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Business rule rejections are 400 so clients treat them as fixable input.
var ErrorCodeHTTPStatus = map[string]int{
	CodeValidation:      http.StatusBadRequest,
	CodeBadRequest:      http.StatusBadRequest,
	CodeInternal:        http.StatusInternalServerError,
	CodeTokenExpired:    http.StatusUnauthorized,
	CodeTokenInvalid:    http.StatusUnauthorized,
	CodeTokenRevoked:    http.StatusUnauthorized,
	CodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	CodeRequestInFlight: http.StatusConflict,
	CodeRouteNotFound:   http.StatusNotFound,

	shared.CodeInvalidInput:      http.StatusBadRequest,
	shared.CodeInvalidState:      http.StatusBadRequest,
	shared.CodeInvalidTransition: http.StatusBadRequest,
	shared.CodeAlreadyExists:     http.StatusBadRequest,
	shared.CodePeriodLocked:      http.StatusBadRequest,
	shared.CodePeriodNotFound:    http.StatusBadRequest,
	shared.CodeOverlappingPeriod: http.StatusBadRequest,

	identity.CodeInvalidRole:     http.StatusBadRequest,
	identity.CodeInvalidUsername: http.StatusBadRequest,
	identity.CodeInvalidPassword: http.StatusBadRequest,

	shared.CodeNotFound:                http.StatusNotFound,
	shared.CodeUnauthorized:            http.StatusUnauthorized,
	shared.CodeForbidden:               http.StatusForbidden,
	shared.CodeDuplicateDocumentNumber: http.StatusConflict,
	shared.CodeStoreFailure:            http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
