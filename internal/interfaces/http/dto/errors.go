package dto

import (
	"net/http"
	"strings"
)

// Error codes the HTTP layer emits itself. Domain errors keep their own
// codes and are classified by GetHTTPStatus.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
)

// errorCodeStatus pins codes whose status a generic rule would get wrong
var errorCodeStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	"OPTIMISTIC_LOCK_FAILED": http.StatusConflict,
	"CONCURRENCY_CONFLICT":   http.StatusConflict,
	"DUPLICATE_REQUEST":      http.StatusConflict,
	"ALREADY_EXISTS":         http.StatusConflict,

	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"EMPTY_CART":         http.StatusUnprocessableEntity,
	"PAYMENT_DECLINED":   http.StatusUnprocessableEntity,
	"QUANTITY_EXCEEDED":  http.StatusUnprocessableEntity,
	"INVALID_REFUND":     http.StatusUnprocessableEntity,
}

// GetHTTPStatus maps a domain error code to an HTTP status. Codes not
// pinned above are classified by shape: *_NOT_FOUND is 404, DUPLICATE_*
// is 409, INVALID_* and *_REQUIRED are 400, anything else is 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "DUPLICATE_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "INVALID_"), strings.HasSuffix(code, "_REQUIRED"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
