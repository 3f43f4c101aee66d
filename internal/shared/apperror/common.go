package apperror

import "net/http"

// Errors raised by the transport layer before a request reaches a service.
var (
	ErrUnauthorized = New(CodeUnauthorized, "Authentication is required", http.StatusUnauthorized)
	ErrForbidden    = New(CodeForbidden, "You do not have permission to access this resource", http.StatusForbidden)
	ErrRateLimited  = New(CodeRateLimited, "Too many requests, slow down", http.StatusTooManyRequests)

	// ErrRequestInFlight is returned while an earlier call with the same
	// Idempotency-Key has not finished.
	ErrRequestInFlight = New(CodeConflict, "A request with this idempotency key is still being processed", http.StatusConflict)

	ErrUnavailable = New(CodeServiceUnavailable, "Service temporarily unavailable", http.StatusServiceUnavailable)
	ErrInternal    = New(CodeInternalError, "An unexpected error occurred", http.StatusInternalServerError)
)
