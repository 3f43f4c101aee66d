package requesterrors

import (
	"net/http"

	"github.com/PeterTHA/bo-resource-management/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid request id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidOwnerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid owner id",
		http.StatusBadRequest,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"kind must be LEAVE or OVERTIME",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_time must be after start_time",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrCancelReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a reason is required to request cancellation",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status filter",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"request not found",
		http.StatusNotFound,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to perform this action on the request",
		http.StatusForbidden,
	)
	ErrInvalidState = apperror.New(
		apperror.CodeInvalidState,
		"request status does not allow this action",
		http.StatusConflict,
	)
	ErrRequestOverlap = apperror.New(
		apperror.CodeConflict,
		"an active request of the same kind already covers this period",
		http.StatusConflict,
	)
)

// StateDetails is rendered under error.details for INVALID_STATE responses.
type StateDetails struct {
	Action      string `json:"action"`
	Status      string `json:"status"`
	CancelState string `json:"cancel_state"`
}

// InvalidState reports a failed guard together with the current resolved state.
func InvalidState(action, status, cancelState string) *apperror.AppError {
	return ErrInvalidState.WithDetails(StateDetails{
		Action:      action,
		Status:      status,
		CancelState: cancelState,
	})
}
