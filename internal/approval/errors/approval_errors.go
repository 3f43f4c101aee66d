package approvalerrors

import (
	"net/http"

	"github.com/PeterTHA/bo-resource-management/internal/shared/apperror"
)

var (
	ErrSequenceConflict = apperror.New(
		apperror.CodeConflict,
		"request history was modified concurrently, retry the operation",
		http.StatusConflict,
	)
	ErrInvalidEventType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approval event type",
		http.StatusBadRequest,
	)
	ErrInvalidSequence = apperror.New(
		apperror.CodeInvalidInput,
		"approval event sequence must be positive",
		http.StatusBadRequest,
	)
)
