package reportserrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrMonthRequired      = apperror.New(apperror.CodeInvalidInput, "month parameter is required (format: YYYY-MM)", http.StatusBadRequest)
	ErrInvalidMonthFormat = apperror.New(apperror.CodeInvalidInput, "month must use YYYY-MM format", http.StatusBadRequest)
	ErrDateRangeRequired  = apperror.New(apperror.CodeInvalidInput, "start date and end date are required", http.StatusBadRequest)
	ErrInvalidDateFormat  = apperror.New(apperror.CodeInvalidInput, "date must use YYYY-MM-DD format", http.StatusBadRequest)
	ErrInvalidDateRange   = apperror.New(apperror.CodeInvalidRange, "end date must not be before start date", http.StatusBadRequest)
)
