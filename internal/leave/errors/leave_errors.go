package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrUserIDRequired = apperror.New(
		apperror.CodeInvalidInput,
		"User ID is required",
		http.StatusBadRequest,
	)
	ErrInvalidRequestBody = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid request data",
		http.StatusBadRequest,
	)
	ErrInvalidFilter = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid status filter",
		http.StatusBadRequest,
	)
	ErrStatusConflict = apperror.New(
		apperror.CodeConflict,
		"Leave request status has changed",
		http.StatusConflict,
	)
	ErrFetchFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to fetch leave requests",
		http.StatusInternalServerError,
	)
	ErrCreateFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to create leave request",
		http.StatusInternalServerError,
	)
	ErrUpdateFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to update leave request",
		http.StatusInternalServerError,
	)
	ErrDeleteFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to delete leave request",
		http.StatusInternalServerError,
	)
	ErrExportFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to export leave requests",
		http.StatusInternalServerError,
	)
)
