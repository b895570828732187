package usererrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with the same id already exists",
		http.StatusConflict,
	)

	ErrUserIDRequired = apperror.New(
		apperror.CodeInvalidInput,
		"User ID is required",
		http.StatusBadRequest,
	)

	ErrInvalidRequestBody = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid request body",
		http.StatusBadRequest,
	)
)
