package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the transport view of an error.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// Converter is implemented by errors that know their AppError form, such as
// schema validation failures.
type Converter interface {
	AppError() *AppError
}

// ToHTTP maps any error onto a status, code, message and details. Errors that
// are not AppErrors become a generic 500.
func ToHTTP(err error) HTTPError {
	var conv Converter
	if errors.As(err, &conv) {
		err = conv.AppError()
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return HTTPError{
			Status:  status,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}
