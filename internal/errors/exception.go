package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var reqErr *RequirementsNotMetError
	if errors.As(err, &reqErr) {
		return http.StatusUnprocessableEntity
	}

	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message returns the user-facing text for err. Unknown errors are masked.
func Message(err error) string {
	var reqErr *RequirementsNotMetError
	if errors.As(err, &reqErr) {
		return reqErr.Error()
	}

	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
