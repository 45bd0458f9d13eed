package errors

import "net/http"

var ErrUserNotFound = &Exception{
	Message:    "user not found",
	StatusCode: http.StatusNotFound,
}

var ErrTaskNotFound = &Exception{
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}

var ErrCompletionNotFound = &Exception{
	Message:    "completion not found",
	StatusCode: http.StatusNotFound,
}

var ErrVerificationNotFound = &Exception{
	Message:    "verification not found",
	StatusCode: http.StatusNotFound,
}
