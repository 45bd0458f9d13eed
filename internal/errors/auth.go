package errors

import "net/http"

var ErrUnauthorized = &Exception{
	Message:    "unauthorized",
	StatusCode: http.StatusForbidden,
}

var ErrUnauthenticated = &Exception{
	Message:    "authentication required",
	StatusCode: http.StatusUnauthorized,
}
