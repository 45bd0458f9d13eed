package errors

import "net/http"

var ErrTokenRequired = &Exception{
	Message:    "completion token is required",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidToken = &Exception{
	Message:    "invalid completion token",
	StatusCode: http.StatusBadRequest,
}

var ErrTokenExpired = &Exception{
	Message:    "completion token expired",
	StatusCode: http.StatusGone,
}

var ErrExtensionUnresponsive = &Exception{
	Message:    "extension did not respond",
	StatusCode: http.StatusGatewayTimeout,
}
