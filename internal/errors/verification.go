package errors

import "net/http"

var ErrVerifierUnavailable = &Exception{
	Message:    "platform verification is temporarily unavailable",
	StatusCode: http.StatusServiceUnavailable,
}
