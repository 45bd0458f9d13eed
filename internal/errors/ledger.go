package errors

import "net/http"

var ErrInsufficientPoints = &Exception{
	Message:    "insufficient points",
	StatusCode: http.StatusPaymentRequired,
}

var ErrUsernameTaken = &Exception{
	Message:    "username already taken",
	StatusCode: http.StatusConflict,
}

var ErrUserExists = &Exception{
	Message:    "user already registered",
	StatusCode: http.StatusConflict,
}

var ErrBalanceOverflow = &Exception{
	Message:    "balance limit exceeded",
	StatusCode: http.StatusConflict,
}

var ErrInvalidAmount = &Exception{
	Message:    "amount must be positive",
	StatusCode: http.StatusBadRequest,
}
