package errors

import "net/http"

var ErrCapacityReached = &Exception{
	Message:    "task has no remaining completions",
	StatusCode: http.StatusConflict,
}

var ErrSelfCompletion = &Exception{
	Message:    "you cannot complete your own task",
	StatusCode: http.StatusForbidden,
}

var ErrAlreadySubmitted = &Exception{
	Message:    "you already submitted a completion for this task",
	StatusCode: http.StatusConflict,
}

var ErrCompletionNotPending = &Exception{
	Message:    "completion was already reviewed",
	StatusCode: http.StatusConflict,
}

var ErrTaskNotActive = &Exception{
	Message:    "task is not accepting completions",
	StatusCode: http.StatusConflict,
}

var ErrInvalidStatusTransition = &Exception{
	Message:    "invalid task status transition",
	StatusCode: http.StatusBadRequest,
}
