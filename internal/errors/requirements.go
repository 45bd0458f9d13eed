package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrRequirementsNotMet matches any *RequirementsNotMetError through errors.Is.
var ErrRequirementsNotMet = &Exception{
	Message:    "cannot complete task",
	StatusCode: http.StatusUnprocessableEntity,
}

type RequirementsNotMetError struct {
	Reasons []string
}

func (e *RequirementsNotMetError) Error() string {
	return fmt.Sprintf("cannot complete task: %s", strings.Join(e.Reasons, ", "))
}

func (e *RequirementsNotMetError) Is(target error) bool {
	return target == ErrRequirementsNotMet
}
