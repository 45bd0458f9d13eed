package dto

import (
	"time"

	model "promote-social.com/promote-social/internal/models"
)

type TaskListResponse struct {
	Count int          `json:"count"`
	Tasks []model.Task `json:"tasks"`
}

type CompletionListResponse struct {
	Count       int                    `json:"count"`
	Completions []model.TaskCompletion `json:"completions"`
}

type TokenRegisteredResponse struct {
	TaskID    string    `json:"task_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RequirementsResponse struct {
	CanComplete bool     `json:"can_complete"`
	Reasons     []string `json:"reasons"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
}
