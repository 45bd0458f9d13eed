package validators

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"promote-social.com/promote-social/internal/constants"
	dto "promote-social.com/promote-social/internal/data_models"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if !constants.Platform(r.Platform).IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "platform is invalid")
	}
	if !constants.ActionType(r.ActionType).IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "action_type is invalid")
	}
	if strings.TrimSpace(r.Link) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "link is required")
	}
	if r.Reward <= 0 || r.Reward > constants.MaxTaskReward {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("reward must be between 1 and %d", constants.MaxTaskReward))
	}
	if r.MaxCompletions <= 0 || r.MaxCompletions > constants.MaxTaskCompletions {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("max_completions must be between 1 and %d", constants.MaxTaskCompletions))
	}
	return nil
}

func ValidateUpdateTaskStatusRequest(r *dto.UpdateTaskStatusRequest) error {
	if !constants.TaskStatus(r.Status).IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "status is invalid")
	}
	return nil
}
