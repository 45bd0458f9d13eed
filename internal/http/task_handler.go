package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"promote-social.com/promote-social/internal/constants"
	dto "promote-social.com/promote-social/internal/data_models"
	middleware "promote-social.com/promote-social/internal/http/middlewares"
	"promote-social.com/promote-social/internal/http/validators"
	repository "promote-social.com/promote-social/internal/repositories"
	"promote-social.com/promote-social/internal/services"
)

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.Request().Context(), middleware.UserID(c), services.TaskSpec{
		Title:          req.Title,
		Platform:       constants.Platform(req.Platform),
		ActionType:     constants.ActionType(req.ActionType),
		Link:           req.Link,
		Reward:         req.Reward,
		MaxCompletions: req.MaxCompletions,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.tasks.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	filter := repository.TaskFilter{
		Platform:   constants.Platform(c.QueryParam("platform")),
		ActionType: constants.ActionType(c.QueryParam("action_type")),
	}

	var err error
	if filter.MinReward, err = queryInt(c, "min_reward"); err != nil {
		return err
	}
	if filter.MaxReward, err = queryInt(c, "max_reward"); err != nil {
		return err
	}

	tasks, err := h.tasks.ListActiveTasks(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.TaskListResponse{Count: len(tasks), Tasks: tasks})
}

func (h *Handler) ListMyTasks(c echo.Context) error {
	tasks, err := h.tasks.ListCreatedTasks(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.TaskListResponse{Count: len(tasks), Tasks: tasks})
}

func (h *Handler) UpdateTaskStatus(c echo.Context) error {
	var req dto.UpdateTaskStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateUpdateTaskStatusRequest(&req); err != nil {
		return err
	}

	task, err := h.tasks.SetStatus(
		c.Request().Context(),
		middleware.UserID(c),
		c.Param("id"),
		constants.TaskStatus(req.Status),
	)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) RegisterToken(c echo.Context) error {
	var req dto.RegisterTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateRegisterTokenRequest(&req); err != nil {
		return err
	}

	record, err := h.tokens.Register(c.Request().Context(), c.Param("id"), middleware.UserID(c), req.Token)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto.TokenRegisteredResponse{
		TaskID:    record.TaskID,
		ExpiresAt: record.ExpiresAt,
	})
}

func (h *Handler) Requirements(c echo.Context) error {
	reqs, err := h.completions.Requirements(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.RequirementsResponse{
		CanComplete: reqs.CanComplete,
		Reasons:     reqs.Reasons,
	})
}

func queryInt(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}
