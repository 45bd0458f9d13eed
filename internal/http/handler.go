package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "promote-social.com/promote-social/internal/data_models"
	apperrors "promote-social.com/promote-social/internal/errors"
	"promote-social.com/promote-social/internal/services"
)

type Handler struct {
	users         *services.UserService
	tasks         *services.TaskService
	tokens        *services.TokenService
	completions   *services.CompletionService
	verifications *services.VerificationService
	logger        *zap.Logger
}

func NewHandler(
	users *services.UserService,
	tasks *services.TaskService,
	tokens *services.TokenService,
	completions *services.CompletionService,
	verifications *services.VerificationService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		users:         users,
		tasks:         tasks,
		tokens:        tokens,
		completions:   completions,
		verifications: verifications,
		logger:        logger,
	}
}

// fail turns a service error into an HTTP response.
func (h *Handler) fail(c echo.Context, err error) error {
	var reqErr *apperrors.RequirementsNotMetError
	if errors.As(err, &reqErr) {
		return c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Message: "cannot complete task",
			Reasons: reqErr.Reasons,
		})
	}

	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return echo.NewHTTPError(status, apperrors.Message(err))
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}
	return nil
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
