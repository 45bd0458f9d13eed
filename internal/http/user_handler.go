package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "promote-social.com/promote-social/internal/data_models"
	middleware "promote-social.com/promote-social/internal/http/middlewares"
	"promote-social.com/promote-social/internal/http/validators"
)

func (h *Handler) RegisterUser(c echo.Context) error {
	var req dto.RegisterUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateRegisterUserRequest(&req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), middleware.UserID(c), req.Username)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) Me(c echo.Context) error {
	user, err := h.users.GetUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUser(c echo.Context) error {
	user, err := h.users.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
