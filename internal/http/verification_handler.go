package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"promote-social.com/promote-social/internal/constants"
	dto "promote-social.com/promote-social/internal/data_models"
	middleware "promote-social.com/promote-social/internal/http/middlewares"
	"promote-social.com/promote-social/internal/http/validators"
)

func (h *Handler) CreateVerification(c echo.Context) error {
	var req dto.CreateVerificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCreateVerificationRequest(&req); err != nil {
		return err
	}

	v, err := h.verifications.Create(
		c.Request().Context(),
		middleware.UserID(c),
		constants.Platform(req.Platform),
		req.PlatformUsername,
		req.VerificationPhrase,
	)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) ListVerifications(c echo.Context) error {
	list, err := h.verifications.ListForUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":         len(list),
		"verifications": list,
	})
}

func (h *Handler) VerifyPlatform(c echo.Context) error {
	v, err := h.verifications.Verify(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}
