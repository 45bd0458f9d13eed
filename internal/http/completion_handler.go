package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"promote-social.com/promote-social/internal/constants"
	dto "promote-social.com/promote-social/internal/data_models"
	middleware "promote-social.com/promote-social/internal/http/middlewares"
	"promote-social.com/promote-social/internal/services"
)

func (h *Handler) SubmitCompletion(c echo.Context) error {
	var req dto.SubmitCompletionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	completion, err := h.completions.Submit(c.Request().Context(), services.Submission{
		TaskID:   c.Param("id"),
		UserID:   middleware.UserID(c),
		ProofURL: req.ProofURL,
		Token:    req.Token,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, completion)
}

func (h *Handler) ListTaskCompletions(c echo.Context) error {
	completions, err := h.completions.ListTaskCompletions(
		c.Request().Context(),
		c.Param("id"),
		constants.CompletionStatus(c.QueryParam("status")),
		middleware.UserID(c),
	)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.CompletionListResponse{Count: len(completions), Completions: completions})
}

func (h *Handler) ListMyCompletions(c echo.Context) error {
	completions, err := h.completions.ListUserCompletions(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.CompletionListResponse{Count: len(completions), Completions: completions})
}

func (h *Handler) GetCompletion(c echo.Context) error {
	completion, err := h.completions.GetCompletion(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, completion)
}

func (h *Handler) ApproveCompletion(c echo.Context) error {
	completion, err := h.completions.Approve(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, completion)
}

func (h *Handler) RejectCompletion(c echo.Context) error {
	completion, err := h.completions.Reject(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, completion)
}
