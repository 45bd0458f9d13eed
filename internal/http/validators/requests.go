package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"promote-social.com/promote-social/internal/constants"
	dto "promote-social.com/promote-social/internal/data_models"
)

func ValidateRegisterUserRequest(r *dto.RegisterUserRequest) error {
	name := strings.TrimSpace(r.Username)
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}
	if len(name) > 64 {
		return echo.NewHTTPError(http.StatusBadRequest, "username is too long")
	}
	return nil
}

func ValidateRegisterTokenRequest(r *dto.RegisterTokenRequest) error {
	if r.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}
	if len(r.Token) > 128 {
		return echo.NewHTTPError(http.StatusBadRequest, "token is too long")
	}
	return nil
}

func ValidateCreateVerificationRequest(r *dto.CreateVerificationRequest) error {
	if !constants.Platform(r.Platform).IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "platform is invalid")
	}
	if strings.TrimSpace(r.PlatformUsername) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "platform_username is required")
	}
	return nil
}
