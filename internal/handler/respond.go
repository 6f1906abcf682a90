package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/apperr"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/middleware"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/service"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/logger"
)

// writeError maps application errors to HTTP responses. Anything outside the
// taxonomy is a 500 and gets logged with its cause.
func writeError(c echo.Context, err error) error {
	if kind, ok := apperr.KindOf(err); ok {
		return c.JSON(statusForKind(kind), echo.Map{"error": err.Error()})
	}

	logger.FromContext(c).Error("Unhandled internal error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInsufficientStock:
		return http.StatusBadRequest
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// principal retrieves the authenticated principal from the request context.
func principal(c echo.Context) (service.Principal, error) {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return service.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid %s", name)
	}
	return uint(value), nil
}
