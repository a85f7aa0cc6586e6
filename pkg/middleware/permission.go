package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/utils"
)

// RequirePermission отсекает запросы без права на действие в целом.
// Проверки с конкретной целью (комната, этаж, пользователь) делает сервис.
func RequirePermission(gk *authz.Gatekeeper, permission string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := utils.GetActorFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			if !gk.Can(actor, permission, nil) {
				logger.Info("Доступ запрещён",
					zap.String("permission", permission),
					zap.String("userID", actor.ID.String()),
					zap.String("role", string(actor.Role)),
				)
				return utils.ErrorResponse(c, apperrors.NewForbidden("Недостаточно прав"), logger)
			}
			return next(c)
		}
	}
}
