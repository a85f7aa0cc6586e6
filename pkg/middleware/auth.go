package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/service"
	"dorm-portal/pkg/utils"
)

// ActorResolver загружает актуальные роль, должности и комнату пользователя.
// Токен хранит только ID: права, выданные после входа, должны действовать сразу.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uuid.UUID) (authz.Actor, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	resolver   ActorResolver
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, resolver ActorResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		resolver:   resolver,
		logger:     logger,
	}
}

func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Debug("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		return m.authenticate(c, next, claims.UserID)
	}
}

// authenticate общий для заголовка и query-параметра веб-сокета.
func (m *AuthMiddleware) authenticate(c echo.Context, next echo.HandlerFunc, userID uuid.UUID) error {
	ctx := c.Request().Context()
	actor, err := m.resolver.ResolveActor(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}
		return utils.ErrorResponse(c, err, m.logger)
	}

	c.SetRequest(c.Request().WithContext(utils.WithActor(ctx, actor)))
	return next(c)
}

// TokenFromQuery - для /ws: браузер не умеет ставить заголовки при апгрейде.
func (m *AuthMiddleware) TokenFromQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}
		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}
		return m.authenticate(c, next, claims.UserID)
	}
}
