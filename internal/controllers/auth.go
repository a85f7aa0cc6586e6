package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/dto"
	"dorm-portal/internal/services"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/service"
	"dorm-portal/pkg/utils"
)

const refreshCookie = "refreshToken"

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		jwtSvc:      jwtSvc,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var payload dto.RegisterDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return ctrl.errorResponse(c, err)
	}
	res, err := ctrl.authService.Register(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	ctrl.setRefreshCookie(c, res.RefreshToken)
	return utils.SuccessResponse(c, res, "Регистрация прошла успешно", http.StatusCreated)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequest("Неверный формат данных для входа", err))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	ctrl.setRefreshCookie(c, res.RefreshToken)
	return utils.SuccessResponse(c, res, "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, nil, "Вы успешно вышли из системы.", http.StatusOK)
}

// RefreshToken берёт токен из cookie, а если её нет - из тела запроса.
func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(refreshCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var payload dto.RefreshTokenDTO
		if err := bindAndValidate(c, &payload); err != nil {
			return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
		}
		token = payload.RefreshToken
	}

	res, err := ctrl.authService.RefreshToken(c.Request().Context(), token)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	ctrl.setRefreshCookie(c, res.RefreshToken)
	return utils.SuccessResponse(c, res, "Токены успешно обновлены", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	user, err := ctrl.authService.Me(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, user, "Профиль пользователя успешно получен", http.StatusOK)
}

func (ctrl *AuthController) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ctrl.jwtSvc.GetRefreshTokenTTL()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
