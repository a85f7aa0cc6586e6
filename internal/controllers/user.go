package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/dto"
	"dorm-portal/internal/services"
	"dorm-portal/pkg/utils"
)

type UserController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewUserController(userService services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

func (ctrl *UserController) GetUsers(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	users, total, err := ctrl.userService.GetUsers(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, users, "Пользователи успешно получены", http.StatusOK, total)
}

func (ctrl *UserController) FindUser(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	user, err := ctrl.userService.FindUser(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, user, "Пользователь успешно получен", http.StatusOK)
}

func (ctrl *UserController) UpdateProfile(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.UpdateProfileDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	user, err := ctrl.userService.UpdateProfile(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, user, "Профиль обновлён", http.StatusOK)
}

func (ctrl *UserController) ChangeRole(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.ChangeRoleDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	user, err := ctrl.userService.ChangeRole(c.Request().Context(), id, payload.Role)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, user, "Роль изменена", http.StatusOK)
}

func (ctrl *UserController) SetPositions(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.SetPositionsDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	user, err := ctrl.userService.SetPositions(c.Request().Context(), id, payload.Positions)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, user, "Должности обновлены", http.StatusOK)
}

func (ctrl *UserController) SetFrozen(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.FreezeDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	user, err := ctrl.userService.SetFrozen(c.Request().Context(), id, payload.Frozen)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	msg := "Пользователь разморожен"
	if payload.Frozen {
		msg = "Пользователь заморожен"
	}
	return utils.SuccessResponse(c, user, msg, http.StatusOK)
}

func (ctrl *UserController) DeleteUser(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.userService.DeleteUser(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Пользователь удалён", http.StatusOK)
}
