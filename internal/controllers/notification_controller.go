package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/services"
	"dorm-portal/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

func (ctrl *NotificationController) List(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	list, total, err := ctrl.notificationService.ListMine(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, list, "Уведомления получены", http.StatusOK, total)
}

func (ctrl *NotificationController) UnreadCount(c echo.Context) error {
	res, err := ctrl.notificationService.UnreadCount(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Количество непрочитанных получено", http.StatusOK)
}

func (ctrl *NotificationController) MarkRead(c echo.Context) error {
	id, err := uint64Param(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.notificationService.MarkRead(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Уведомление прочитано", http.StatusOK)
}

func (ctrl *NotificationController) MarkAllRead(c echo.Context) error {
	res, err := ctrl.notificationService.MarkAllRead(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Все уведомления прочитаны", http.StatusOK)
}

func (ctrl *NotificationController) Delete(c echo.Context) error {
	id, err := uint64Param(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.notificationService.Delete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Уведомление удалено", http.StatusOK)
}
