package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/dto"
	"dorm-portal/internal/services"
	"dorm-portal/pkg/utils"
)

type AnnouncementController struct {
	announcementService services.AnnouncementServiceInterface
	logger              *zap.Logger
}

func NewAnnouncementController(announcementService services.AnnouncementServiceInterface, logger *zap.Logger) *AnnouncementController {
	return &AnnouncementController{announcementService: announcementService, logger: logger}
}

func (ctrl *AnnouncementController) List(c echo.Context) error {
	archived := c.QueryParam("archived") == "true"
	list, err := ctrl.announcementService.List(c.Request().Context(), archived)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, list, "Объявления получены", http.StatusOK)
}

func (ctrl *AnnouncementController) Audiences(c echo.Context) error {
	audiences, err := ctrl.announcementService.Audiences(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, audiences, "Доступные аудитории получены", http.StatusOK)
}

func (ctrl *AnnouncementController) Create(c echo.Context) error {
	var payload dto.CreateAnnouncementDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	a, err := ctrl.announcementService.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, a, "Объявление опубликовано", http.StatusCreated)
}

func (ctrl *AnnouncementController) Update(c echo.Context) error {
	id, err := uint64Param(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.UpdateAnnouncementDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	a, err := ctrl.announcementService.Update(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, a, "Объявление обновлено", http.StatusOK)
}

func (ctrl *AnnouncementController) Delete(c echo.Context) error {
	id, err := uint64Param(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.announcementService.Delete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Объявление удалено", http.StatusOK)
}
