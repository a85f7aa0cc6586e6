package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/dto"
	"dorm-portal/internal/services"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/utils"
)

type WorkShiftController struct {
	shiftService services.WorkShiftServiceInterface
	logger       *zap.Logger
}

func NewWorkShiftController(shiftService services.WorkShiftServiceInterface, logger *zap.Logger) *WorkShiftController {
	return &WorkShiftController{shiftService: shiftService, logger: logger}
}

func (ctrl *WorkShiftController) Add(c echo.Context) error {
	var payload dto.CreateWorkShiftDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	shift, err := ctrl.shiftService.Add(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, shift, "Отработка назначена", http.StatusCreated)
}

func (ctrl *WorkShiftController) AssignToRoom(c echo.Context) error {
	var payload dto.AssignRoomWorkShiftDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	shifts, err := ctrl.shiftService.AssignToRoom(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, shifts, "Отработки назначены жильцам комнаты", http.StatusCreated)
}

func (ctrl *WorkShiftController) Complete(c echo.Context) error {
	id, err := uint64Param(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.CompleteWorkShiftDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.shiftService.Complete(c.Request().Context(), id, payload.Days)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Отработка засчитана", http.StatusOK)
}

func (ctrl *WorkShiftController) Delete(c echo.Context) error {
	id, err := uint64Param(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.shiftService.Delete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Отработка удалена", http.StatusOK)
}

// Mine - свои отработки без указания ID.
func (ctrl *WorkShiftController) Mine(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return ctrl.respondUserShifts(c, userID)
}

func (ctrl *WorkShiftController) UserShifts(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return ctrl.respondUserShifts(c, userID)
}

func (ctrl *WorkShiftController) respondUserShifts(c echo.Context, userID uuid.UUID) error {
	res, err := ctrl.shiftService.UserShifts(c.Request().Context(), userID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Отработки получены", http.StatusOK)
}

func (ctrl *WorkShiftController) List(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	shifts, total, err := ctrl.shiftService.List(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, shifts, "Отработки получены", http.StatusOK, total)
}

func (ctrl *WorkShiftController) Summaries(c echo.Context) error {
	res, err := ctrl.shiftService.Summaries(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Сводка по отработкам получена", http.StatusOK)
}

// Archived: ?user_id= сужает архив до одного жильца.
func (ctrl *WorkShiftController) Archived(c echo.Context) error {
	var userID *uuid.UUID
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return utils.ErrorResponse(c, apperrors.NewBadRequest("Неверный user_id", err), ctrl.logger)
		}
		userID = &id
	}
	res, err := ctrl.shiftService.ListArchived(c.Request().Context(), userID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Архив отработок получен", http.StatusOK)
}
