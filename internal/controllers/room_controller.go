package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/dto"
	"dorm-portal/internal/services"
	"dorm-portal/pkg/utils"
)

type RoomController struct {
	roomService services.RoomServiceInterface
	logger      *zap.Logger
}

func NewRoomController(roomService services.RoomServiceInterface, logger *zap.Logger) *RoomController {
	return &RoomController{roomService: roomService, logger: logger}
}

func (ctrl *RoomController) Request(c echo.Context) error {
	var payload dto.RoomRequestDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	user, err := ctrl.roomService.Request(c.Request().Context(), payload.Room)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, user, "Заявка на комнату отправлена", http.StatusOK)
}

func (ctrl *RoomController) Approve(c echo.Context) error {
	id, err := uuidParam(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	user, err := ctrl.roomService.Approve(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, user, "Комната подтверждена", http.StatusOK)
}

func (ctrl *RoomController) Reject(c echo.Context) error {
	id, err := uuidParam(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	user, err := ctrl.roomService.Reject(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, user, "Заявка отклонена", http.StatusOK)
}

func (ctrl *RoomController) ListPending(c echo.Context) error {
	pending, err := ctrl.roomService.ListPending(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, pending, "Заявки на комнаты получены", http.StatusOK)
}

func (ctrl *RoomController) Occupants(c echo.Context) error {
	res, err := ctrl.roomService.Occupants(c.Request().Context(), c.Param("room"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Жильцы комнаты получены", http.StatusOK)
}
