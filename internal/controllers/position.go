package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/services"
	"dorm-portal/pkg/utils"
)

// PositionController отдаёт справочник должностей студсовета. Каталог фиксирован в коде.
type PositionController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewPositionController(userService services.UserServiceInterface, logger *zap.Logger) *PositionController {
	return &PositionController{userService: userService, logger: logger}
}

func (ctrl *PositionController) GetPositions(c echo.Context) error {
	return utils.SuccessResponse(c, ctrl.userService.ListPositions(), "Должности успешно получены", http.StatusOK)
}
