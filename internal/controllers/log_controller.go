package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/services"
	"dorm-portal/pkg/utils"
)

type LogController struct {
	logService services.LogServiceInterface
	logger     *zap.Logger
}

func NewLogController(logService services.LogServiceInterface, logger *zap.Logger) *LogController {
	return &LogController{logService: logService, logger: logger}
}

// List поддерживает filter[action], filter[user_id] и search по описанию.
func (ctrl *LogController) List(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	entries, total, err := ctrl.logService.List(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, entries, "Журнал действий получен", http.StatusOK, total)
}
