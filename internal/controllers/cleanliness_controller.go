package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/dto"
	"dorm-portal/internal/services"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/utils"
)

type CleanlinessController struct {
	cleanlinessService services.CleanlinessServiceInterface
	logger             *zap.Logger
}

func NewCleanlinessController(cleanlinessService services.CleanlinessServiceInterface, logger *zap.Logger) *CleanlinessController {
	return &CleanlinessController{cleanlinessService: cleanlinessService, logger: logger}
}

// period разбирает ?from=&to= или ?week=N (смещение от текущей недели).
func (ctrl *CleanlinessController) period(c echo.Context) (time.Time, time.Time, error) {
	week := 0
	if raw := c.QueryParam("week"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewBadRequest("Неверное смещение недели", err)
		}
		week = n
	}
	return ctrl.cleanlinessService.Period(c.QueryParam("from"), c.QueryParam("to"), week)
}

func (ctrl *CleanlinessController) SetScore(c echo.Context) error {
	var payload dto.SetScoreDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	score, err := ctrl.cleanlinessService.SetScore(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, score, "Оценка сохранена", http.StatusOK)
}

func (ctrl *CleanlinessController) DeleteScore(c echo.Context) error {
	var payload dto.DeleteScoreDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.cleanlinessService.DeleteScore(c.Request().Context(), payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Оценка удалена", http.StatusOK)
}

func (ctrl *CleanlinessController) FloorGrid(c echo.Context) error {
	floor, err := intParam(c, "floor")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	from, to, err := ctrl.period(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	grid, err := ctrl.cleanlinessService.FloorGrid(c.Request().Context(), floor, from, to)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, grid, "Таблица чистоты получена", http.StatusOK)
}

func (ctrl *CleanlinessController) FloorAverages(c echo.Context) error {
	floor, err := intParam(c, "floor")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	from, to, err := ctrl.period(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.cleanlinessService.FloorAverages(c.Request().Context(), floor, from, to)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Средние оценки получены", http.StatusOK)
}

func (ctrl *CleanlinessController) RoomAverage(c echo.Context) error {
	from, to, err := ctrl.period(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.cleanlinessService.RoomAverage(c.Request().Context(), c.Param("room"), from, to)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Средняя оценка комнаты получена", http.StatusOK)
}

func (ctrl *CleanlinessController) GetSettings(c echo.Context) error {
	settings, err := ctrl.cleanlinessService.GetSettings(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, settings, "Настройки чистоты получены", http.StatusOK)
}

func (ctrl *CleanlinessController) SaveSettings(c echo.Context) error {
	var payload dto.CleanlinessSettingsDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	settings, err := ctrl.cleanlinessService.SaveSettings(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, settings, "Настройки чистоты сохранены", http.StatusOK)
}
