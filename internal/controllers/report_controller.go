package controllers

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/services"
	"dorm-portal/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService services.ReportServiceInterface
	cleanliness   *CleanlinessController
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, cleanliness *CleanlinessController, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, cleanliness: cleanliness, logger: logger}
}

func attachXLSX(c echo.Context, prefix string) {
	fileName := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
}

// ExportWorkShifts выгружает сводку отработок по всем жильцам.
// Пока в ответ ничего не записано, ошибка сервиса отдаётся обычным JSON.
func (ctrl *ReportController) ExportWorkShifts(c echo.Context) error {
	buf := newLazyWriter(c, "work_shifts")
	if err := ctrl.reportService.ExportWorkShifts(c.Request().Context(), buf); err != nil {
		if buf.started {
			ctrl.logger.Error("Отчёт по отработкам оборван", zap.Error(err))
			return nil
		}
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return nil
}

func (ctrl *ReportController) ExportCleanliness(c echo.Context) error {
	floor, err := intParam(c, "floor")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	from, to, err := ctrl.cleanliness.period(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	buf := newLazyWriter(c, fmt.Sprintf("cleanliness_floor_%d", floor))
	if err := ctrl.reportService.ExportCleanliness(c.Request().Context(), buf, floor, from, to); err != nil {
		if buf.started {
			ctrl.logger.Error("Отчёт по чистоте оборван", zap.Error(err), zap.Int("floor", floor))
			return nil
		}
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return nil
}

// lazyWriter ставит заголовки вложения при первой записи.
type lazyWriter struct {
	c       echo.Context
	prefix  string
	started bool
}

func newLazyWriter(c echo.Context, prefix string) *lazyWriter {
	return &lazyWriter{c: c, prefix: prefix}
}

func (w *lazyWriter) Write(p []byte) (int, error) {
	if !w.started {
		attachXLSX(w.c, w.prefix)
		w.started = true
	}
	return w.c.Response().Write(p)
}
