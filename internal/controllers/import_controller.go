package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/services"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/utils"
)

// maxImportSize - список заселения на всё общежитие укладывается с запасом.
const maxImportSize = 5 << 20

type ImportController struct {
	importer services.ResidentImporterInterface
	logger   *zap.Logger
}

func NewImportController(importer services.ResidentImporterInterface, logger *zap.Logger) *ImportController {
	return &ImportController{importer: importer, logger: logger}
}

// ImportResidents принимает multipart: file (xlsx) и password для новых учёток.
func (ctrl *ImportController) ImportResidents(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequest("Не передан файл", err), ctrl.logger)
	}
	if header.Size > maxImportSize {
		return utils.ErrorResponse(c, apperrors.NewBadRequest("Файл слишком большой", nil), ctrl.logger)
	}
	file, err := header.Open()
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	defer file.Close()

	res, err := ctrl.importer.Import(c.Request().Context(), file, c.FormValue("password"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Импорт жильцов завершён", http.StatusOK)
}
