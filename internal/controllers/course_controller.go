package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/services"
	"dorm-portal/pkg/utils"
)

type CourseController struct {
	courseService services.CourseServiceInterface
	logger        *zap.Logger
}

func NewCourseController(courseService services.CourseServiceInterface, logger *zap.Logger) *CourseController {
	return &CourseController{courseService: courseService, logger: logger}
}

// Sweep - ручной запуск перевода курсов; повторный запуск в том же году ничего не меняет.
func (ctrl *CourseController) Sweep(c echo.Context) error {
	res, err := ctrl.courseService.Sweep(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Перевод курсов выполнен", http.StatusOK)
}
