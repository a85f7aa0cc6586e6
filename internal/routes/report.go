package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/controllers"
	"dorm-portal/pkg/middleware"
)

func runReportRouter(secureGroup *echo.Group, reportCtrl *controllers.ReportController, gk *authz.Gatekeeper, logger *zap.Logger) {
	reports := secureGroup.Group("/reports", middleware.RequirePermission(gk, authz.ReportsExport, logger))
	reports.GET("/work-shifts", reportCtrl.ExportWorkShifts)
	reports.GET("/cleanliness/:floor", reportCtrl.ExportCleanliness)
}

func runCourseRouter(secureGroup *echo.Group, courseCtrl *controllers.CourseController, gk *authz.Gatekeeper, logger *zap.Logger) {
	secureGroup.POST("/users/course-sweep", courseCtrl.Sweep, middleware.RequirePermission(gk, authz.CourseSweepManual, logger))
}
