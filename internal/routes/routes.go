package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/controllers"
	"dorm-portal/pkg/config"
	"dorm-portal/pkg/metrics"
	"dorm-portal/pkg/middleware"
	"dorm-portal/pkg/service"
	"dorm-portal/pkg/websocket"
)

func InitRouter(
	e *echo.Echo,
	svc *Services,
	jwtSvc service.JWTService,
	gk *authz.Gatekeeper,
	hub *websocket.Hub,
	m *metrics.Metrics,
	cfg *config.Config,
	loggers *Loggers,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	e.Use(middleware.RequestMetrics(m))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, svc.User, loggers.Auth)
	secureGroup := api.Group("", authMW.Auth)

	cleanlinessCtrl := controllers.NewCleanlinessController(svc.Cleanliness, loggers.Dorm)

	runAuthRouter(api, secureGroup, controllers.NewAuthController(svc.Auth, jwtSvc, loggers.Auth))
	runUserRouter(secureGroup,
		controllers.NewUserController(svc.User, loggers.User),
		controllers.NewImportController(svc.Import, loggers.User),
		gk, loggers.User)
	runPositionRouter(secureGroup, controllers.NewPositionController(svc.User, loggers.User))
	runRoomRouter(secureGroup, controllers.NewRoomController(svc.Room, loggers.Dorm), gk, loggers.Dorm)
	runWorkShiftRouter(secureGroup, controllers.NewWorkShiftController(svc.WorkShift, loggers.Dorm), gk, loggers.Dorm)
	runCleanlinessRouter(secureGroup, cleanlinessCtrl, gk, loggers.Dorm)
	runAnnouncementRouter(secureGroup, controllers.NewAnnouncementController(svc.Announcement, loggers.Dorm), gk, loggers.Dorm)
	runTaskRouter(secureGroup, controllers.NewTaskController(svc.Task, loggers.Dorm), gk, loggers.Dorm)
	runNotificationRouter(secureGroup, controllers.NewNotificationController(svc.Notification, loggers.Main))
	runLogRouter(secureGroup, controllers.NewLogController(svc.Log, loggers.Main), gk, loggers.Main)
	runReportRouter(secureGroup, controllers.NewReportController(svc.Report, cleanlinessCtrl, loggers.Dorm), gk, loggers.Dorm)
	runCourseRouter(secureGroup, controllers.NewCourseController(svc.Course, loggers.User), gk, loggers.User)

	wsCtrl := controllers.NewWebSocketController(hub, cfg.Frontend.AllowedOrigins, loggers.Main)
	e.GET("/ws", wsCtrl.ServeWs, authMW.TokenFromQuery)

	loggers.Main.Info("InitRouter: Создание маршрутов завершено")
}
