package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/controllers"
	"dorm-portal/pkg/middleware"
)

func runRoomRouter(secureGroup *echo.Group, roomCtrl *controllers.RoomController, gk *authz.Gatekeeper, logger *zap.Logger) {
	canApprove := middleware.RequirePermission(gk, authz.RoomsApprove, logger)

	secureGroup.POST("/rooms/request", roomCtrl.Request)
	secureGroup.GET("/rooms/pending", roomCtrl.ListPending, canApprove)
	secureGroup.POST("/rooms/pending/:userId/approve", roomCtrl.Approve, canApprove)
	secureGroup.POST("/rooms/pending/:userId/reject", roomCtrl.Reject, canApprove)
	secureGroup.GET("/rooms/:room/occupants", roomCtrl.Occupants)
}

func runWorkShiftRouter(secureGroup *echo.Group, shiftCtrl *controllers.WorkShiftController, gk *authz.Gatekeeper, logger *zap.Logger) {
	shifts := secureGroup.Group("/work-shifts")
	{
		shifts.GET("/mine", shiftCtrl.Mine)
		shifts.GET("/user/:userId", shiftCtrl.UserShifts)
		shifts.GET("", shiftCtrl.List)
		shifts.GET("/summaries", shiftCtrl.Summaries)
		shifts.GET("/archived", shiftCtrl.Archived)
		shifts.POST("", shiftCtrl.Add, middleware.RequirePermission(gk, authz.WorkShiftsAssign, logger))
		shifts.POST("/room", shiftCtrl.AssignToRoom, middleware.RequirePermission(gk, authz.WorkShiftsAssign, logger))
		shifts.POST("/:id/complete", shiftCtrl.Complete, middleware.RequirePermission(gk, authz.WorkShiftsComplete, logger))
		shifts.DELETE("/:id", shiftCtrl.Delete, middleware.RequirePermission(gk, authz.WorkShiftsDelete, logger))
	}
}

func runCleanlinessRouter(secureGroup *echo.Group, cleanlinessCtrl *controllers.CleanlinessController, gk *authz.Gatekeeper, logger *zap.Logger) {
	cleanliness := secureGroup.Group("/cleanliness")
	{
		cleanliness.GET("/floors/:floor", cleanlinessCtrl.FloorGrid)
		cleanliness.GET("/floors/:floor/averages", cleanlinessCtrl.FloorAverages)
		cleanliness.GET("/rooms/:room/average", cleanlinessCtrl.RoomAverage)
		cleanliness.GET("/settings", cleanlinessCtrl.GetSettings)
		// права на этаж проверяет сервис
		cleanliness.PUT("/scores", cleanlinessCtrl.SetScore)
		cleanliness.DELETE("/scores", cleanlinessCtrl.DeleteScore)
		cleanliness.PUT("/settings", cleanlinessCtrl.SaveSettings, middleware.RequirePermission(gk, authz.CleanlinessSettings, logger))
	}
}

func runAnnouncementRouter(secureGroup *echo.Group, announcementCtrl *controllers.AnnouncementController, gk *authz.Gatekeeper, logger *zap.Logger) {
	announcements := secureGroup.Group("/announcements")
	{
		announcements.GET("", announcementCtrl.List)
		announcements.GET("/audiences", announcementCtrl.Audiences)
		announcements.POST("", announcementCtrl.Create, middleware.RequirePermission(gk, authz.AnnouncementsManage, logger))
		announcements.PUT("/:id", announcementCtrl.Update)
		announcements.DELETE("/:id", announcementCtrl.Delete)
	}
}

func runTaskRouter(secureGroup *echo.Group, taskCtrl *controllers.TaskController, gk *authz.Gatekeeper, logger *zap.Logger) {
	tasks := secureGroup.Group("/tasks", middleware.RequirePermission(gk, authz.TasksView, logger))
	{
		tasks.GET("", taskCtrl.List)
		tasks.POST("", taskCtrl.Create, middleware.RequirePermission(gk, authz.TasksManage, logger))
		tasks.PUT("/:id", taskCtrl.Update, middleware.RequirePermission(gk, authz.TasksManage, logger))
		tasks.PATCH("/:id/status", taskCtrl.ChangeStatus)
		tasks.DELETE("/:id", taskCtrl.Delete, middleware.RequirePermission(gk, authz.TasksManage, logger))
	}
}

func runNotificationRouter(secureGroup *echo.Group, notificationCtrl *controllers.NotificationController) {
	notifications := secureGroup.Group("/notifications")
	{
		notifications.GET("", notificationCtrl.List)
		notifications.GET("/unread-count", notificationCtrl.UnreadCount)
		notifications.POST("/read-all", notificationCtrl.MarkAllRead)
		notifications.POST("/:id/read", notificationCtrl.MarkRead)
		notifications.DELETE("/:id", notificationCtrl.Delete)
	}
}

func runLogRouter(secureGroup *echo.Group, logCtrl *controllers.LogController, gk *authz.Gatekeeper, logger *zap.Logger) {
	secureGroup.GET("/logs", logCtrl.List, middleware.RequirePermission(gk, authz.LogsView, logger))
}
