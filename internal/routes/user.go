package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/controllers"
	"dorm-portal/pkg/middleware"
)

func runUserRouter(secureGroup *echo.Group, userCtrl *controllers.UserController, importCtrl *controllers.ImportController, gk *authz.Gatekeeper, logger *zap.Logger) {
	secureGroup.GET("/users", userCtrl.GetUsers)
	secureGroup.POST("/users/import", importCtrl.ImportResidents, middleware.RequirePermission(gk, authz.UsersManage, logger))
	secureGroup.GET("/users/:id", userCtrl.FindUser)
	secureGroup.PUT("/users/:id", userCtrl.UpdateProfile)
	secureGroup.PUT("/users/:id/role", userCtrl.ChangeRole, middleware.RequirePermission(gk, authz.UsersManage, logger))
	secureGroup.PUT("/users/:id/positions", userCtrl.SetPositions, middleware.RequirePermission(gk, authz.UsersPositions, logger))
	secureGroup.PUT("/users/:id/frozen", userCtrl.SetFrozen, middleware.RequirePermission(gk, authz.UsersModerate, logger))
	secureGroup.DELETE("/users/:id", userCtrl.DeleteUser, middleware.RequirePermission(gk, authz.UsersModerate, logger))
}

func runPositionRouter(secureGroup *echo.Group, positionCtrl *controllers.PositionController) {
	secureGroup.GET("/positions", positionCtrl.GetPositions)
}
