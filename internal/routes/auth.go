package routes

import (
	"github.com/labstack/echo/v4"

	"dorm-portal/internal/controllers"
)

func runAuthRouter(api *echo.Group, secureGroup *echo.Group, authCtrl *controllers.AuthController) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/logout", authCtrl.Logout)
		authGroup.POST("/refresh_token", authCtrl.RefreshToken)
	}
	secureGroup.GET("/auth/me", authCtrl.Me)
}
