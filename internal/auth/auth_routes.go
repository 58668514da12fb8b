package auth

import (
	"github.com/DhavalSuthar-24/cricksim/config"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(router *gin.RouterGroup, appConfig *config.Config) {
	authController := NewAuthController(appConfig)

	authPublic := router.Group("/auth")
	{
		authPublic.POST("/login", authController.Login)
	}
}
