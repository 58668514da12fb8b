package team

import (
	mw "github.com/DhavalSuthar-24/cricksim/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TeamRoutes sets up all team-related routes
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string) {
	teamController := NewTeamController(NewTeamRepository(db))

	// Public team routes
	router.GET("/teams", teamController.GetAllTeams)
	router.GET("/teams/:team_id", teamController.GetTeamByID)
	router.GET("/teams/:team_id/players", teamController.GetPlayers)

	authRoutes := router.Group("/teams")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret))
	{
		authRoutes.POST("", teamController.CreateTeam)
		authRoutes.POST("/:team_id/players", teamController.AddPlayer)
	}
}
