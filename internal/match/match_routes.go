package match

import (
	mw "github.com/DhavalSuthar-24/cricksim/internal/middleware"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
	"github.com/DhavalSuthar-24/cricksim/internal/venue"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MatchRoutes sets up fixture routes. Simulation and live reads are registered elsewhere.
func MatchRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string) {
	matchController := NewMatchController(
		NewGormMatchRepository(db),
		team.NewTeamRepository(db),
		venue.NewVenueRepository(db),
	)

	router.GET("/matches", matchController.GetMatches)
	router.GET("/matches/:id", matchController.GetMatchByID)

	authRoutes := router.Group("/matches")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret))
	{
		authRoutes.POST("", matchController.CreateMatch)
	}
}
