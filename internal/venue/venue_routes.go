package venue

import (
	mw "github.com/DhavalSuthar-24/cricksim/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VenueRoutes registers venue lookups publicly and creation behind operator auth.
func VenueRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string) {
	venueController := NewVenueController(NewVenueRepository(db))

	router.GET("/venues", venueController.GetAllVenues)
	router.GET("/venues/:venue_id", venueController.GetVenueByID)

	authRoutes := router.Group("/venues")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret))
	{
		authRoutes.POST("", venueController.CreateVenue)
	}
}
