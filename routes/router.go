package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/cricksim/config"
	"github.com/DhavalSuthar-24/cricksim/internal/auth"
	"github.com/DhavalSuthar-24/cricksim/internal/live"
	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/simulation"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
	"github.com/DhavalSuthar-24/cricksim/internal/venue"
)

// Services are the long-lived components main builds before routing.
type Services struct {
	Engine    *simulation.Engine
	Runner    *simulation.Runner
	Publisher *live.Publisher
	Hub       *live.Hub
}

func SetupRoutes(cfg *config.Config, db *gorm.DB, svc Services) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.App.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"time":        time.Now().UTC(),
			"auto_runs":   len(svc.Runner.Active()),
			"subscribers": svc.Hub.ClientCount(),
		})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	jwtSecret := cfg.JWT.AccessTokenSecret

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, cfg)
	team.TeamRoutes(api, db, jwtSecret)
	venue.VenueRoutes(api, db, jwtSecret)
	match.MatchRoutes(api, db, jwtSecret)
	simulation.SimulationRoutes(api, svc.Engine, svc.Runner, jwtSecret, cfg.AutoDelay())

	var ws gin.IRoutes
	if cfg.Broadcast.WebsocketEnabled {
		ws = r
	}
	live.LiveRoutes(api, ws, svc.Publisher, match.NewGormMatchRepository(db), svc.Hub)

	return r
}
