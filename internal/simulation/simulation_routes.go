package simulation

import (
	"time"

	mw "github.com/DhavalSuthar-24/cricksim/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SimulationRoutes registers the operator-only trigger endpoints.
func SimulationRoutes(router *gin.RouterGroup, engine *Engine, runner *Runner, jwtSecret string, defaultDelay time.Duration) {
	sc := NewSimulationController(engine, runner, defaultDelay)

	simRoutes := router.Group("/simulation")
	simRoutes.Use(mw.AuthMiddleware(jwtSecret))
	{
		simRoutes.POST("/matches/:id/start", sc.StartMatch)
		simRoutes.POST("/matches/:id/ball", sc.SimulateBall)
		simRoutes.POST("/matches/:id/auto", sc.StartAuto)
		simRoutes.POST("/matches/:id/stop", sc.StopAuto)
		simRoutes.POST("/matches/:id/reset", sc.ResetMatch)
		simRoutes.GET("/runs", sc.ActiveRuns)
	}

	router.POST("/matches/:id/cancel", mw.AuthMiddleware(jwtSecret), sc.CancelMatch)
}
