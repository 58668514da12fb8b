package live

import (
	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/gin-gonic/gin"
)

// LiveRoutes registers the public read API under api and, when root is not
// nil, the websocket endpoint.
func LiveRoutes(api *gin.RouterGroup, root gin.IRoutes, publisher *Publisher, matches match.MatchRepository, hub *Hub) {
	lc := NewLiveController(publisher, matches, hub)

	reads := api.Group("/matches/:id")
	{
		reads.GET("/live", lc.GetLive)
		reads.GET("/scoreboard", lc.GetScoreboard)
		reads.GET("/commentary", lc.GetCommentary)
		reads.GET("/partnerships", lc.GetPartnerships)
		reads.GET("/fall-of-wickets", lc.GetFallOfWickets)
	}

	if root != nil {
		root.GET("/ws/matches/:id", lc.Subscribe)
	}
}
