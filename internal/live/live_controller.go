package live

import (
	"errors"
	"net/http"

	"github.com/DhavalSuthar-24/cricksim/internal/match"
	responses "github.com/DhavalSuthar-24/cricksim/pkg/matchresponse"
	"github.com/gin-gonic/gin"
)

const (
	defaultCommentaryLimit = 50
	maxCommentaryLimit     = 200
)

// LiveController serves the public read side of a match.
type LiveController struct {
	publisher *Publisher
	matches   match.MatchRepository
	hub       *Hub
}

func NewLiveController(publisher *Publisher, matches match.MatchRepository, hub *Hub) *LiveController {
	return &LiveController{publisher: publisher, matches: matches, hub: hub}
}

// CommentaryQuery narrows the commentary feed.
type CommentaryQuery struct {
	Type    string `form:"type" binding:"omitempty,oneof=ball wicket boundary over_summary toss milestone innings_break match_end"`
	Innings int    `form:"innings" binding:"omitempty,oneof=1 2"`
	AfterID uint   `form:"after_id"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// GetLive godoc
// @Summary Live match snapshot
// @Description Compact state of a match, served from a short-lived cache.
// @Tags live
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} Snapshot
// @Failure 404 {object} matchresponse.ErrorBody "Match not found"
// @Router /matches/{id}/live [get]
func (lc *LiveController) GetLive(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	snap, err := lc.publisher.Live(c.Request.Context(), id)
	if err != nil {
		writeViewError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, snap)
}

// GetScoreboard godoc
// @Summary Full scoreboard
// @Description Batting and bowling cards, fall of wickets, partnerships and recent balls.
// @Tags live
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} Scoreboard
// @Failure 404 {object} matchresponse.ErrorBody "Match not found"
// @Router /matches/{id}/scoreboard [get]
func (lc *LiveController) GetScoreboard(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	sb, err := lc.publisher.Scoreboard(c.Request.Context(), id)
	if err != nil {
		writeViewError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, sb)
}

// GetCommentary godoc
// @Summary Commentary feed
// @Tags live
// @Produce json
// @Param id path int true "Match ID"
// @Param type query string false "Entry type"
// @Param innings query int false "Innings number"
// @Param after_id query int false "Only entries after this id"
// @Param limit query int false "Newest N entries (default 50, max 200)"
// @Success 200 {array} match.CommentaryEntry
// @Failure 400 {object} matchresponse.ErrorBody "Invalid filter"
// @Failure 404 {object} matchresponse.ErrorBody "Match not found"
// @Router /matches/{id}/commentary [get]
func (lc *LiveController) GetCommentary(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var q CommentaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultCommentaryLimit
	}
	if q.Limit > maxCommentaryLimit {
		q.Limit = maxCommentaryLimit
	}

	repo := lc.matches.WithContext(c.Request.Context())
	if !lc.matchExists(c, repo, id) {
		return
	}
	entries, err := repo.GetCommentary(id, match.CommentaryFilter{
		InningsNumber: q.Innings,
		Type:          match.CommentaryType(q.Type),
		AfterID:       q.AfterID,
		Limit:         q.Limit,
	})
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load commentary: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusOK, entries)
}

// GetPartnerships godoc
// @Summary Partnerships of both innings
// @Tags live
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {array} match.Partnership
// @Failure 404 {object} matchresponse.ErrorBody "Match not found"
// @Router /matches/{id}/partnerships [get]
func (lc *LiveController) GetPartnerships(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	repo := lc.matches.WithContext(c.Request.Context())
	if !lc.matchExists(c, repo, id) {
		return
	}
	stands, err := repo.GetPartnerships(id)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load partnerships: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusOK, stands)
}

// GetFallOfWickets godoc
// @Summary Fall of wickets
// @Tags live
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {array} match.FallOfWicket
// @Failure 404 {object} matchresponse.ErrorBody "Match not found"
// @Router /matches/{id}/fall-of-wickets [get]
func (lc *LiveController) GetFallOfWickets(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	repo := lc.matches.WithContext(c.Request.Context())
	if !lc.matchExists(c, repo, id) {
		return
	}
	fows, err := repo.GetFallOfWickets(id)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load fall of wickets: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusOK, fows)
}

// Subscribe godoc
// @Summary Subscribe to live updates
// @Description Upgrades to a websocket that receives one JSON update per state change of the match.
// @Tags live
// @Param id path int true "Match ID"
// @Success 101
// @Failure 404 {object} matchresponse.ErrorBody "Match not found"
// @Router /ws/matches/{id} [get]
func (lc *LiveController) Subscribe(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if !lc.matchExists(c, lc.matches.WithContext(c.Request.Context()), id) {
		return
	}
	err := lc.hub.ServeWS(c.Writer, c.Request, id)
	if errors.Is(err, ErrHubClosed) && !c.Writer.Written() {
		responses.ErrorResponse(c, http.StatusServiceUnavailable, "Live updates are unavailable")
	}
	// any other failure was already answered by the upgrader
}

func (lc *LiveController) matchExists(c *gin.Context, repo match.MatchRepository, id uint) bool {
	m, err := repo.GetMatchByID(id)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load match: "+err.Error())
		return false
	}
	if m == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Match not found")
		return false
	}
	return true
}

func writeViewError(c *gin.Context, err error) {
	if errors.Is(err, ErrMatchNotFound) {
		responses.ErrorResponse(c, http.StatusNotFound, "Match not found")
		return
	}
	responses.ErrorResponse(c, http.StatusInternalServerError, err.Error())
}
