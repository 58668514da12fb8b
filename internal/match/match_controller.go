package match

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DhavalSuthar-24/cricksim/internal/team"
	"github.com/DhavalSuthar-24/cricksim/internal/venue"
	responses "github.com/DhavalSuthar-24/cricksim/pkg/matchresponse"
	"github.com/gin-gonic/gin"
)

// MatchController handles match fixture HTTP requests
type MatchController struct {
	repo      MatchRepository
	teamRepo  team.TeamRepository
	venueRepo venue.VenueRepository
}

// NewMatchController creates a new match controller
func NewMatchController(repo MatchRepository, teamRepo team.TeamRepository, venueRepo venue.VenueRepository) *MatchController {
	return &MatchController{
		repo:      repo,
		teamRepo:  teamRepo,
		venueRepo: venueRepo,
	}
}

// defaultOvers per format; custom fixtures must name their own limit.
var defaultOvers = map[string]int{
	"T10": 10,
	"T20": 20,
	"ODI": 50,
}

// CreateMatchRequest defines the request payload for scheduling a fixture
type CreateMatchRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=200"`
	Team1ID     uint      `json:"team1_id" binding:"required"`
	Team2ID     uint      `json:"team2_id" binding:"required,nefield=Team1ID"`
	VenueID     *uint     `json:"venue_id,omitempty"`
	MatchType   string    `json:"match_type" binding:"required,oneof=T10 T20 ODI custom"`
	OversLimit  int       `json:"overs_limit,omitempty" binding:"omitempty,min=1,max=50"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// MatchDetail is a fixture with its innings attached.
type MatchDetail struct {
	Match
	Innings []Innings `json:"innings"`
}

// CreateMatch godoc
// @Summary Schedule a match
// @Tags matches
// @Accept json
// @Produce json
// @Param match body CreateMatchRequest true "Fixture details"
// @Success 201 {object} Match "Match scheduled"
// @Failure 400 {object} matchresponse.ErrorBody "Invalid input"
// @Failure 404 {object} matchresponse.ErrorBody "Team or venue not found"
// @Router /matches [post]
// @Security Bearer
func (mc *MatchController) CreateMatch(c *gin.Context) {
	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	overs := req.OversLimit
	if overs == 0 {
		overs = defaultOvers[req.MatchType]
	}
	if overs == 0 {
		responses.ErrorResponse(c, http.StatusBadRequest, "overs_limit is required for custom matches")
		return
	}

	for _, teamID := range []uint{req.Team1ID, req.Team2ID} {
		t, err := mc.teamRepo.GetTeamByID(teamID)
		if err != nil {
			responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load team: "+err.Error())
			return
		}
		if t == nil {
			responses.ErrorResponse(c, http.StatusNotFound, "Team "+strconv.FormatUint(uint64(teamID), 10)+" not found")
			return
		}
	}

	if req.VenueID != nil {
		v, err := mc.venueRepo.GetVenueByID(*req.VenueID)
		if err != nil {
			responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load venue: "+err.Error())
			return
		}
		if v == nil {
			responses.ErrorResponse(c, http.StatusNotFound, "Venue not found")
			return
		}
	}

	m := Match{
		Title:       req.Title,
		Team1ID:     req.Team1ID,
		Team2ID:     req.Team2ID,
		VenueID:     req.VenueID,
		MatchType:   req.MatchType,
		OversLimit:  overs,
		ScheduledAt: req.ScheduledAt,
		Status:      StatusScheduled,
	}
	if err := mc.repo.CreateMatch(&m); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create match: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusCreated, gin.H{"message": "Match scheduled successfully", "match": m})
}

// GetMatches godoc
// @Summary List matches
// @Tags matches
// @Produce json
// @Param status query string false "Filter by status"
// @Param team_id query int false "Filter by team"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} matchresponse.PaginatedEnvelope
// @Router /matches [get]
func (mc *MatchController) GetMatches(c *gin.Context) {
	page, pageSize := responses.ParsePagination(c)
	status := c.Query("status")

	if teamParam := c.Query("team_id"); teamParam != "" {
		teamID, err := strconv.ParseUint(teamParam, 10, 32)
		if err != nil {
			responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team_id")
			return
		}
		matches, total, err := mc.repo.GetTeamMatches(uint(teamID), status, page, pageSize)
		if err != nil {
			responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to list matches: "+err.Error())
			return
		}
		responses.PaginatedResponse(c, http.StatusOK, matches, page, pageSize, total)
		return
	}

	filters := map[string]interface{}{}
	if status != "" {
		filters["status = ?"] = status
	}
	matches, total, err := mc.repo.GetMatches(filters, page, pageSize)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to list matches: "+err.Error())
		return
	}
	responses.PaginatedResponse(c, http.StatusOK, matches, page, pageSize, total)
}

// GetMatchByID godoc
// @Summary Get a match with its innings
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} MatchDetail
// @Failure 404 {object} matchresponse.ErrorBody "Match not found"
// @Router /matches/{id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}

	m, err := mc.repo.GetMatchByID(id)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load match: "+err.Error())
		return
	}
	if m == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Match not found")
		return
	}

	innings, err := mc.repo.GetInningsByMatch(id)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load innings: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusOK, MatchDetail{Match: *m, Innings: innings})
}
