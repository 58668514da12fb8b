package team

import (
	"net/http"
	"strings"

	responses "github.com/DhavalSuthar-24/cricksim/pkg/matchresponse"
	"github.com/gin-gonic/gin"
)

// TeamController handles team and squad HTTP requests
type TeamController struct {
	repo TeamRepository
}

// NewTeamController creates a new team controller
func NewTeamController(repo TeamRepository) *TeamController {
	return &TeamController{repo: repo}
}

// --- DTOs for requests ---

type CreateTeamRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	ShortName string `json:"short_name" binding:"max=8"`
	Country   string `json:"country"`
	Logo      string `json:"logo"`
}

type AddPlayerRequest struct {
	Name         string     `json:"name" binding:"required,min=2,max=100"`
	Role         PlayerRole `json:"role" binding:"required,oneof=batsman bowler all_rounder wicket_keeper"`
	JerseyNumber int        `json:"jersey_number" binding:"gte=0,lte=999"`
	BattingStyle string     `json:"batting_style"`
	BowlingStyle string     `json:"bowling_style"`
}

// CreateTeam godoc
// @Summary Create a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team details"
// @Success 201 {object} matchresponse.Envelope{data=Team} "Team created"
// @Failure 400 {object} matchresponse.ErrorBody "Invalid input"
// @Failure 409 {object} matchresponse.ErrorBody "Team name taken"
// @Router /teams [post]
// @Security Bearer
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	existing, err := tc.repo.GetTeamByName(strings.TrimSpace(req.Name))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to check team name: "+err.Error())
		return
	}
	if existing != nil {
		responses.ErrorResponse(c, http.StatusConflict, "A team with this name already exists")
		return
	}

	team := Team{
		Name:      strings.TrimSpace(req.Name),
		ShortName: strings.ToUpper(req.ShortName),
		Country:   req.Country,
		Logo:      req.Logo,
	}
	if err := tc.repo.CreateTeam(&team); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create team: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusCreated, gin.H{"message": "Team created successfully", "team": team})
}

// GetTeamByID godoc
// @Summary Get a team with its active squad
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} matchresponse.Envelope{data=Team}
// @Failure 404 {object} matchresponse.ErrorBody "Team not found"
// @Router /teams/{team_id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, ok := responses.ParseIDParam(c, "team_id")
	if !ok {
		return
	}
	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve team: "+err.Error())
		return
	}
	if team == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Team not found")
		return
	}
	responses.SuccessResponse(c, http.StatusOK, team)
}

// GetAllTeams godoc
// @Summary Get all teams
// @Tags Teams
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(10)
// @Param country query string false "Filter by country"
// @Param name query string false "Search by team name (case-insensitive, partial match)"
// @Success 200 {object} matchresponse.PaginatedEnvelope{data=[]Team} "List of teams"
// @Router /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	page, pageSize := responses.ParsePagination(c)

	filters := make(map[string]interface{})
	if country := c.Query("country"); country != "" {
		filters["country"] = country
	}
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}

	teams, total, err := tc.repo.GetAllTeams(page, pageSize, filters)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve teams: "+err.Error())
		return
	}
	responses.PaginatedResponse(c, http.StatusOK, teams, page, pageSize, total)
}

// AddPlayer godoc
// @Summary Add a player to a team squad
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param player body AddPlayerRequest true "Player details"
// @Success 201 {object} matchresponse.Envelope{data=Player}
// @Failure 404 {object} matchresponse.ErrorBody "Team not found"
// @Router /teams/{team_id}/players [post]
// @Security Bearer
func (tc *TeamController) AddPlayer(c *gin.Context) {
	teamID, ok := responses.ParseIDParam(c, "team_id")
	if !ok {
		return
	}
	var req AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve team: "+err.Error())
		return
	}
	if team == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Team not found")
		return
	}

	player := Player{
		TeamID:       teamID,
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		JerseyNumber: req.JerseyNumber,
		BattingStyle: req.BattingStyle,
		BowlingStyle: req.BowlingStyle,
		IsActive:     true,
	}
	if err := tc.repo.AddPlayer(&player); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to add player: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusCreated, gin.H{"message": "Player added successfully", "player": player})
}

// GetPlayers godoc
// @Summary List a team's active players
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} matchresponse.Envelope{data=[]Player}
// @Router /teams/{team_id}/players [get]
func (tc *TeamController) GetPlayers(c *gin.Context) {
	teamID, ok := responses.ParseIDParam(c, "team_id")
	if !ok {
		return
	}
	players, err := tc.repo.GetActivePlayers(teamID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve players: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusOK, players)
}
