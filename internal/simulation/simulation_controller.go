package simulation

import (
	"net/http"
	"time"

	responses "github.com/DhavalSuthar-24/cricksim/pkg/matchresponse"
	"github.com/gin-gonic/gin"
)

// SimulationController exposes the trigger boundary to operators.
type SimulationController struct {
	engine       *Engine
	runner       *Runner
	defaultDelay time.Duration
}

func NewSimulationController(engine *Engine, runner *Runner, defaultDelay time.Duration) *SimulationController {
	return &SimulationController{engine: engine, runner: runner, defaultDelay: defaultDelay}
}

// AutoRequest optionally overrides the pause between balls.
type AutoRequest struct {
	DelaySeconds *float64 `json:"delay_seconds" binding:"omitempty,min=0,max=300"`
}

func writeError(c *gin.Context, err error) {
	kind := KindOf(err)
	if kind == "" {
		responses.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	responses.KindErrorResponse(c, HTTPStatus(err), string(kind), err.Error())
}

// StartMatch godoc
// @Summary Start (or restart) a match
// @Description Tosses, opens the first innings and sets the match live. A match that is not scheduled is wiped first.
// @Tags simulation
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} matchresponse.Envelope
// @Failure 404 {object} matchresponse.ErrorBody
// @Failure 422 {object} matchresponse.ErrorBody
// @Router /simulation/matches/{id}/start [post]
// @Security Bearer
func (sc *SimulationController) StartMatch(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	m, err := sc.engine.Start(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Match started", "match": m})
}

// SimulateBall godoc
// @Summary Bowl one delivery
// @Tags simulation
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} matchresponse.Envelope
// @Failure 409 {object} matchresponse.ErrorBody
// @Router /simulation/matches/{id}/ball [post]
// @Security Bearer
func (sc *SimulationController) SimulateBall(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	res, err := sc.engine.SimulateBall(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, res)
}

// StartAuto godoc
// @Summary Auto-simulate a live match in the background
// @Tags simulation
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param body body AutoRequest false "Pause between balls"
// @Success 202 {object} matchresponse.Envelope
// @Failure 409 {object} matchresponse.ErrorBody
// @Router /simulation/matches/{id}/auto [post]
// @Security Bearer
func (sc *SimulationController) StartAuto(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req AutoRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.ValidationErrorResponse(c, err)
			return
		}
	}
	delay := sc.defaultDelay
	if req.DelaySeconds != nil {
		delay = time.Duration(*req.DelaySeconds * float64(time.Second))
	}

	info, err := sc.runner.Start(id, delay)
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusAccepted, gin.H{"message": "Auto simulation started", "run": info})
}

// StopAuto godoc
// @Summary Stop an auto-simulation before its next ball
// @Tags simulation
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} matchresponse.Envelope
// @Failure 404 {object} matchresponse.ErrorBody
// @Router /simulation/matches/{id}/stop [post]
// @Security Bearer
func (sc *SimulationController) StopAuto(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if !sc.runner.RequestStop(id) {
		responses.ErrorResponse(c, http.StatusNotFound, "No auto simulation is running for this match")
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Stop requested", "match_id": id})
}

// ResetMatch godoc
// @Summary Discard simulated data and return the match to scheduled
// @Tags simulation
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} matchresponse.Envelope
// @Failure 404 {object} matchresponse.ErrorBody
// @Router /simulation/matches/{id}/reset [post]
// @Security Bearer
func (sc *SimulationController) ResetMatch(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if sc.runner.RequestStop(id) {
		sc.runner.Wait(id)
	}
	m, err := sc.engine.Reset(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Match reset", "match": m})
}

// CancelMatch godoc
// @Summary Cancel a scheduled or live match
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} matchresponse.Envelope
// @Failure 409 {object} matchresponse.ErrorBody
// @Router /matches/{id}/cancel [post]
// @Security Bearer
func (sc *SimulationController) CancelMatch(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if sc.runner.RequestStop(id) {
		sc.runner.Wait(id)
	}
	m, err := sc.engine.Cancel(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Match cancelled", "match": m})
}

// ActiveRuns godoc
// @Summary List running auto-simulations
// @Tags simulation
// @Produce json
// @Success 200 {object} matchresponse.Envelope
// @Router /simulation/runs [get]
// @Security Bearer
func (sc *SimulationController) ActiveRuns(c *gin.Context) {
	responses.SuccessResponse(c, http.StatusOK, sc.runner.Active())
}
