package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/pkg/logging"
	"github.com/DhavalSuthar-24/cricksim/pkg/token"
	"github.com/gin-gonic/gin"
)

const testSecret = "sim-secret"

type apiHarness struct {
	*harness
	router *gin.Engine
	runner *Runner
	token  string
}

func newAPIHarness(t *testing.T, overs int) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := newHarness(t, overs)

	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(ctx, h.engine, logging.Discard())
	t.Cleanup(func() {
		cancel()
		runner.Shutdown()
	})

	r := gin.New()
	SimulationRoutes(r.Group("/api"), h.engine, runner, testSecret, 0)

	tok, err := token.GenerateJWT("ops", token.RoleOperator, testSecret, 5)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return &apiHarness{harness: h, router: r, runner: runner, token: tok}
}

func (a *apiHarness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *apiHarness) path(action string) string {
	return fmt.Sprintf("/api/simulation/matches/%d/%s", a.fx.Match.ID, action)
}

func TestTriggerEndpointsRequireOperator(t *testing.T) {
	a := newAPIHarness(t, 2)
	a.token = ""
	if w := a.do(http.MethodPost, a.path("start"), ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestStartAndBallEndpoints(t *testing.T) {
	a := newAPIHarness(t, 2)

	w := a.do(http.MethodPost, a.path("ball"), "")
	if w.Code != http.StatusConflict {
		t.Fatalf("ball before start should be 409, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Kind != string(KindInvalidMatchState) {
		t.Fatalf("expected kind %s, got %q (%v)", KindInvalidMatchState, body.Kind, err)
	}

	if w := a.do(http.MethodPost, a.path("start"), ""); w.Code != http.StatusOK {
		t.Fatalf("start: %d %s", w.Code, w.Body.String())
	}
	w = a.do(http.MethodPost, a.path("ball"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("ball: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Ball   match.Ball `json:"ball"`
			Source string     `json:"commentary_source"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Ball.Sequence != 1 || resp.Data.Ball.Commentary == "" || resp.Data.Source == "" {
		t.Fatalf("unexpected ball payload %+v", resp.Data)
	}

	if w := a.do(http.MethodPost, "/api/simulation/matches/9999/start", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing match should be 404, got %d", w.Code)
	}
	if w := a.do(http.MethodPost, "/api/simulation/matches/abc/start", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id should be 400, got %d", w.Code)
	}
}

func TestAutoStopAndRunsEndpoints(t *testing.T) {
	a := newAPIHarness(t, 20)
	if w := a.do(http.MethodPost, a.path("auto"), ""); w.Code != http.StatusConflict {
		t.Fatalf("auto on a scheduled match should be 409, got %d", w.Code)
	}
	a.do(http.MethodPost, a.path("start"), "")

	w := a.do(http.MethodPost, a.path("auto"), `{"delay_seconds": 0.05}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("auto: %d %s", w.Code, w.Body.String())
	}
	if w := a.do(http.MethodPost, a.path("auto"), ""); w.Code != http.StatusConflict {
		t.Fatalf("second auto should be 409, got %d", w.Code)
	}
	if w := a.do(http.MethodPost, a.path("auto"), `{"delay_seconds": -1}`); w.Code != http.StatusBadRequest {
		t.Fatalf("negative delay should be 400, got %d", w.Code)
	}

	w = a.do(http.MethodGet, "/api/simulation/runs", "")
	var runs struct {
		Data []RunInfo `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &runs); err != nil || len(runs.Data) != 1 {
		t.Fatalf("expected one active run, got %s (%v)", w.Body.String(), err)
	}

	if w := a.do(http.MethodPost, a.path("stop"), ""); w.Code != http.StatusOK {
		t.Fatalf("stop: %d", w.Code)
	}
	a.runner.Wait(a.fx.Match.ID)
	if w := a.do(http.MethodPost, a.path("stop"), ""); w.Code != http.StatusNotFound {
		t.Fatalf("stop with nothing running should be 404, got %d", w.Code)
	}
}

func TestResetAndCancelEndpoints(t *testing.T) {
	a := newAPIHarness(t, 20)
	a.do(http.MethodPost, a.path("start"), "")
	if _, err := a.runner.Start(a.fx.Match.ID, time.Hour); err != nil {
		t.Fatalf("auto: %v", err)
	}

	if w := a.do(http.MethodPost, a.path("reset"), ""); w.Code != http.StatusOK {
		t.Fatalf("reset: %d %s", w.Code, w.Body.String())
	}
	if len(a.runner.Active()) != 0 {
		t.Fatalf("reset should stop the running loop")
	}
	if got := a.match().Status; got != match.StatusScheduled {
		t.Fatalf("expected scheduled after reset, got %s", got)
	}

	cancelPath := fmt.Sprintf("/api/matches/%d/cancel", a.fx.Match.ID)
	if w := a.do(http.MethodPost, cancelPath, ""); w.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", w.Code, w.Body.String())
	}
	if w := a.do(http.MethodPost, cancelPath, ""); w.Code != http.StatusConflict {
		t.Fatalf("second cancel should be 409, got %d", w.Code)
	}
}
