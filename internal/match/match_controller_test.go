package match_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
	"github.com/DhavalSuthar-24/cricksim/internal/testutil"
	"github.com/DhavalSuthar-24/cricksim/internal/venue"
	"github.com/DhavalSuthar-24/cricksim/pkg/token"
	"github.com/gin-gonic/gin"
)

const fixtureSecret = "fixture-secret"

type fixtureAPI struct {
	router *gin.Engine
	token  string
	fx     *testutil.Fixture
}

func newFixtureAPI(t *testing.T) *fixtureAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	fx := testutil.SeedMatch(t, db, 20)

	r := gin.New()
	api := r.Group("/api")
	team.TeamRoutes(api, db, fixtureSecret)
	venue.VenueRoutes(api, db, fixtureSecret)
	match.MatchRoutes(api, db, fixtureSecret)

	tok, err := token.GenerateJWT("ops", token.RoleOperator, fixtureSecret, 5)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return &fixtureAPI{router: r, token: tok, fx: fx}
}

func (a *fixtureAPI) do(method, path, body string) *httptest.ResponseRecorder {
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

func TestScheduleMatch(t *testing.T) {
	a := newFixtureAPI(t)
	t1, t2 := a.fx.Team1.ID, a.fx.Team2.ID
	when := `"scheduled_at":"2026-11-01T14:00:00Z"`

	tests := []struct {
		name string
		body string
		want int
	}{
		{"same side twice", fmt.Sprintf(`{"title":"Derby","team1_id":%d,"team2_id":%d,"match_type":"T20",%s}`, t1, t1, when), http.StatusBadRequest},
		{"custom needs overs", fmt.Sprintf(`{"title":"Friendly","team1_id":%d,"team2_id":%d,"match_type":"custom",%s}`, t1, t2, when), http.StatusBadRequest},
		{"unknown format", fmt.Sprintf(`{"title":"Odd","team1_id":%d,"team2_id":%d,"match_type":"T5",%s}`, t1, t2, when), http.StatusBadRequest},
		{"unknown team", fmt.Sprintf(`{"title":"Ghosts","team1_id":%d,"team2_id":9999,"match_type":"T20",%s}`, t1, when), http.StatusNotFound},
		{"unknown venue", fmt.Sprintf(`{"title":"Nowhere","team1_id":%d,"team2_id":%d,"venue_id":9999,"match_type":"T20",%s}`, t1, t2, when), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := a.do(http.MethodPost, "/api/matches", tt.body); w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}

	w := a.do(http.MethodPost, "/api/matches",
		fmt.Sprintf(`{"title":"Final","team1_id":%d,"team2_id":%d,"venue_id":%d,"match_type":"T10",%s}`, t1, t2, a.fx.Venue.ID, when))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Data struct {
			Match match.Match `json:"match"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := created.Data.Match
	if m.ID == 0 || m.OversLimit != 10 || m.Status != match.StatusScheduled {
		t.Fatalf("created match %+v", m)
	}

	w = a.do(http.MethodGet, fmt.Sprintf("/api/matches/%d", m.ID), "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"title":"Final"`) {
		t.Fatalf("get match: %d %s", w.Code, w.Body.String())
	}

	w = a.do(http.MethodGet, "/api/matches?status=scheduled", "")
	var page struct {
		Data       []match.Match `json:"data"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if page.Pagination.TotalItems != 2 || len(page.Data) != 2 {
		t.Fatalf("expected the seeded fixture and the new one, got %d", page.Pagination.TotalItems)
	}
}

func TestFixtureWritesRequireOperator(t *testing.T) {
	a := newFixtureAPI(t)
	a.token = ""
	for _, path := range []string{"/api/matches", "/api/teams", "/api/venues"} {
		if w := a.do(http.MethodPost, path, `{}`); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, w.Code)
		}
	}
	if w := a.do(http.MethodGet, "/api/matches", ""); w.Code != http.StatusOK {
		t.Fatalf("reads stay public, got %d", w.Code)
	}
}

func TestMatchNotFound(t *testing.T) {
	a := newFixtureAPI(t)
	if w := a.do(http.MethodGet, "/api/matches/9999", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := a.do(http.MethodGet, "/api/matches/abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad id, got %d", w.Code)
	}
}

func TestSquadEndpoints(t *testing.T) {
	a := newFixtureAPI(t)

	if w := a.do(http.MethodPost, "/api/teams", fmt.Sprintf(`{"name":%q}`, a.fx.Team1.Name)); w.Code != http.StatusConflict {
		t.Fatalf("duplicate team: expected 409, got %d", w.Code)
	}

	players := fmt.Sprintf("/api/teams/%d/players", a.fx.Team1.ID)
	if w := a.do(http.MethodPost, players, `{"name":"Extra Man","role":"coach"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad role: expected 400, got %d", w.Code)
	}
	if w := a.do(http.MethodPost, players, `{"name":"Extra Man","role":"bowler","jersey_number":99}`); w.Code != http.StatusCreated {
		t.Fatalf("add player: %d %s", w.Code, w.Body.String())
	}

	w := a.do(http.MethodGet, players, "")
	var squad struct {
		Data []team.Player `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &squad); err != nil {
		t.Fatalf("decode squad: %v", err)
	}
	if len(squad.Data) != 12 {
		t.Fatalf("expected 12 active players, got %d", len(squad.Data))
	}

	if w := a.do(http.MethodGet, "/api/venues/9999", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing venue: expected 404, got %d", w.Code)
	}
	if w := a.do(http.MethodGet, fmt.Sprintf("/api/venues/%d", a.fx.Venue.ID), ""); w.Code != http.StatusOK {
		t.Fatalf("venue: expected 200, got %d", w.Code)
	}
}
