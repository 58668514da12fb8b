package live

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
	"github.com/DhavalSuthar-24/cricksim/pkg/cache"
	"github.com/DhavalSuthar-24/cricksim/pkg/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type readAPI struct {
	*liveMatch
	router *gin.Engine
	hub    *Hub
	pub    *Publisher
}

func newReadAPI(t *testing.T) *readAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	lm := seedLiveMatch(t)

	mem := cache.NewMemoryCache(0)
	t.Cleanup(func() { mem.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(logging.Discard())
	go hub.Run(ctx)

	pub := NewPublisher(mem, lm.builder, PublisherOptions{Broadcaster: hub, Logger: logging.Discard()})
	r := gin.New()
	LiveRoutes(r.Group("/api"), r, pub, lm.repo, hub)
	return &readAPI{liveMatch: lm, router: r, hub: hub, pub: pub}
}

func (a *readAPI) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (a *readAPI) path(suffix string) string {
	return fmt.Sprintf("/api/matches/%d/%s", a.fx.Match.ID, suffix)
}

func TestLiveAndScoreboardEndpoints(t *testing.T) {
	a := newReadAPI(t)

	w := a.get(a.path("live"))
	if w.Code != http.StatusOK {
		t.Fatalf("live: %d %s", w.Code, w.Body.String())
	}
	var live struct {
		Data Snapshot `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &live); err != nil || live.Data.ScoreText != "10/1 (1.3)" {
		t.Fatalf("live body %s (%v)", w.Body.String(), err)
	}

	w = a.get(a.path("scoreboard"))
	if w.Code != http.StatusOK {
		t.Fatalf("scoreboard: %d", w.Code)
	}
	var sb struct {
		Data Scoreboard `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sb); err != nil || len(sb.Data.Innings) != 1 {
		t.Fatalf("scoreboard body %s (%v)", w.Body.String(), err)
	}

	if w := a.get("/api/matches/777/live"); w.Code != http.StatusNotFound {
		t.Fatalf("unknown match should be 404, got %d", w.Code)
	}
	if w := a.get("/api/matches/x/scoreboard"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id should be 400, got %d", w.Code)
	}
}

func TestCommentaryEndpoint(t *testing.T) {
	a := newReadAPI(t)
	for i := 0; i < 60; i++ {
		must(t, a.repo.CreateCommentary(&match.CommentaryEntry{
			MatchID: a.fx.Match.ID, InningsNumber: 1, Type: match.CommentaryBall, Text: fmt.Sprintf("line %d", i),
		}))
	}

	decode := func(w *httptest.ResponseRecorder) []match.CommentaryEntry {
		t.Helper()
		var body struct {
			Data []match.CommentaryEntry `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
		return body.Data
	}

	w := a.get(a.path("commentary"))
	if w.Code != http.StatusOK {
		t.Fatalf("commentary: %d %s", w.Code, w.Body.String())
	}
	entries := decode(w)
	if len(entries) != defaultCommentaryLimit || entries[len(entries)-1].Text != "line 59" {
		t.Fatalf("expected the newest 50 in order, got %d ending %q", len(entries), entries[len(entries)-1].Text)
	}

	entries = decode(a.get(a.path("commentary?type=toss")))
	if len(entries) != 1 || entries[0].Type != match.CommentaryToss {
		t.Fatalf("type filter: %+v", entries)
	}

	last := entries[0].ID
	entries = decode(a.get(a.path(fmt.Sprintf("commentary?after_id=%d&limit=200", last))))
	if len(entries) != 61 {
		t.Fatalf("after_id: expected 61 entries, got %d", len(entries))
	}

	for _, q := range []string{"type=bogus", "innings=3", "limit=500"} {
		if w := a.get(a.path("commentary?" + q)); w.Code != http.StatusBadRequest {
			t.Fatalf("%s should be 400, got %d", q, w.Code)
		}
	}
	if w := a.get("/api/matches/777/commentary"); w.Code != http.StatusNotFound {
		t.Fatalf("unknown match should be 404, got %d", w.Code)
	}
}

func TestPartnershipAndWicketEndpoints(t *testing.T) {
	a := newReadAPI(t)

	var stands struct {
		Data []match.Partnership `json:"data"`
	}
	w := a.get(a.path("partnerships"))
	if err := json.Unmarshal(w.Body.Bytes(), &stands); err != nil || len(stands.Data) != 2 {
		t.Fatalf("partnerships: %d %s", w.Code, w.Body.String())
	}
	if !stands.Data[1].IsActive || stands.Data[0].WicketNumber != 1 {
		t.Fatalf("partnership order: %+v", stands.Data)
	}

	var fows struct {
		Data []match.FallOfWicket `json:"data"`
	}
	w = a.get(a.path("fall-of-wickets"))
	if err := json.Unmarshal(w.Body.Bytes(), &fows); err != nil || len(fows.Data) != 1 {
		t.Fatalf("fall of wickets: %d %s", w.Code, w.Body.String())
	}

	for _, suffix := range []string{"partnerships", "fall-of-wickets"} {
		if w := a.get("/api/matches/777/" + suffix); w.Code != http.StatusNotFound {
			t.Fatalf("%s of unknown match should be 404, got %d", suffix, w.Code)
		}
	}
}

func TestWebsocketEndpoint(t *testing.T) {
	a := newReadAPI(t)
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http")
	if _, resp, err := websocket.DefaultDialer.Dial(base+"/ws/matches/777", nil); err == nil || resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown match should be refused with 404, got %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s/ws/matches/%d", base, a.fx.Match.ID), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForClients(t, a.hub, 1)

	a.pub.Publish(context.Background(), Update{MatchID: a.fx.Match.ID, Event: EventBall, Score: "10/1 (1.3)", Timestamp: time.Now().Unix()})
	if u := readUpdate(t, conn); u.Event != EventBall || u.Score != "10/1 (1.3)" {
		t.Fatalf("unexpected update %+v", u)
	}
}
