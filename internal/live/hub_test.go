package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/cricksim/pkg/logging"
	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logging.Discard())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.URL.Query().Get("match"))
		if err := hub.ServeWS(w, r, uint(id)); err != nil {
			t.Logf("serve: %v", err)
		}
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, matchID int) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?match=" + strconv.Itoa(matchID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readUpdate(t *testing.T, conn *websocket.Conn) Update {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var u Update
	if err := json.Unmarshal(data, &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return u
}

func TestHubFansOutByMatch(t *testing.T) {
	hub, srv := startHub(t)
	one := dial(t, srv, 1)
	two := dial(t, srv, 2)
	waitForClients(t, hub, 2)

	ctx := context.Background()
	if err := hub.Broadcast(ctx, Update{MatchID: 2, Event: EventBall, Score: "1/0 (0.1)"}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if err := hub.Broadcast(ctx, Update{MatchID: 1, Event: EventBall, Score: "4/0 (0.1)"}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	if u := readUpdate(t, one); u.MatchID != 1 || u.Score != "4/0 (0.1)" {
		t.Fatalf("match 1 subscriber got %+v", u)
	}
	if u := readUpdate(t, two); u.MatchID != 2 {
		t.Fatalf("match 2 subscriber got %+v", u)
	}
}

func TestHubEventSubscription(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, 5)
	waitForClients(t, hub, 1)

	if err := conn.WriteJSON(clientMessage{Type: "subscribe", Events: []string{EventMatchEnd}}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	// the filter is applied by the read pump, give it a moment
	time.Sleep(50 * time.Millisecond)

	ctx := context.Background()
	hub.Broadcast(ctx, Update{MatchID: 5, Event: EventBall})
	hub.Broadcast(ctx, Update{MatchID: 5, Event: EventMatchEnd, Commentary: "Match tied"})

	if u := readUpdate(t, conn); u.Event != EventMatchEnd {
		t.Fatalf("expected only the match end, got %+v", u)
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, 1)
	waitForClients(t, hub, 1)
	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHubClosed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logging.Discard())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	if err := hub.Broadcast(context.Background(), Update{MatchID: 1}); !errors.Is(err, ErrHubClosed) {
		t.Fatalf("expected closed hub, got %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if err := hub.ServeWS(httptest.NewRecorder(), req, 1); !errors.Is(err, ErrHubClosed) {
		t.Fatalf("expected closed hub, got %v", err)
	}
}

func TestHubBacklogFull(t *testing.T) {
	hub := NewHub(logging.Discard())
	// not running, so nothing drains the queue
	var err error
	for i := 0; i <= hubBacklog && err == nil; i++ {
		err = hub.Broadcast(context.Background(), Update{MatchID: 1})
	}
	if !errors.Is(err, ErrHubBacklogFull) {
		t.Fatalf("expected backlog error, got %v", err)
	}
}
