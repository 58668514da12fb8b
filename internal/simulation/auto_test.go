package simulation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/pkg/logging"
)

// fakeSimulator goes completed after a fixed number of balls.
type fakeSimulator struct {
	mu      sync.Mutex
	balls   int
	limit   int
	failAt  int
	failErr error
	status  match.MatchStatus
	bowled  chan struct{}
}

func newFakeSimulator(limit int) *fakeSimulator {
	return &fakeSimulator{limit: limit, status: match.StatusLive, bowled: make(chan struct{}, 1000)}
}

func (f *fakeSimulator) SimulateBall(context.Context, uint) (*BallResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt > 0 && f.balls+1 == f.failAt {
		return nil, f.failErr
	}
	f.balls++
	if f.limit > 0 && f.balls >= f.limit {
		f.status = match.StatusCompleted
	}
	f.bowled <- struct{}{}
	return &BallResult{}, nil
}

func (f *fakeSimulator) CurrentStatus(context.Context, uint) (match.MatchStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, nil
}

func (f *fakeSimulator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balls
}

func TestAutoSimulateRunsUntilMatchEnds(t *testing.T) {
	sim := newFakeSimulator(15)
	n, err := AutoSimulate(context.Background(), sim, 1, 0, make(chan struct{}))
	if err != nil || n != 15 {
		t.Fatalf("expected 15 balls, got %d (%v)", n, err)
	}
}

func TestAutoSimulateHonoursStop(t *testing.T) {
	sim := newFakeSimulator(0)
	stop := make(chan struct{})
	close(stop)
	n, err := AutoSimulate(context.Background(), sim, 1, 0, stop)
	if err != nil || n != 0 {
		t.Fatalf("closed stop should bowl nothing, got %d (%v)", n, err)
	}

	stop = make(chan struct{})
	done := make(chan int)
	go func() {
		n, _ := AutoSimulate(context.Background(), sim, 1, time.Hour, stop)
		done <- n
	}()
	<-sim.bowled
	close(stop)
	select {
	case n := <-done:
		if n != 1 {
			t.Fatalf("stop during the pause should end after one ball, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("loop ignored stop while waiting")
	}
}

func TestAutoSimulateStopsOnError(t *testing.T) {
	sim := newFakeSimulator(0)
	sim.failAt = 4
	sim.failErr = newError(KindRotationExhausted, "capped")
	n, err := AutoSimulate(context.Background(), sim, 1, 0, make(chan struct{}))
	if !errors.Is(err, ErrRotationExhausted) || n != 3 {
		t.Fatalf("expected halt after 3 balls, got %d (%v)", n, err)
	}
}

func TestRunner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sim := newFakeSimulator(0)
	r := NewRunner(ctx, sim, logging.Discard())

	info, err := r.Start(7, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if info.ID == "" || info.MatchID != 7 {
		t.Fatalf("unexpected run info %+v", info)
	}
	if _, err := r.Start(7, time.Millisecond); !errors.Is(err, ErrInvalidMatchState) {
		t.Fatalf("second run for the same match should be rejected, got %v", err)
	}
	if active := r.Active(); len(active) != 1 || active[0].ID != info.ID {
		t.Fatalf("expected one active run, got %+v", active)
	}

	<-sim.bowled
	if !r.RequestStop(7) {
		t.Fatalf("stop should find the run")
	}
	r.Wait(7)
	if len(r.Active()) != 0 {
		t.Fatalf("run should be gone after stopping")
	}
	if r.RequestStop(7) {
		t.Fatalf("nothing left to stop")
	}
	if sim.count() == 0 {
		t.Fatalf("expected at least one ball")
	}
}

func TestRunnerRejectsMatchesThatAreNotLive(t *testing.T) {
	sim := newFakeSimulator(0)
	sim.status = match.StatusScheduled
	r := NewRunner(context.Background(), sim, logging.Discard())
	if _, err := r.Start(1, 0); !errors.Is(err, ErrInvalidMatchState) {
		t.Fatalf("expected invalid match state, got %v", err)
	}
}

func TestRunnerShutdown(t *testing.T) {
	sim := newFakeSimulator(0)
	r := NewRunner(context.Background(), sim, logging.Discard())
	for _, id := range []uint{1, 2, 3} {
		if _, err := r.Start(id, time.Hour); err != nil {
			t.Fatalf("start %d: %v", id, err)
		}
	}
	r.Shutdown()
	if len(r.Active()) != 0 {
		t.Fatalf("shutdown should stop every run")
	}
}
