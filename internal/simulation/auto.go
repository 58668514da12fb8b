package simulation

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/google/uuid"
)

// BallSimulator is the slice of the engine the auto loop drives.
type BallSimulator interface {
	SimulateBall(ctx context.Context, matchID uint) (*BallResult, error)
	CurrentStatus(ctx context.Context, matchID uint) (match.MatchStatus, error)
}

// AutoSimulate bowls balls until the match leaves live or stop is closed. stop
// is checked before every ball and during the pause between balls. It returns
// the number of balls bowled.
func AutoSimulate(ctx context.Context, sim BallSimulator, matchID uint, delay time.Duration, stop <-chan struct{}) (int, error) {
	bowled := 0
	for {
		select {
		case <-stop:
			return bowled, nil
		case <-ctx.Done():
			return bowled, ctx.Err()
		default:
		}

		status, err := sim.CurrentStatus(ctx, matchID)
		if err != nil {
			return bowled, err
		}
		if status != match.StatusLive {
			return bowled, nil
		}

		if _, err := sim.SimulateBall(ctx, matchID); err != nil {
			return bowled, err
		}
		bowled++

		if delay <= 0 {
			continue
		}
		timer := time.NewTimer(delay)
		select {
		case <-stop:
			timer.Stop()
			return bowled, nil
		case <-ctx.Done():
			timer.Stop()
			return bowled, ctx.Err()
		case <-timer.C:
		}
	}
}

// RunInfo describes one background auto-simulation.
type RunInfo struct {
	ID        string    `json:"id"`
	MatchID   uint      `json:"match_id"`
	Delay     string    `json:"delay"`
	StartedAt time.Time `json:"started_at"`
}

type run struct {
	info     RunInfo
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func (r *run) requestStop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Runner owns background auto-simulations, at most one per match.
type Runner struct {
	ctx    context.Context
	sim    BallSimulator
	logger *slog.Logger

	mu   sync.Mutex
	runs map[uint]*run
	wg   sync.WaitGroup
}

// NewRunner ties every loop to ctx; cancelling it stops them all.
func NewRunner(ctx context.Context, sim BallSimulator, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		ctx:    ctx,
		sim:    sim,
		logger: logger.With("component", "auto_runner"),
		runs:   make(map[uint]*run),
	}
}

// Start launches a loop for a live match and returns immediately.
func (r *Runner) Start(matchID uint, delay time.Duration) (RunInfo, error) {
	status, err := r.sim.CurrentStatus(r.ctx, matchID)
	if err != nil {
		return RunInfo{}, err
	}
	if status != match.StatusLive {
		return RunInfo{}, newError(KindInvalidMatchState, "match %d is %s, start it before auto-simulating", matchID, status)
	}

	r.mu.Lock()
	if _, ok := r.runs[matchID]; ok {
		r.mu.Unlock()
		return RunInfo{}, newError(KindInvalidMatchState, "match %d is already auto-simulating", matchID)
	}
	rn := &run{
		info: RunInfo{
			ID:        uuid.NewString(),
			MatchID:   matchID,
			Delay:     delay.String(),
			StartedAt: time.Now(),
		},
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	r.runs[matchID] = rn
	r.mu.Unlock()

	r.wg.Add(1)
	go r.loop(rn, delay)
	return rn.info, nil
}

func (r *Runner) loop(rn *run, delay time.Duration) {
	defer r.wg.Done()
	defer close(rn.done)
	defer func() {
		r.mu.Lock()
		delete(r.runs, rn.info.MatchID)
		r.mu.Unlock()
	}()

	log := r.logger.With("match_id", rn.info.MatchID, "run_id", rn.info.ID)
	log.Info("auto simulation started", "delay", rn.info.Delay)

	bowled, err := AutoSimulate(r.ctx, r.sim, rn.info.MatchID, delay, rn.stop)
	switch {
	case err == nil:
		log.Info("auto simulation finished", "balls", bowled)
	case errors.Is(err, context.Canceled):
		log.Info("auto simulation cancelled", "balls", bowled)
	case errors.Is(err, ErrRotationExhausted):
		log.Error("auto simulation halted on bowler rotation", "balls", bowled, "error", err)
	default:
		log.Error("auto simulation failed", "balls", bowled, "error", err)
	}
}

// RequestStop asks the loop for a match to stop before its next ball. It
// reports whether a loop was running.
func (r *Runner) RequestStop(matchID uint) bool {
	r.mu.Lock()
	rn, ok := r.runs[matchID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	rn.requestStop()
	return true
}

// Wait blocks until the loop for a match has exited.
func (r *Runner) Wait(matchID uint) {
	r.mu.Lock()
	rn, ok := r.runs[matchID]
	r.mu.Unlock()
	if ok {
		<-rn.done
	}
}

// Active lists running loops ordered by match id.
func (r *Runner) Active() []RunInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RunInfo, 0, len(r.runs))
	for _, rn := range r.runs {
		out = append(out, rn.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out
}

// Shutdown stops every loop and waits for them to exit.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	for _, rn := range r.runs {
		rn.requestStop()
	}
	r.mu.Unlock()
	r.wg.Wait()
}
