package live

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/cricksim/pkg/cache"
	"github.com/DhavalSuthar-24/cricksim/pkg/logging"
	"github.com/alicebob/miniredis/v2"
)

type recordingBroadcaster struct {
	mu      sync.Mutex
	updates []Update
	err     error
}

func (r *recordingBroadcaster) Broadcast(_ context.Context, u Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
	return r.err
}

func (r *recordingBroadcaster) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

// brokenCache fails every call, like a redis that went away.
type brokenCache struct{}

var errCacheDown = errors.New("cache down")

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errCacheDown }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errCacheDown
}
func (brokenCache) Delete(context.Context, ...string) error { return errCacheDown }
func (brokenCache) Close() error                            { return nil }

func TestPublishRefreshesCacheAndBroadcasts(t *testing.T) {
	lm := seedLiveMatch(t)
	ctx := context.Background()
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	rec := &recordingBroadcaster{}
	p := NewPublisher(mem, lm.builder, PublisherOptions{Broadcaster: rec, Logger: logging.Discard()})

	id := lm.fx.Match.ID
	if err := mem.Set(ctx, cache.ScoreboardKey(id), []byte(`{"stale":true}`), time.Minute); err != nil {
		t.Fatalf("prime: %v", err)
	}

	p.Publish(ctx, Update{MatchID: id, Event: EventBall, Score: "10/1 (1.3)"})

	var snap Snapshot
	ok, err := cache.GetJSON(ctx, mem, cache.LiveKey(id), &snap)
	if err != nil || !ok {
		t.Fatalf("live snapshot not cached: ok=%v err=%v", ok, err)
	}
	if snap.ScoreText != "10/1 (1.3)" {
		t.Fatalf("cached snapshot %+v", snap)
	}
	if _, ok, _ := mem.Get(ctx, cache.ScoreboardKey(id)); ok {
		t.Fatalf("scoreboard should be invalidated")
	}
	if rec.count() != 1 || rec.updates[0].Event != EventBall {
		t.Fatalf("expected one broadcast, got %+v", rec.updates)
	}
}

func TestPublishSurvivesDependencyFailures(t *testing.T) {
	lm := seedLiveMatch(t)
	rec := &recordingBroadcaster{err: errors.New("broker unreachable")}
	p := NewPublisher(brokenCache{}, lm.builder, PublisherOptions{Broadcaster: rec, Logger: logging.Discard()})

	p.Publish(context.Background(), Update{MatchID: lm.fx.Match.ID, Event: EventBall})
	if rec.count() != 1 {
		t.Fatalf("broadcast should still be attempted")
	}

	snap, err := p.Live(context.Background(), lm.fx.Match.ID)
	if err != nil {
		t.Fatalf("a broken cache should fall back to a direct build: %v", err)
	}
	if snap.Score != 10 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestReadThroughUsesRedis(t *testing.T) {
	lm := seedLiveMatch(t)
	srv := miniredis.RunT(t)
	rc, err := cache.NewRedisCache(srv.Addr(), "", 0)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	defer rc.Close()

	p := NewPublisher(rc, lm.builder, PublisherOptions{Logger: logging.Discard(), ScoreboardTTL: 30 * time.Second})
	ctx := context.Background()
	id := lm.fx.Match.ID

	sb, err := p.Scoreboard(ctx, id)
	if err != nil {
		t.Fatalf("scoreboard: %v", err)
	}
	if !srv.Exists(cache.ScoreboardKey(id)) {
		t.Fatalf("scoreboard was not written to redis")
	}
	if ttl := srv.TTL(cache.ScoreboardKey(id)); ttl != 30*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	// Change the database behind the cache: reads keep serving the cached copy.
	lm.innings.TotalRuns = 99
	must(t, lm.repo.UpdateInnings(lm.innings))
	again, err := p.Scoreboard(ctx, id)
	if err != nil {
		t.Fatalf("scoreboard: %v", err)
	}
	if again.Innings[0].Runs != sb.Innings[0].Runs {
		t.Fatalf("expected cached scoreboard, got %d runs", again.Innings[0].Runs)
	}

	if err := p.Invalidate(ctx, id); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	fresh, err := p.Scoreboard(ctx, id)
	if err != nil {
		t.Fatalf("scoreboard: %v", err)
	}
	if fresh.Innings[0].Runs != 99 {
		t.Fatalf("expected rebuilt scoreboard, got %d runs", fresh.Innings[0].Runs)
	}

	srv.FastForward(31 * time.Second)
	if srv.Exists(cache.ScoreboardKey(id)) {
		t.Fatalf("scoreboard outlived its ttl")
	}
}

func TestReadThroughUnknownMatch(t *testing.T) {
	lm := seedLiveMatch(t)
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	p := NewPublisher(mem, lm.builder, PublisherOptions{Logger: logging.Discard()})

	if _, err := p.Live(context.Background(), 424242); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if mem.Size() != 0 {
		t.Fatalf("a miss must not be cached")
	}
}

func TestConcurrentReadsShareOneBuild(t *testing.T) {
	lm := seedLiveMatch(t)
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	p := NewPublisher(mem, lm.builder, PublisherOptions{Logger: logging.Discard()})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := p.Live(context.Background(), lm.fx.Match.ID)
			if err == nil && snap.Score != 10 {
				err = errors.New("wrong snapshot")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent read: %v", err)
		}
	}
}

func TestMultiBroadcaster(t *testing.T) {
	a, b := &recordingBroadcaster{}, &recordingBroadcaster{err: errors.New("down")}
	err := Multi{a, b}.Broadcast(context.Background(), Update{MatchID: 1, Event: EventStart})
	if err == nil || a.count() != 1 || b.count() != 1 {
		t.Fatalf("every broadcaster should be tried and errors joined, got %v", err)
	}
	if err := (Multi{a}).Broadcast(context.Background(), Update{}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
