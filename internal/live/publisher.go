package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DhavalSuthar-24/cricksim/pkg/cache"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultLiveTTL       = 10 * time.Second
	DefaultScoreboardTTL = 30 * time.Second
)

// PublisherOptions configures a Publisher. Zero values select defaults.
type PublisherOptions struct {
	LiveTTL       time.Duration
	ScoreboardTTL time.Duration
	Broadcaster   Broadcaster
	Logger        *slog.Logger
}

// Publisher keeps the cached views fresh and fans updates out after each
// committed state change. Cache and broadcast failures are logged and dropped.
type Publisher struct {
	cache         cache.Cache
	builder       *Builder
	broadcaster   Broadcaster
	liveTTL       time.Duration
	scoreboardTTL time.Duration
	group         singleflight.Group
	logger        *slog.Logger
}

func NewPublisher(c cache.Cache, builder *Builder, opts PublisherOptions) *Publisher {
	p := &Publisher{
		cache:         c,
		builder:       builder,
		broadcaster:   opts.Broadcaster,
		liveTTL:       opts.LiveTTL,
		scoreboardTTL: opts.ScoreboardTTL,
		logger:        opts.Logger,
	}
	if p.broadcaster == nil {
		p.broadcaster = nopBroadcaster{}
	}
	if p.liveTTL <= 0 {
		p.liveTTL = DefaultLiveTTL
	}
	if p.scoreboardTTL <= 0 {
		p.scoreboardTTL = DefaultScoreboardTTL
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Publish invalidates both views of the match, writes a fresh live snapshot
// and broadcasts the update.
func (p *Publisher) Publish(ctx context.Context, u Update) {
	log := p.logger.With("match_id", u.MatchID, "event", u.Event)

	if err := p.Invalidate(ctx, u.MatchID); err != nil {
		log.Warn("cache invalidation failed", "error", err)
	}
	if snap, err := p.builder.Live(ctx, u.MatchID); err != nil {
		log.Warn("live snapshot rebuild failed", "error", err)
	} else if err := cache.SetJSON(ctx, p.cache, cache.LiveKey(u.MatchID), snap, p.liveTTL); err != nil {
		log.Warn("live snapshot write failed", "error", err)
	}
	if err := p.broadcaster.Broadcast(ctx, u); err != nil {
		log.Warn("broadcast failed", "error", err)
	}
}

// Invalidate drops both cached views of a match.
func (p *Publisher) Invalidate(ctx context.Context, matchID uint) error {
	return p.cache.Delete(ctx, cache.LiveKey(matchID), cache.ScoreboardKey(matchID))
}

// Live returns the cached snapshot, rebuilding it when missing or expired.
func (p *Publisher) Live(ctx context.Context, matchID uint) (*Snapshot, error) {
	var snap Snapshot
	err := p.readThrough(ctx, cache.LiveKey(matchID), p.liveTTL, &snap, func() (interface{}, error) {
		return p.builder.Live(ctx, matchID)
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Scoreboard returns the cached scoreboard, rebuilding it on demand.
func (p *Publisher) Scoreboard(ctx context.Context, matchID uint) (*Scoreboard, error) {
	var sb Scoreboard
	err := p.readThrough(ctx, cache.ScoreboardKey(matchID), p.scoreboardTTL, &sb, func() (interface{}, error) {
		return p.builder.Scoreboard(ctx, matchID)
	})
	if err != nil {
		return nil, err
	}
	return &sb, nil
}

// readThrough serves key from the cache, collapsing concurrent rebuilds of
// the same key into one. A cache failure falls back to a direct build.
func (p *Publisher) readThrough(ctx context.Context, key string, ttl time.Duration, dst interface{}, build func() (interface{}, error)) error {
	ok, err := cache.GetJSON(ctx, p.cache, key, dst)
	if err != nil {
		p.logger.Warn("cache read failed", "key", key, "error", err)
	}
	if ok {
		return nil
	}

	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		view, err := build()
		if err != nil {
			return nil, err
		}
		if err := cache.SetJSON(ctx, p.cache, key, view, ttl); err != nil {
			p.logger.Warn("cache write failed", "key", key, "error", err)
		}
		return view, nil
	})
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return err
		}
		return fmt.Errorf("build %s: %w", key, err)
	}
	return copyView(v, dst)
}

func copyView(v, dst interface{}) error {
	switch d := dst.(type) {
	case *Snapshot:
		if s, ok := v.(*Snapshot); ok {
			*d = *s
			return nil
		}
	case *Scoreboard:
		if s, ok := v.(*Scoreboard); ok {
			*d = *s
			return nil
		}
	}
	return fmt.Errorf("unexpected view type %T", v)
}
