// Package simulation drives a cricket match ball by ball.
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DhavalSuthar-24/cricksim/internal/commentary"
	"github.com/DhavalSuthar-24/cricksim/internal/live"
	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Publisher receives an update after every committed state change.
// Implementations must swallow their own failures.
type Publisher interface {
	Publish(ctx context.Context, update live.Update)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, live.Update) {}

// Options configures an Engine. Zero values select production defaults.
type Options struct {
	Outcomes   OutcomeSource
	Rand       Rand
	Seed       int64
	Commentary *commentary.Pipeline
	Publisher  Publisher
	Logger     *slog.Logger
	Now        func() time.Time
}

// Engine is the match state machine. All writes for one match are serialised
// and each ball is committed in a single transaction.
type Engine struct {
	matches    match.MatchRepository
	teams      team.TeamRepository
	outcomes   OutcomeSource
	rng        Rand
	commentary *commentary.Pipeline
	publisher  Publisher
	locks      *matchLocks
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

func NewEngine(matches match.MatchRepository, teams team.TeamRepository, opts Options) *Engine {
	e := &Engine{
		matches:    matches,
		teams:      teams,
		outcomes:   opts.Outcomes,
		rng:        opts.Rand,
		commentary: opts.Commentary,
		publisher:  opts.Publisher,
		locks:      newMatchLocks(),
		logger:     opts.Logger,
		tracer:     otel.Tracer("cricksim/simulation"),
		now:        opts.Now,
	}
	if e.outcomes == nil {
		e.outcomes = NewTableSource(DefaultOutcomeTable(), opts.Seed)
	}
	if e.rng == nil {
		e.rng = newLockedRand(opts.Seed)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("component", "simulation")
	if e.commentary == nil {
		e.commentary = commentary.NewPipeline(e.logger, commentary.StaticGenerator{})
	}
	if e.publisher == nil {
		e.publisher = nopPublisher{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// CurrentStatus reports the lifecycle status of a match.
func (e *Engine) CurrentStatus(ctx context.Context, matchID uint) (match.MatchStatus, error) {
	m, err := e.matches.WithContext(ctx).GetMatchByID(matchID)
	if err != nil {
		return "", fmt.Errorf("load match %d: %w", matchID, err)
	}
	if m == nil {
		return "", newError(KindNotFound, "match %d not found", matchID)
	}
	return m.Status, nil
}

func (e *Engine) startSpan(ctx context.Context, name string, matchID uint) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(attribute.Int64("match.id", int64(matchID))))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (e *Engine) publish(ctx context.Context, u live.Update) {
	u.Timestamp = e.now().Unix()
	e.publisher.Publish(ctx, u)
}

// side is one team with its available squad.
type side struct {
	team  team.Team
	squad []team.Player
}

func (s side) name() string {
	if s.team.Name != "" {
		return s.team.Name
	}
	return fmt.Sprintf("Team %d", s.team.ID)
}

func (e *Engine) loadSide(ctx context.Context, teamID uint) (side, error) {
	repo := e.teams.WithContext(ctx)
	t, err := repo.GetTeamByID(teamID)
	if err != nil {
		return side{}, fmt.Errorf("load team %d: %w", teamID, err)
	}
	if t == nil {
		return side{}, newError(KindInsufficientPlayers, "team %d no longer exists", teamID)
	}
	players, err := repo.GetActivePlayers(teamID)
	if err != nil {
		return side{}, fmt.Errorf("load players of team %d: %w", teamID, err)
	}
	t.Players = nil
	return side{team: *t, squad: players}, nil
}

// matchState is the in-memory working set for one operation. Nothing here is
// persisted until the operation commits.
type matchState struct {
	match   *match.Match
	sides   map[uint]side
	players map[uint]team.Player
	stats   map[uint]*match.PlayerMatchStats
	dirty   map[uint]bool
}

func (e *Engine) loadState(ctx context.Context, repo match.MatchRepository, matchID uint) (*matchState, error) {
	m, err := repo.GetMatchByID(matchID)
	if err != nil {
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	if m == nil {
		return nil, newError(KindNotFound, "match %d not found", matchID)
	}

	st := &matchState{
		match:   m,
		sides:   make(map[uint]side, 2),
		players: make(map[uint]team.Player),
		stats:   make(map[uint]*match.PlayerMatchStats),
		dirty:   make(map[uint]bool),
	}
	for _, teamID := range []uint{m.Team1ID, m.Team2ID} {
		s, err := e.loadSide(ctx, teamID)
		if err != nil {
			return nil, err
		}
		st.sides[teamID] = s
		for _, p := range s.squad {
			st.players[p.ID] = p
		}
	}

	rows, err := repo.GetMatchPlayerStats(matchID)
	if err != nil {
		return nil, fmt.Errorf("load player stats: %w", err)
	}
	for i := range rows {
		st.stats[rows[i].PlayerID] = &rows[i]
	}
	return st, nil
}

// stat returns the player's row, creating an unsaved one if the player joined late.
func (st *matchState) stat(p team.Player) *match.PlayerMatchStats {
	st.dirty[p.ID] = true
	if s, ok := st.stats[p.ID]; ok {
		return s
	}
	s := &match.PlayerMatchStats{MatchID: st.match.ID, PlayerID: p.ID, TeamID: p.TeamID}
	st.stats[p.ID] = s
	return s
}

func (st *matchState) name(playerID uint) string {
	if p, ok := st.players[playerID]; ok {
		return p.Name
	}
	return fmt.Sprintf("Player %d", playerID)
}

func (st *matchState) player(id *uint) (team.Player, bool) {
	if id == nil {
		return team.Player{}, false
	}
	p, ok := st.players[*id]
	return p, ok
}

// allOutAt is the wicket count that ends an innings for a squad of n.
func allOutAt(n int) int {
	if n-1 < 10 {
		return n - 1
	}
	return 10
}

func uintPtr(v uint) *uint { return &v }
