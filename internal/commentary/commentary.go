// Package commentary turns simulated deliveries into narrative text through an
// ordered chain of generators. The first generator to return text wins.
package commentary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// BallContext is everything a generator may describe about one delivery.
type BallContext struct {
	MatchID       uint
	InningsNumber int
	Batsman       string
	NonStriker    string
	Bowler        string
	Over          int // 0-based over number
	Ball          int // 1..6
	Runs          int // off the bat
	ExtraType     string
	ExtraRuns     int
	IsWicket      bool
	DismissalType string
	Fielder       string
	IsFour        bool
	IsSix         bool
	Score         int
	Wickets       int
	Target        int
}

// OverBall renders the delivery position as "3.4".
func (b BallContext) OverBall() string {
	return fmt.Sprintf("%d.%d", b.Over, b.Ball)
}

// Event is the discrete category a ball falls into.
type Event string

const (
	EventWicketBowled    Event = "wicket_bowled"
	EventWicketCaught    Event = "wicket_caught"
	EventWicketLBW       Event = "wicket_lbw"
	EventWicketRunOut    Event = "wicket_run_out"
	EventWicketStumped   Event = "wicket_stumped"
	EventWicketHitWicket Event = "wicket_hit_wicket"
	EventSix             Event = "six"
	EventFour            Event = "four"
	EventDot             Event = "dot"
	EventSingle          Event = "single"
	EventDouble          Event = "double"
	EventTriple          Event = "triple"
	EventWide            Event = "wide"
	EventNoBall          Event = "no_ball"
	EventBye             Event = "bye"
	EventLegBye          Event = "leg_bye"
)

// Classify maps a delivery onto its event category. Wickets take precedence,
// then extras, then boundaries, then runs off the bat.
func Classify(b BallContext) Event {
	if b.IsWicket {
		switch b.DismissalType {
		case "bowled":
			return EventWicketBowled
		case "lbw":
			return EventWicketLBW
		case "run_out":
			return EventWicketRunOut
		case "stumped":
			return EventWicketStumped
		case "hit_wicket":
			return EventWicketHitWicket
		default:
			return EventWicketCaught
		}
	}
	switch b.ExtraType {
	case "wide":
		return EventWide
	case "no_ball":
		return EventNoBall
	case "bye":
		return EventBye
	case "leg_bye":
		return EventLegBye
	}
	switch {
	case b.IsSix || b.Runs == 6:
		return EventSix
	case b.IsFour || b.Runs == 4:
		return EventFour
	case b.Runs == 0:
		return EventDot
	case b.Runs == 1:
		return EventSingle
	case b.Runs == 2:
		return EventDouble
	default:
		return EventTriple
	}
}

// IsWicketEvent reports whether the category is a dismissal.
func (e Event) IsWicketEvent() bool {
	return strings.HasPrefix(string(e), "wicket_")
}

// Generator produces one line of ball commentary. An empty string with a nil
// error means the generator has nothing to say and the next tier should run.
type Generator interface {
	Name() string
	Generate(ctx context.Context, ball BallContext) (string, error)
}

// Result is the chosen line and the generator that produced it.
type Result struct {
	Text   string
	Source string
}

// Pipeline tries each generator in order. Failures are logged and skipped, so
// Generate never returns an error and never returns empty text.
type Pipeline struct {
	tiers  []Generator
	logger *slog.Logger
}

func NewPipeline(logger *slog.Logger, tiers ...Generator) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{tiers: tiers, logger: logger.With("component", "commentary")}
}

// Tiers lists generator names in the order they are consulted.
func (p *Pipeline) Tiers() []string {
	names := make([]string, 0, len(p.tiers))
	for _, g := range p.tiers {
		names = append(names, g.Name())
	}
	return names
}

func (p *Pipeline) Generate(ctx context.Context, ball BallContext) Result {
	for _, g := range p.tiers {
		text, err := p.try(ctx, g, ball)
		if err != nil {
			p.logger.Warn("commentary tier failed",
				"tier", g.Name(), "match_id", ball.MatchID, "over_ball", ball.OverBall(), "error", err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return Result{Text: text, Source: g.Name()}
		}
	}
	return Result{Text: StaticLine(ball), Source: staticName}
}

func (p *Pipeline) try(ctx context.Context, g Generator, ball BallContext) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()
	return g.Generate(ctx, ball)
}
