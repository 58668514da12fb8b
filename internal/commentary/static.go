package commentary

import (
	"context"
	"fmt"
)

const staticName = "static"

// StaticGenerator is the last tier: deterministic and always non-empty.
type StaticGenerator struct{}

func (StaticGenerator) Name() string { return staticName }

func (StaticGenerator) Generate(_ context.Context, ball BallContext) (string, error) {
	return StaticLine(ball), nil
}

// StaticLine is the minimal description of a ball.
func StaticLine(b BallContext) string {
	batsman := orDefault(b.Batsman, "The batsman")
	bowler := orDefault(b.Bowler, "the bowler")

	switch ev := Classify(b); ev {
	case EventWicketBowled:
		return fmt.Sprintf("OUT! %s is bowled by %s.", batsman, bowler)
	case EventWicketCaught:
		return fmt.Sprintf("OUT! %s is caught off %s.", batsman, bowler)
	case EventWicketLBW:
		return fmt.Sprintf("OUT! %s is trapped lbw by %s.", batsman, bowler)
	case EventWicketRunOut:
		return fmt.Sprintf("OUT! %s is run out.", batsman)
	case EventWicketStumped:
		return fmt.Sprintf("OUT! %s is stumped off %s.", batsman, bowler)
	case EventWicketHitWicket:
		return fmt.Sprintf("OUT! %s treads on the stumps. Hit wicket.", batsman)
	case EventSix:
		return fmt.Sprintf("SIX! %s clears the rope off %s.", batsman, bowler)
	case EventFour:
		return fmt.Sprintf("FOUR! %s finds the boundary.", batsman)
	case EventWide:
		return fmt.Sprintf("Wide. %s strays down the leg side.", bowler)
	case EventNoBall:
		return fmt.Sprintf("No ball from %s.", bowler)
	case EventBye:
		return fmt.Sprintf("%s, byes.", runsWord(b.ExtraRuns))
	case EventLegBye:
		return fmt.Sprintf("%s, leg byes.", runsWord(b.ExtraRuns))
	case EventDot:
		return fmt.Sprintf("No run. %s plays it carefully.", batsman)
	default:
		return fmt.Sprintf("%s for %s.", runsWord(b.Runs), batsman)
	}
}

func runsWord(n int) string {
	if n == 1 {
		return "1 run"
	}
	return fmt.Sprintf("%d runs", n)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
