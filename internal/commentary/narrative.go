package commentary

import (
	"fmt"
	"strings"
)

// TossText announces the toss result.
func TossText(winner, decision string) string {
	verb := "bat"
	if decision == "bowl" {
		verb = "bowl"
	}
	return fmt.Sprintf("%s have won the toss and elected to %s first.", winner, verb)
}

// OverSummary is the end-of-over recap.
type OverSummary struct {
	Over       int // 1-based over just completed
	Bowler     string
	Runs       int
	Wickets    int
	Maiden     bool
	Score      string
	Deliveries []string // e.g. "1", "W", "4", "1wd"
}

func OverSummaryText(s OverSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "End of over %d: %s", s.Over, runsWord(s.Runs))
	if s.Wickets == 1 {
		sb.WriteString(" and a wicket")
	} else if s.Wickets > 1 {
		fmt.Fprintf(&sb, " and %d wickets", s.Wickets)
	}
	if s.Maiden {
		fmt.Fprintf(&sb, ". A maiden from %s", s.Bowler)
	} else if s.Bowler != "" {
		fmt.Fprintf(&sb, " off %s", s.Bowler)
	}
	fmt.Fprintf(&sb, ". Score %s.", s.Score)
	if len(s.Deliveries) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(s.Deliveries, " "))
	}
	return sb.String()
}

// InningsBreakText closes the first innings and sets the chase.
func InningsBreakText(battingTeam, score, chasingTeam string, target int) string {
	return fmt.Sprintf("Innings break. %s finish on %s. %s need %d runs to win.", battingTeam, score, chasingTeam, target)
}

// MatchEndText announces the result.
func MatchEndText(result, team1, score1, team2, score2 string) string {
	return fmt.Sprintf("That's the match! %s. %s %s, %s %s.", result, team1, score1, team2, score2)
}
