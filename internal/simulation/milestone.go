package simulation

import "fmt"

type MilestoneKind string

const (
	MilestoneFifty              MilestoneKind = "fifty"
	MilestoneCentury            MilestoneKind = "century"
	MilestoneFiveWickets        MilestoneKind = "five_wickets"
	MilestoneHatTrick           MilestoneKind = "hat_trick"
	MilestoneTeamTotal          MilestoneKind = "team_total"
	MilestonePartnershipFifty   MilestoneKind = "partnership_fifty"
	MilestonePartnershipHundred MilestoneKind = "partnership_hundred"
)

// Milestone is a landmark reached on a ball. Detection never changes state.
type Milestone struct {
	Kind    MilestoneKind
	Subject string
	Value   int
	Balls   int
}

func (m Milestone) Text() string {
	switch m.Kind {
	case MilestoneFifty:
		return fmt.Sprintf("FIFTY! %s brings up a half-century off %d balls.", m.Subject, m.Balls)
	case MilestoneCentury:
		return fmt.Sprintf("CENTURY! %s reaches three figures off %d balls. What an innings!", m.Subject, m.Balls)
	case MilestoneFiveWickets:
		return fmt.Sprintf("FIVE-WICKET HAUL! %s has %d wickets.", m.Subject, m.Value)
	case MilestoneHatTrick:
		return fmt.Sprintf("HAT-TRICK! %s takes three in three!", m.Subject)
	case MilestoneTeamTotal:
		return fmt.Sprintf("That brings up the %d for %s.", m.Value, m.Subject)
	case MilestonePartnershipFifty, MilestonePartnershipHundred:
		return fmt.Sprintf("The partnership between %s is now worth %d.", m.Subject, m.Value)
	default:
		return fmt.Sprintf("%s reaches %d.", m.Subject, m.Value)
	}
}

func crossed(before, after, mark int) bool {
	return before < mark && after >= mark
}

// BattingMilestones detects fifty and century for a batter.
func BattingMilestones(name string, before, after, balls int) []Milestone {
	var out []Milestone
	if crossed(before, after, 50) {
		out = append(out, Milestone{Kind: MilestoneFifty, Subject: name, Value: after, Balls: balls})
	}
	if crossed(before, after, 100) {
		out = append(out, Milestone{Kind: MilestoneCentury, Subject: name, Value: after, Balls: balls})
	}
	return out
}

// BowlingMilestones detects a five-wicket haul and a hat-trick. previous holds
// whether the bowler's two prior deliveries in the innings took wickets.
func BowlingMilestones(name string, before, after int, wicketNow bool, previous []bool) []Milestone {
	var out []Milestone
	if crossed(before, after, 5) {
		out = append(out, Milestone{Kind: MilestoneFiveWickets, Subject: name, Value: after})
	}
	if wicketNow && len(previous) >= 2 && previous[0] && previous[1] {
		out = append(out, Milestone{Kind: MilestoneHatTrick, Subject: name, Value: after})
	}
	return out
}

var teamMarks = []int{50, 100, 150, 200, 250, 300}

// TeamMilestones detects team totals passing round numbers.
func TeamMilestones(teamName string, before, after int) []Milestone {
	var out []Milestone
	for _, mark := range teamMarks {
		if crossed(before, after, mark) {
			out = append(out, Milestone{Kind: MilestoneTeamTotal, Subject: teamName, Value: mark})
		}
	}
	return out
}

// PartnershipMilestones detects a stand passing 50 and 100.
func PartnershipMilestones(pair string, before, after int) []Milestone {
	var out []Milestone
	if crossed(before, after, 50) {
		out = append(out, Milestone{Kind: MilestonePartnershipFifty, Subject: pair, Value: 50})
	}
	if crossed(before, after, 100) {
		out = append(out, Milestone{Kind: MilestonePartnershipHundred, Subject: pair, Value: 100})
	}
	return out
}
