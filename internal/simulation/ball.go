package simulation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/DhavalSuthar-24/cricksim/internal/commentary"
	"github.com/DhavalSuthar-24/cricksim/internal/live"
	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
)

// BallResult is what one simulated delivery produced.
type BallResult struct {
	Ball        *match.Ball    `json:"ball"`
	Match       *match.Match   `json:"match"`
	Innings     *match.Innings `json:"innings"`
	Milestones  []Milestone    `json:"milestones,omitempty"`
	InningsOver bool           `json:"innings_over"`
	Source      string         `json:"commentary_source"`
	NextInnings *match.Innings `json:"next_innings,omitempty"`
}

// ballWrites collects every row a delivery touches. They are written together
// in one transaction after all in-memory bookkeeping has succeeded.
type ballWrites struct {
	ball           *match.Ball
	entries        []*match.CommentaryEntry
	fow            *match.FallOfWicket
	partnership    *match.Partnership
	newPartnership *match.Partnership
	nextInnings    *match.Innings
	nextStand      *match.Partnership
	closing        []*match.CommentaryEntry
}

// SimulateBall bowls the next delivery of the live innings.
func (e *Engine) SimulateBall(ctx context.Context, matchID uint) (res *BallResult, err error) {
	ctx, span := e.startSpan(ctx, "simulation.ball", matchID)
	defer func() { endSpan(span, err) }()

	unlock := e.locks.Lock(matchID)
	defer unlock()

	repo := e.matches.WithContext(ctx)
	st, err := e.loadState(ctx, repo, matchID)
	if err != nil {
		return nil, err
	}
	m := st.match
	if m.Status != match.StatusLive {
		return nil, newError(KindInvalidMatchState, "match %d is %s, not live", matchID, m.Status)
	}

	inn, err := repo.GetCurrentInnings(matchID)
	if err != nil {
		return nil, fmt.Errorf("load current innings: %w", err)
	}
	if inn == nil {
		return nil, newError(KindInvalidMatchState, "match %d has no innings in progress", matchID)
	}
	striker, okS := st.player(m.StrikerID)
	nonStriker, okN := st.player(m.NonStrikerID)
	bowler, okB := st.player(m.BowlerID)
	if !okS || !okN || !okB {
		return nil, newError(KindInvalidMatchState, "match %d is missing its batsmen or bowler", matchID)
	}

	stand, err := repo.GetActivePartnership(inn.ID)
	if err != nil {
		return nil, fmt.Errorf("load partnership: %w", err)
	}
	w := &ballWrites{}
	if stand == nil {
		stand = &match.Partnership{
			MatchID:      matchID,
			InningsID:    inn.ID,
			WicketNumber: inn.Wickets + 1,
			Batsman1ID:   striker.ID,
			Batsman2ID:   nonStriker.ID,
			StartOver:    inn.Overs,
			IsActive:     true,
		}
		w.newPartnership = stand
	} else {
		w.partnership = stand
	}

	delivered, err := repo.CountInningsBalls(inn.ID)
	if err != nil {
		return nil, fmt.Errorf("count deliveries: %w", err)
	}

	o := e.outcomes.NextOutcome()
	overNumber, ballNumber, overBall := match.BallPosition(inn.LegalBalls)
	ball := &match.Ball{
		MatchID:       matchID,
		InningsID:     inn.ID,
		InningsNumber: inn.InningsNumber,
		Sequence:      int(delivered) + 1,
		OverNumber:    overNumber,
		BallNumber:    ballNumber,
		OverBall:      overBall,
		BatsmanID:     striker.ID,
		NonStrikerID:  nonStriker.ID,
		BowlerID:      bowler.ID,
		Runs:          o.Runs,
		ExtraType:     o.ExtraType,
		ExtraRuns:     o.ExtraRuns,
		IsWicket:      o.IsWicket,
		DismissalType: o.Dismissal,
		IsFour:        o.IsFour,
		IsSix:         o.IsSix,
	}
	w.ball = ball
	legal := ball.IsLegal()

	battingSide := st.sides[inn.BattingTeamID]
	bowlingSide := st.sides[inn.BowlingTeamID]

	// Aggregates before the ball, for milestone detection.
	bat := st.stat(striker)
	bowl := st.stat(bowler)
	runsBefore, wicketsBefore := bat.Runs, bowl.Wickets
	totalBefore, standBefore := inn.TotalRuns, stand.Runs

	bat.DidBat = true
	bat.Runs += ball.Runs
	if legal {
		bat.BallsFaced++
	}
	if ball.IsFour {
		bat.Fours++
	}
	if ball.IsSix {
		bat.Sixes++
	}
	bat.StrikeRate = match.StrikeRate(bat.Runs, bat.BallsFaced)

	bowl.RunsConceded += ball.RunsConceded()
	if legal {
		bowl.BallsBowled++
	}
	credited := ball.IsWicket && ball.DismissalType.CreditedToBowler()
	if credited {
		bowl.Wickets++
	}
	bowl.OversBowled = match.OversFromBalls(bowl.BallsBowled)
	bowl.Economy = match.Economy(bowl.RunsConceded, bowl.BallsBowled)

	inn.TotalRuns += ball.TotalRuns()
	inn.Extras += ball.ExtraRuns
	if legal {
		inn.LegalBalls++
	}
	inn.Overs = match.OversFromBalls(inn.LegalBalls)
	m.CurrentOver = inn.Overs

	stand.Runs += ball.TotalRuns()
	if legal {
		stand.Balls++
	}
	pair := fmt.Sprintf("%s and %s", st.name(stand.Batsman1ID), st.name(stand.Batsman2ID))

	var fielder team.Player
	if ball.IsWicket {
		inn.Wickets++
		fielder = e.fielder(bowlingSide.squad, ball.DismissalType)
		text := dismissalText(ball.DismissalType, bowler, fielder)
		bat.IsOut = true
		bat.Dismissal = &text
		ball.DismissedPlayerID = uintPtr(striker.ID)
		w.fow = &match.FallOfWicket{
			MatchID:       matchID,
			InningsID:     inn.ID,
			InningsNumber: inn.InningsNumber,
			PlayerID:      striker.ID,
			WicketNumber:  inn.Wickets,
			Score:         inn.TotalRuns,
			Over:          inn.Overs,
		}
	}

	inningsOver := inn.Wickets >= allOutAt(len(battingSide.squad)) ||
		inn.LegalBalls >= m.OversLimit*6 ||
		(inn.InningsNumber == 2 && m.TargetScore != nil && inn.TotalRuns >= *m.TargetScore)

	if ball.IsWicket {
		end := inn.Overs
		stand.IsActive = false
		stand.EndOver = &end
		if !inningsOver {
			next, ok := SelectNewBatsman(e.rng, battingSide.squad, st.stats, striker.ID, nonStriker.ID)
			if ok {
				st.stat(next).DidBat = true
				m.StrikerID = uintPtr(next.ID)
				w.nextStand = &match.Partnership{
					MatchID:      matchID,
					InningsID:    inn.ID,
					WicketNumber: inn.Wickets + 1,
					Batsman1ID:   next.ID,
					Batsman2ID:   nonStriker.ID,
					StartOver:    inn.Overs,
					IsActive:     true,
				}
			} else {
				e.logger.Warn("no replacement batsman available, dismissed batsman resumes",
					"match_id", matchID, "innings", inn.InningsNumber, "player_id", striker.ID)
				w.nextStand = &match.Partnership{
					MatchID:      matchID,
					InningsID:    inn.ID,
					WicketNumber: inn.Wickets + 1,
					Batsman1ID:   striker.ID,
					Batsman2ID:   nonStriker.ID,
					StartOver:    inn.Overs,
					IsActive:     true,
				}
			}
		}
	} else if strikeRotates(o) {
		m.StrikerID, m.NonStrikerID = m.NonStrikerID, m.StrikerID
	}
	if inningsOver && stand.IsActive {
		end := inn.Overs
		stand.IsActive = false
		stand.EndOver = &end
	}

	target := 0
	if m.TargetScore != nil {
		target = *m.TargetScore
	}
	bc := commentary.BallContext{
		MatchID:       matchID,
		InningsNumber: inn.InningsNumber,
		Batsman:       striker.Name,
		NonStriker:    nonStriker.Name,
		Bowler:        bowler.Name,
		Over:          overNumber,
		Ball:          ballNumber,
		Runs:          ball.Runs,
		ExtraType:     string(ball.ExtraType),
		ExtraRuns:     ball.ExtraRuns,
		IsWicket:      ball.IsWicket,
		DismissalType: string(ball.DismissalType),
		Fielder:       fielder.Name,
		IsFour:        ball.IsFour,
		IsSix:         ball.IsSix,
		Score:         inn.TotalRuns,
		Wickets:       inn.Wickets,
		Target:        target,
	}
	line := e.commentary.Generate(ctx, bc)
	ball.Commentary = line.Text
	w.entries = append(w.entries, &match.CommentaryEntry{
		MatchID:       matchID,
		InningsNumber: inn.InningsNumber,
		OverBall:      ball.OverBall,
		Type:          entryType(ball),
		Text:          line.Text,
		Source:        line.Source,
		Tags:          []string{string(commentary.Classify(bc))},
	})

	var previous []bool
	if credited {
		recent, err := repo.GetBowlerRecentBalls(inn.ID, bowler.ID, 2)
		if err != nil {
			return nil, fmt.Errorf("load bowler history: %w", err)
		}
		for _, b := range recent {
			previous = append(previous, b.IsWicket && b.DismissalType.CreditedToBowler())
		}
	}
	var milestones []Milestone
	milestones = append(milestones, BattingMilestones(striker.Name, runsBefore, bat.Runs, bat.BallsFaced)...)
	milestones = append(milestones, BowlingMilestones(bowler.Name, wicketsBefore, bowl.Wickets, credited, previous)...)
	milestones = append(milestones, TeamMilestones(battingSide.name(), totalBefore, inn.TotalRuns)...)
	milestones = append(milestones, PartnershipMilestones(pair, standBefore, stand.Runs)...)
	for _, ms := range milestones {
		w.entries = append(w.entries, &match.CommentaryEntry{
			MatchID:       matchID,
			InningsNumber: inn.InningsNumber,
			OverBall:      ball.OverBall,
			Type:          match.CommentaryMilestone,
			Text:          ms.Text(),
			Source:        "engine",
			Tags:          []string{string(ms.Kind)},
		})
	}

	if legal && inn.LegalBalls%6 == 0 {
		earlier, err := repo.GetOverBalls(inn.ID, overNumber)
		if err != nil {
			return nil, fmt.Errorf("load over %d: %w", overNumber, err)
		}
		summary := summarizeOver(append(earlier, *ball), overNumber, bowler.Name)
		summary.Score = match.FormatScore(inn.TotalRuns, inn.Wickets, inn.LegalBalls)
		if summary.Maiden {
			bowl.Maidens++
		}
		w.entries = append(w.entries, &match.CommentaryEntry{
			MatchID:       matchID,
			InningsNumber: inn.InningsNumber,
			OverBall:      inn.Overs,
			Type:          match.CommentaryOverSummary,
			Text:          commentary.OverSummaryText(summary),
			Source:        "engine",
			Tags:          []string{"over_summary"},
		})

		if !inningsOver {
			next, err := SelectNextBowler(e.rng, bowlingSide.squad, st.stats, bowler.ID, m.OversLimit)
			if err != nil {
				e.logger.Error("bowler rotation failed", "match_id", matchID, "innings", inn.InningsNumber, "over", overNumber+1, "error", err)
				return nil, err
			}
			m.PreviousBowlerID = uintPtr(bowler.ID)
			m.BowlerID = uintPtr(next.ID)
			m.StrikerID, m.NonStrikerID = m.NonStrikerID, m.StrikerID
		}
	}

	event := live.EventBall
	if inningsOver {
		now := e.now()
		inn.Status = match.InningsCompleted
		inn.CompletedAt = &now
		finalScore := match.FormatScore(inn.TotalRuns, inn.Wickets, inn.LegalBalls)
		m.SetScore(inn.BattingTeamID, finalScore)

		if inn.InningsNumber == 1 {
			if err := e.openSecondInnings(st, inn, w, finalScore); err != nil {
				return nil, err
			}
			event = live.EventInningsBreak
		} else {
			first, err := repo.GetInnings(matchID, 1)
			if err != nil {
				return nil, fmt.Errorf("load first innings: %w", err)
			}
			if first == nil {
				return nil, newError(KindInvalidMatchState, "match %d has no first innings", matchID)
			}
			e.finishMatch(st, first, inn, w)
			event = live.EventMatchEnd
		}
	}

	err = repo.WithTransaction(func(tx match.MatchRepository) error {
		return persistBall(tx, st, inn, w)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("ball simulated",
		"match_id", matchID, "innings", inn.InningsNumber, "over_ball", ball.OverBall,
		"runs", ball.TotalRuns(), "wicket", ball.IsWicket, "source", line.Source)
	if inningsOver {
		e.logger.Info("innings completed",
			"match_id", matchID, "innings", inn.InningsNumber, "score", match.FormatScore(inn.TotalRuns, inn.Wickets, inn.LegalBalls))
	}
	if event == live.EventMatchEnd {
		e.logger.Info("match completed", "match_id", matchID, "result", m.Result)
	}

	text := ball.Commentary
	if len(w.closing) > 0 {
		text = w.closing[len(w.closing)-1].Text
	}
	e.publish(ctx, live.Update{
		MatchID:       matchID,
		Event:         event,
		Status:        string(m.Status),
		InningsNumber: inn.InningsNumber,
		Score:         match.FormatScore(inn.TotalRuns, inn.Wickets, inn.LegalBalls),
		Overs:         inn.Overs,
		Runs:          ball.Runs,
		ExtraType:     string(ball.ExtraType),
		ExtraRuns:     ball.ExtraRuns,
		IsWicket:      ball.IsWicket,
		IsFour:        ball.IsFour,
		IsSix:         ball.IsSix,
		Commentary:    text,
	})

	return &BallResult{
		Ball:        ball,
		Match:       m,
		Innings:     inn,
		Milestones:  milestones,
		InningsOver: inningsOver,
		Source:      line.Source,
		NextInnings: w.nextInnings,
	}, nil
}

// openSecondInnings sets the target and brings the chasing side in to bat.
func (e *Engine) openSecondInnings(st *matchState, first *match.Innings, w *ballWrites, firstScore string) error {
	m := st.match
	target := first.TotalRuns + 1
	m.TargetScore = &target

	chasing := st.sides[first.BowlingTeamID]
	defending := st.sides[first.BattingTeamID]
	striker, nonStriker, err := SelectOpeners(e.rng, chasing.squad)
	if err != nil {
		return err
	}
	bowler, err := SelectOpeningBowler(e.rng, defending.squad)
	if err != nil {
		return err
	}
	st.stat(striker).DidBat = true
	st.stat(nonStriker).DidBat = true

	now := e.now()
	w.nextInnings = &match.Innings{
		MatchID:       m.ID,
		InningsNumber: 2,
		BattingTeamID: first.BowlingTeamID,
		BowlingTeamID: first.BattingTeamID,
		Status:        match.InningsInProgress,
		StartedAt:     &now,
	}
	w.nextStand = openingStand(m.ID, 0, striker, nonStriker)

	m.CurrentInnings = 2
	m.CurrentOver = 0
	m.StrikerID = uintPtr(striker.ID)
	m.NonStrikerID = uintPtr(nonStriker.ID)
	m.BowlerID = uintPtr(bowler.ID)
	m.PreviousBowlerID = nil

	w.closing = append(w.closing, &match.CommentaryEntry{
		MatchID:       m.ID,
		InningsNumber: 1,
		OverBall:      first.Overs,
		Type:          match.CommentaryInningsBreak,
		Text:          commentary.InningsBreakText(defending.name(), firstScore, chasing.name(), target),
		Source:        "engine",
		Tags:          []string{"innings_break"},
	})
	return nil
}

// finishMatch decides the result and closes the match.
func (e *Engine) finishMatch(st *matchState, first, second *match.Innings, w *ballWrites) {
	m := st.match
	now := e.now()
	winner, result := decideResult(st, first, second)
	m.Status = match.StatusCompleted
	m.CompletedAt = &now
	m.WinnerID = winner
	m.Result = result

	w.closing = append(w.closing, &match.CommentaryEntry{
		MatchID:       m.ID,
		InningsNumber: 2,
		OverBall:      second.Overs,
		Type:          match.CommentaryMatchEnd,
		Text: commentary.MatchEndText(result,
			st.sides[m.Team1ID].name(), orDash(m.Team1Score),
			st.sides[m.Team2ID].name(), orDash(m.Team2Score)),
		Source: "engine",
		Tags:   []string{"match_end"},
	})
}

// decideResult compares the two innings. The chasing side wins by wickets in
// hand, the defending side by the run margin.
func decideResult(st *matchState, first, second *match.Innings) (*uint, string) {
	switch {
	case second.TotalRuns > first.TotalRuns:
		side := st.sides[second.BattingTeamID]
		inHand := allOutAt(len(side.squad)) - second.Wickets
		return uintPtr(second.BattingTeamID), fmt.Sprintf("%s won by %d wickets", side.name(), inHand)
	case first.TotalRuns > second.TotalRuns:
		side := st.sides[first.BattingTeamID]
		return uintPtr(first.BattingTeamID), fmt.Sprintf("%s won by %d runs", side.name(), first.TotalRuns-second.TotalRuns)
	default:
		return nil, "Match tied"
	}
}

func persistBall(tx match.MatchRepository, st *matchState, inn *match.Innings, w *ballWrites) error {
	if err := tx.CreateBall(w.ball); err != nil {
		return fmt.Errorf("create ball: %w", err)
	}
	for _, entry := range w.entries {
		entry.BallID = uintPtr(w.ball.ID)
		if err := tx.CreateCommentary(entry); err != nil {
			return fmt.Errorf("create commentary: %w", err)
		}
	}
	if w.fow != nil {
		w.fow.BallID = w.ball.ID
		if err := tx.CreateFallOfWicket(w.fow); err != nil {
			return fmt.Errorf("record fall of wicket: %w", err)
		}
	}
	for id := range st.dirty {
		if err := tx.SavePlayerStats(st.stats[id]); err != nil {
			return fmt.Errorf("save stats for player %d: %w", id, err)
		}
	}
	if err := tx.UpdateInnings(inn); err != nil {
		return fmt.Errorf("update innings: %w", err)
	}
	if w.partnership != nil {
		if err := tx.SavePartnership(w.partnership); err != nil {
			return fmt.Errorf("save partnership: %w", err)
		}
	}
	if w.newPartnership != nil {
		if err := tx.CreatePartnership(w.newPartnership); err != nil {
			return fmt.Errorf("create partnership: %w", err)
		}
	}
	if w.nextInnings != nil {
		if err := tx.CreateInnings(w.nextInnings); err != nil {
			return fmt.Errorf("create innings 2: %w", err)
		}
		w.nextStand.InningsID = w.nextInnings.ID
	}
	if w.nextStand != nil {
		if err := tx.CreatePartnership(w.nextStand); err != nil {
			return fmt.Errorf("open partnership: %w", err)
		}
	}
	for _, entry := range w.closing {
		if err := tx.CreateCommentary(entry); err != nil {
			return fmt.Errorf("create commentary: %w", err)
		}
	}
	if err := tx.UpdateMatch(st.match); err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	return nil
}

// fielder picks who completed a dismissal. The keeper stumps; anyone may catch
// or run out, the bowler included.
func (e *Engine) fielder(squad []team.Player, d match.DismissalType) team.Player {
	switch d {
	case match.DismissalStumped:
		for _, p := range squad {
			if p.Role == team.RoleWicketKeeper {
				return p
			}
		}
		return pickPlayer(e.rng, squad)
	case match.DismissalCaught, match.DismissalRunOut:
		return pickPlayer(e.rng, squad)
	default:
		return team.Player{}
	}
}

func dismissalText(d match.DismissalType, bowler, fielder team.Player) string {
	switch d {
	case match.DismissalBowled:
		return "b " + bowler.Name
	case match.DismissalCaught:
		if fielder.ID == bowler.ID {
			return "c & b " + bowler.Name
		}
		return fmt.Sprintf("c %s b %s", fielder.Name, bowler.Name)
	case match.DismissalLBW:
		return "lbw b " + bowler.Name
	case match.DismissalRunOut:
		return fmt.Sprintf("run out (%s)", fielder.Name)
	case match.DismissalStumped:
		return fmt.Sprintf("st %s b %s", fielder.Name, bowler.Name)
	case match.DismissalHitWicket:
		return "hit wicket b " + bowler.Name
	default:
		return "out"
	}
}

func entryType(b *match.Ball) match.CommentaryType {
	switch {
	case b.IsWicket:
		return match.CommentaryWicket
	case b.IsFour || b.IsSix:
		return match.CommentaryBoundary
	default:
		return match.CommentaryBall
	}
}

// summarizeOver totals one over. A maiden concedes nothing to the bowler
// across all six legal balls.
func summarizeOver(balls []match.Ball, overNumber int, bowler string) commentary.OverSummary {
	s := commentary.OverSummary{Over: overNumber + 1, Bowler: bowler}
	conceded := 0
	for i := range balls {
		b := &balls[i]
		s.Runs += b.TotalRuns()
		conceded += b.RunsConceded()
		if b.IsWicket {
			s.Wickets++
		}
		s.Deliveries = append(s.Deliveries, deliveryCode(b))
	}
	s.Maiden = conceded == 0
	return s
}

func deliveryCode(b *match.Ball) string {
	if b.IsWicket {
		return "W"
	}
	switch b.ExtraType {
	case match.ExtraWide:
		return strconv.Itoa(b.TotalRuns()) + "wd"
	case match.ExtraNoBall:
		return strconv.Itoa(b.TotalRuns()) + "nb"
	case match.ExtraBye:
		return strconv.Itoa(b.ExtraRuns) + "b"
	case match.ExtraLegBye:
		return strconv.Itoa(b.ExtraRuns) + "lb"
	}
	if b.Runs == 0 {
		return "."
	}
	return strconv.Itoa(b.Runs)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
