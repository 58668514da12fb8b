package simulation

import (
	"context"
	"fmt"

	"github.com/DhavalSuthar-24/cricksim/internal/commentary"
	"github.com/DhavalSuthar-24/cricksim/internal/live"
	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
)

// Start tosses, opens innings one and puts the match live. A match that is not
// scheduled is reset first, in the same transaction.
func (e *Engine) Start(ctx context.Context, matchID uint) (m *match.Match, err error) {
	ctx, span := e.startSpan(ctx, "simulation.start", matchID)
	defer func() { endSpan(span, err) }()

	unlock := e.locks.Lock(matchID)
	defer unlock()

	repo := e.matches.WithContext(ctx)
	m, err = repo.GetMatchByID(matchID)
	if err != nil {
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	if m == nil {
		return nil, newError(KindNotFound, "match %d not found", matchID)
	}

	sides := make(map[uint]side, 2)
	for _, teamID := range []uint{m.Team1ID, m.Team2ID} {
		s, err := e.loadSide(ctx, teamID)
		if err != nil {
			return nil, err
		}
		if len(s.squad) < 2 {
			return nil, newError(KindInsufficientPlayers, "%s has %d available players, need at least 2", s.name(), len(s.squad))
		}
		sides[teamID] = s
	}

	tossWinner := m.Team1ID
	if e.rng.Intn(2) == 1 {
		tossWinner = m.Team2ID
	}
	decision := "bat"
	if e.rng.Intn(2) == 1 {
		decision = "bowl"
	}
	battingID := tossWinner
	if decision == "bowl" {
		battingID = m.Opponent(tossWinner)
	}
	bowlingID := m.Opponent(battingID)

	striker, nonStriker, err := SelectOpeners(e.rng, sides[battingID].squad)
	if err != nil {
		return nil, err
	}
	bowler, err := SelectOpeningBowler(e.rng, sides[bowlingID].squad)
	if err != nil {
		return nil, err
	}

	wasScheduled := m.Status == match.StatusScheduled
	now := e.now()

	m.Status = match.StatusLive
	m.StartedAt = &now
	m.CompletedAt = nil
	m.TossWinnerID = uintPtr(tossWinner)
	m.TossDecision = decision
	m.CurrentInnings = 1
	m.CurrentOver = 0
	m.StrikerID = uintPtr(striker.ID)
	m.NonStrikerID = uintPtr(nonStriker.ID)
	m.BowlerID = uintPtr(bowler.ID)
	m.PreviousBowlerID = nil
	m.TargetScore = nil
	m.Team1Score = ""
	m.Team2Score = ""
	m.WinnerID = nil
	m.Result = ""

	innings := &match.Innings{
		MatchID:       matchID,
		InningsNumber: 1,
		BattingTeamID: battingID,
		BowlingTeamID: bowlingID,
		Status:        match.InningsInProgress,
		StartedAt:     &now,
	}

	var stats []match.PlayerMatchStats
	for _, teamID := range []uint{m.Team1ID, m.Team2ID} {
		for _, p := range sides[teamID].squad {
			stats = append(stats, match.PlayerMatchStats{
				MatchID:  matchID,
				PlayerID: p.ID,
				TeamID:   teamID,
				DidBat:   p.ID == striker.ID || p.ID == nonStriker.ID,
			})
		}
	}

	toss := &match.CommentaryEntry{
		MatchID:       matchID,
		InningsNumber: 1,
		Type:          match.CommentaryToss,
		Text:          commentary.TossText(sides[tossWinner].name(), decision),
		Tags:          []string{"toss"},
	}

	err = repo.WithTransaction(func(tx match.MatchRepository) error {
		if !wasScheduled {
			if err := tx.ResetMatch(matchID); err != nil {
				return fmt.Errorf("reset before restart: %w", err)
			}
		}
		if err := tx.UpdateMatch(m); err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		if err := tx.CreateInnings(innings); err != nil {
			return fmt.Errorf("create innings: %w", err)
		}
		if err := tx.CreatePlayerStats(stats); err != nil {
			return fmt.Errorf("seed player stats: %w", err)
		}
		if err := tx.CreatePartnership(openingStand(matchID, innings.ID, striker, nonStriker)); err != nil {
			return fmt.Errorf("open partnership: %w", err)
		}
		return tx.CreateCommentary(toss)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("match started",
		"match_id", matchID, "restart", !wasScheduled, "toss_winner", tossWinner, "decision", decision,
		"batting_team", battingID)
	e.publish(ctx, live.Update{
		MatchID:       matchID,
		Event:         live.EventStart,
		Status:        string(m.Status),
		InningsNumber: 1,
		Score:         match.FormatScore(0, 0, 0),
		Commentary:    toss.Text,
	})
	return m, nil
}

func openingStand(matchID, inningsID uint, a, b team.Player) *match.Partnership {
	return &match.Partnership{
		MatchID:      matchID,
		InningsID:    inningsID,
		WicketNumber: 1,
		Batsman1ID:   a.ID,
		Batsman2ID:   b.ID,
		IsActive:     true,
	}
}

// Reset discards every simulated record and returns the match to scheduled.
func (e *Engine) Reset(ctx context.Context, matchID uint) (m *match.Match, err error) {
	ctx, span := e.startSpan(ctx, "simulation.reset", matchID)
	defer func() { endSpan(span, err) }()

	unlock := e.locks.Lock(matchID)
	defer unlock()

	repo := e.matches.WithContext(ctx)
	m, err = repo.GetMatchByID(matchID)
	if err != nil {
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	if m == nil {
		return nil, newError(KindNotFound, "match %d not found", matchID)
	}

	err = repo.WithTransaction(func(tx match.MatchRepository) error {
		return tx.ResetMatch(matchID)
	})
	if err != nil {
		return nil, fmt.Errorf("reset match %d: %w", matchID, err)
	}

	m, err = repo.GetMatchByID(matchID)
	if err != nil {
		return nil, fmt.Errorf("reload match %d: %w", matchID, err)
	}
	e.logger.Warn("match reset", "match_id", matchID)
	e.publish(ctx, live.Update{MatchID: matchID, Event: live.EventReset, Status: string(m.Status)})
	return m, nil
}

// Cancel abandons a scheduled or live match.
func (e *Engine) Cancel(ctx context.Context, matchID uint) (*match.Match, error) {
	unlock := e.locks.Lock(matchID)
	defer unlock()

	repo := e.matches.WithContext(ctx)
	m, err := repo.GetMatchByID(matchID)
	if err != nil {
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	if m == nil {
		return nil, newError(KindNotFound, "match %d not found", matchID)
	}
	if m.Status != match.StatusScheduled && m.Status != match.StatusLive {
		return nil, newError(KindInvalidMatchState, "cannot cancel a %s match", m.Status)
	}

	if err := repo.UpdateMatchStatus(matchID, match.StatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel match %d: %w", matchID, err)
	}
	m.Status = match.StatusCancelled
	e.logger.Info("match cancelled", "match_id", matchID)
	e.publish(ctx, live.Update{MatchID: matchID, Event: live.EventCancelled, Status: string(m.Status)})
	return m, nil
}
