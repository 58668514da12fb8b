package live

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
	"github.com/shopspring/decimal"
)

// ErrMatchNotFound is returned when a view is requested for an unknown match.
var ErrMatchNotFound = errors.New("match not found")

const recentBallCount = 12

// BatterLine is one row of a batting card.
type BatterLine struct {
	PlayerID   uint    `json:"player_id"`
	Name       string  `json:"name"`
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	Dismissal  string  `json:"dismissal"`
	OnStrike   bool    `json:"on_strike,omitempty"`
}

// BowlerLine is one row of a bowling card.
type BowlerLine struct {
	PlayerID uint    `json:"player_id"`
	Name     string  `json:"name"`
	Overs    float64 `json:"overs"`
	Maidens  int     `json:"maidens"`
	Runs     int     `json:"runs"`
	Wickets  int     `json:"wickets"`
	Economy  float64 `json:"economy"`
}

// Snapshot is the compact live view cached after every state change.
type Snapshot struct {
	MatchID         uint        `json:"match_id"`
	Status          string      `json:"status"`
	InningsNumber   int         `json:"innings_number"`
	BattingTeamID   uint        `json:"batting_team_id,omitempty"`
	BattingTeam     string      `json:"batting_team,omitempty"`
	BowlingTeamID   uint        `json:"bowling_team_id,omitempty"`
	BowlingTeam     string      `json:"bowling_team,omitempty"`
	Score           int         `json:"score"`
	Wickets         int         `json:"wickets"`
	Overs           float64     `json:"overs"`
	ScoreText       string      `json:"score_text,omitempty"`
	RunRate         float64     `json:"run_rate"`
	Target          *int        `json:"target,omitempty"`
	RequiredRunRate float64     `json:"required_run_rate,omitempty"`
	Striker         *BatterLine `json:"striker,omitempty"`
	NonStriker      *BatterLine `json:"non_striker,omitempty"`
	Bowler          *BowlerLine `json:"bowler,omitempty"`
	LastBall        *match.Ball `json:"last_ball,omitempty"`
	LastCommentary  string      `json:"last_commentary,omitempty"`
	Result          string      `json:"result,omitempty"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// InningsCard is the full scorecard of one innings.
type InningsCard struct {
	InningsNumber  int                  `json:"innings_number"`
	BattingTeamID  uint                 `json:"batting_team_id"`
	BattingTeam    string               `json:"batting_team"`
	BowlingTeamID  uint                 `json:"bowling_team_id"`
	BowlingTeam    string               `json:"bowling_team"`
	Status         string               `json:"status"`
	Score          string               `json:"score"`
	Runs           int                  `json:"runs"`
	Wickets        int                  `json:"wickets"`
	Overs          float64              `json:"overs"`
	Extras         int                  `json:"extras"`
	RunRate        float64              `json:"run_rate"`
	ProjectedScore int                  `json:"projected_score,omitempty"`
	Batting        []BatterLine         `json:"batting"`
	YetToBat       []string             `json:"yet_to_bat,omitempty"`
	Bowling        []BowlerLine         `json:"bowling"`
	FallOfWickets  []match.FallOfWicket `json:"fall_of_wickets"`
	Partnerships   []match.Partnership  `json:"partnerships"`
}

// Scoreboard is the richer view served on demand.
type Scoreboard struct {
	MatchID         uint          `json:"match_id"`
	Title           string        `json:"title"`
	Status          string        `json:"status"`
	OversLimit      int           `json:"overs_limit"`
	Team1           string        `json:"team1"`
	Team2           string        `json:"team2"`
	Team1Score      string        `json:"team1_score,omitempty"`
	Team2Score      string        `json:"team2_score,omitempty"`
	TossWinner      string        `json:"toss_winner,omitempty"`
	TossDecision    string        `json:"toss_decision,omitempty"`
	Target          *int          `json:"target,omitempty"`
	RunsNeeded      int           `json:"runs_needed,omitempty"`
	BallsRemaining  int           `json:"balls_remaining,omitempty"`
	RequiredRunRate float64       `json:"required_run_rate,omitempty"`
	Result          string        `json:"result,omitempty"`
	Innings         []InningsCard `json:"innings"`
	RecentBalls     []match.Ball  `json:"recent_balls"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Builder assembles views from the repositories.
type Builder struct {
	matches match.MatchRepository
	teams   team.TeamRepository
	now     func() time.Time
}

func NewBuilder(matches match.MatchRepository, teams team.TeamRepository) *Builder {
	return &Builder{matches: matches, teams: teams, now: time.Now}
}

// matchData is everything both views read, loaded once per build.
type matchData struct {
	match   *match.Match
	innings []match.Innings
	stats   map[uint]*match.PlayerMatchStats
	order   []uint
	players map[uint]team.Player
	teams   map[uint]string
}

func (b *Builder) load(ctx context.Context, matchID uint) (*matchData, error) {
	repo := b.matches.WithContext(ctx)
	m, err := repo.GetMatchByID(matchID)
	if err != nil {
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	if m == nil {
		return nil, ErrMatchNotFound
	}
	innings, err := repo.GetInningsByMatch(matchID)
	if err != nil {
		return nil, fmt.Errorf("load innings: %w", err)
	}
	rows, err := repo.GetMatchPlayerStats(matchID)
	if err != nil {
		return nil, fmt.Errorf("load player stats: %w", err)
	}

	d := &matchData{
		match:   m,
		innings: innings,
		stats:   make(map[uint]*match.PlayerMatchStats, len(rows)),
		players: make(map[uint]team.Player),
		teams:   make(map[uint]string, 2),
	}
	ids := make([]uint, 0, len(rows))
	for i := range rows {
		d.stats[rows[i].PlayerID] = &rows[i]
		d.order = append(d.order, rows[i].PlayerID)
		ids = append(ids, rows[i].PlayerID)
	}

	teamRepo := b.teams.WithContext(ctx)
	players, err := teamRepo.GetPlayersByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	for _, p := range players {
		d.players[p.ID] = p
	}
	for _, teamID := range []uint{m.Team1ID, m.Team2ID} {
		t, err := teamRepo.GetTeamByID(teamID)
		if err != nil {
			return nil, fmt.Errorf("load team %d: %w", teamID, err)
		}
		if t != nil {
			d.teams[teamID] = t.Name
		} else {
			d.teams[teamID] = fmt.Sprintf("Team %d", teamID)
		}
	}
	return d, nil
}

func (d *matchData) name(playerID uint) string {
	if p, ok := d.players[playerID]; ok {
		return p.Name
	}
	return fmt.Sprintf("Player %d", playerID)
}

func (d *matchData) current() *match.Innings {
	for i := range d.innings {
		if d.innings[i].InningsNumber == d.match.CurrentInnings {
			return &d.innings[i]
		}
	}
	if n := len(d.innings); n > 0 {
		return &d.innings[n-1]
	}
	return nil
}

func (d *matchData) batter(id *uint) *BatterLine {
	if id == nil {
		return nil
	}
	line := batterLine(*id, d.name(*id), d.stats[*id])
	return &line
}

func (d *matchData) bowler(id *uint) *BowlerLine {
	if id == nil {
		return nil
	}
	line := bowlerLine(*id, d.name(*id), d.stats[*id])
	return &line
}

func batterLine(id uint, name string, s *match.PlayerMatchStats) BatterLine {
	line := BatterLine{PlayerID: id, Name: name, Dismissal: "not out"}
	if s == nil {
		return line
	}
	line.Runs, line.Balls = s.Runs, s.BallsFaced
	line.Fours, line.Sixes = s.Fours, s.Sixes
	line.StrikeRate = s.StrikeRate
	if s.IsOut && s.Dismissal != nil {
		line.Dismissal = *s.Dismissal
	}
	return line
}

func bowlerLine(id uint, name string, s *match.PlayerMatchStats) BowlerLine {
	line := BowlerLine{PlayerID: id, Name: name}
	if s == nil {
		return line
	}
	line.Overs = match.OversFromBalls(s.BallsBowled)
	line.Maidens, line.Runs, line.Wickets = s.Maidens, s.RunsConceded, s.Wickets
	line.Economy = match.Economy(s.RunsConceded, s.BallsBowled)
	return line
}

// chase reports what the side batting second still needs.
func chase(m *match.Match, in *match.Innings) (needed, remaining int, rrr float64) {
	if m.TargetScore == nil || in == nil || in.InningsNumber != 2 {
		return 0, 0, 0
	}
	needed = *m.TargetScore - in.TotalRuns
	if needed < 0 {
		needed = 0
	}
	remaining = m.OversLimit*6 - in.LegalBalls
	if remaining < 0 {
		remaining = 0
	}
	return needed, remaining, match.RequiredRunRate(needed, remaining)
}

// Live builds the compact snapshot.
func (b *Builder) Live(ctx context.Context, matchID uint) (*Snapshot, error) {
	d, err := b.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	m := d.match
	snap := &Snapshot{
		MatchID:       m.ID,
		Status:        string(m.Status),
		InningsNumber: m.CurrentInnings,
		Target:        m.TargetScore,
		Result:        m.Result,
		UpdatedAt:     b.now(),
	}

	if in := d.current(); in != nil {
		snap.InningsNumber = in.InningsNumber
		snap.BattingTeamID, snap.BattingTeam = in.BattingTeamID, d.teams[in.BattingTeamID]
		snap.BowlingTeamID, snap.BowlingTeam = in.BowlingTeamID, d.teams[in.BowlingTeamID]
		snap.Score, snap.Wickets, snap.Overs = in.TotalRuns, in.Wickets, in.Overs
		snap.ScoreText = match.FormatScore(in.TotalRuns, in.Wickets, in.LegalBalls)
		snap.RunRate = match.RunRate(in.TotalRuns, in.LegalBalls)
		_, _, snap.RequiredRunRate = chase(m, in)
	}
	snap.Striker = d.batter(m.StrikerID)
	if snap.Striker != nil {
		snap.Striker.OnStrike = true
	}
	snap.NonStriker = d.batter(m.NonStrikerID)
	snap.Bowler = d.bowler(m.BowlerID)

	repo := b.matches.WithContext(ctx)
	recent, err := repo.GetRecentBalls(matchID, 1)
	if err != nil {
		return nil, fmt.Errorf("load last ball: %w", err)
	}
	if len(recent) > 0 {
		snap.LastBall = &recent[0]
	}
	lines, err := repo.GetCommentary(matchID, match.CommentaryFilter{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("load last commentary: %w", err)
	}
	if len(lines) > 0 {
		snap.LastCommentary = lines[0].Text
	}
	return snap, nil
}

// Scoreboard builds the full scoreboard with batting and bowling cards.
func (b *Builder) Scoreboard(ctx context.Context, matchID uint) (*Scoreboard, error) {
	d, err := b.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	m := d.match
	repo := b.matches.WithContext(ctx)

	fows, err := repo.GetFallOfWickets(matchID)
	if err != nil {
		return nil, fmt.Errorf("load fall of wickets: %w", err)
	}
	stands, err := repo.GetPartnerships(matchID)
	if err != nil {
		return nil, fmt.Errorf("load partnerships: %w", err)
	}
	recent, err := repo.GetRecentBalls(matchID, recentBallCount)
	if err != nil {
		return nil, fmt.Errorf("load recent balls: %w", err)
	}

	sb := &Scoreboard{
		MatchID:      m.ID,
		Title:        m.Title,
		Status:       string(m.Status),
		OversLimit:   m.OversLimit,
		Team1:        d.teams[m.Team1ID],
		Team2:        d.teams[m.Team2ID],
		Team1Score:   m.Team1Score,
		Team2Score:   m.Team2Score,
		TossDecision: m.TossDecision,
		Target:       m.TargetScore,
		Result:       m.Result,
		Innings:      make([]InningsCard, 0, len(d.innings)),
		RecentBalls:  recent,
		UpdatedAt:    b.now(),
	}
	if m.TossWinnerID != nil {
		sb.TossWinner = d.teams[*m.TossWinnerID]
	}
	if m.Status == match.StatusLive {
		sb.RunsNeeded, sb.BallsRemaining, sb.RequiredRunRate = chase(m, d.current())
	}

	for i := range d.innings {
		sb.Innings = append(sb.Innings, d.card(&d.innings[i], fows, stands))
	}
	return sb, nil
}

func (d *matchData) card(in *match.Innings, fows []match.FallOfWicket, stands []match.Partnership) InningsCard {
	c := InningsCard{
		InningsNumber: in.InningsNumber,
		BattingTeamID: in.BattingTeamID,
		BattingTeam:   d.teams[in.BattingTeamID],
		BowlingTeamID: in.BowlingTeamID,
		BowlingTeam:   d.teams[in.BowlingTeamID],
		Status:        string(in.Status),
		Score:         match.FormatScore(in.TotalRuns, in.Wickets, in.LegalBalls),
		Runs:          in.TotalRuns,
		Wickets:       in.Wickets,
		Overs:         in.Overs,
		Extras:        in.Extras,
		RunRate:       match.RunRate(in.TotalRuns, in.LegalBalls),
		Batting:       []BatterLine{},
		Bowling:       []BowlerLine{},
		FallOfWickets: []match.FallOfWicket{},
		Partnerships:  []match.Partnership{},
	}
	if in.InningsNumber == 1 && in.Status == match.InningsInProgress && in.LegalBalls > 0 {
		c.ProjectedScore = projectedScore(in.TotalRuns, in.LegalBalls, d.match.OversLimit)
	}

	for _, id := range d.order {
		s := d.stats[id]
		switch s.TeamID {
		case in.BattingTeamID:
			if s.DidBat {
				c.Batting = append(c.Batting, batterLine(id, d.name(id), s))
			} else {
				c.YetToBat = append(c.YetToBat, d.name(id))
			}
		case in.BowlingTeamID:
			if s.BallsBowled > 0 || s.RunsConceded > 0 {
				c.Bowling = append(c.Bowling, bowlerLine(id, d.name(id), s))
			}
		}
	}
	for _, f := range fows {
		if f.InningsID == in.ID {
			c.FallOfWickets = append(c.FallOfWickets, f)
		}
	}
	for _, p := range stands {
		if p.InningsID == in.ID {
			c.Partnerships = append(c.Partnerships, p)
		}
	}
	return c
}

// projectedScore extends the current run rate over the full allocation of overs.
func projectedScore(runs, legalBalls, oversLimit int) int {
	if legalBalls <= 0 {
		return runs
	}
	perBall := decimal.NewFromInt(int64(runs)).Div(decimal.NewFromInt(int64(legalBalls)))
	return int(perBall.Mul(decimal.NewFromInt(int64(oversLimit * 6))).Round(0).IntPart())
}
