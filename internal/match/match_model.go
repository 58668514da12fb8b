package match

import (
	"time"

	"github.com/DhavalSuthar-24/cricksim/internal/models"
	"gorm.io/gorm"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
	StatusCancelled MatchStatus = "cancelled"
)

type InningsStatus string

const (
	InningsNotStarted InningsStatus = "not_started"
	InningsInProgress InningsStatus = "in_progress"
	InningsCompleted  InningsStatus = "completed"
)

// DismissalType for cricket wickets
type DismissalType string

const (
	DismissalBowled    DismissalType = "bowled"
	DismissalCaught    DismissalType = "caught"
	DismissalLBW       DismissalType = "lbw"
	DismissalRunOut    DismissalType = "run_out"
	DismissalStumped   DismissalType = "stumped"
	DismissalHitWicket DismissalType = "hit_wicket"
)

// CreditedToBowler reports whether the bowler takes the wicket.
func (d DismissalType) CreditedToBowler() bool {
	return d != "" && d != DismissalRunOut
}

// ExtraType for runs not scored off the bat. The empty value is a fair delivery.
type ExtraType string

const (
	ExtraNone   ExtraType = ""
	ExtraWide   ExtraType = "wide"
	ExtraNoBall ExtraType = "no_ball"
	ExtraBye    ExtraType = "bye"
	ExtraLegBye ExtraType = "leg_bye"
)

// IsLegal reports whether the delivery counts toward the six-ball over.
func (e ExtraType) IsLegal() bool {
	return e != ExtraWide && e != ExtraNoBall
}

// ChargedToBowler reports whether extras of this type count against the bowler.
func (e ExtraType) ChargedToBowler() bool {
	return e == ExtraWide || e == ExtraNoBall
}

type CommentaryType string

const (
	CommentaryBall         CommentaryType = "ball"
	CommentaryWicket       CommentaryType = "wicket"
	CommentaryBoundary     CommentaryType = "boundary"
	CommentaryOverSummary  CommentaryType = "over_summary"
	CommentaryToss         CommentaryType = "toss"
	CommentaryMilestone    CommentaryType = "milestone"
	CommentaryInningsBreak CommentaryType = "innings_break"
	CommentaryMatchEnd     CommentaryType = "match_end"
)

// Match is the aggregate root of a simulated fixture.
type Match struct {
	gorm.Model
	Title       string      `json:"title" gorm:"not null"`
	Team1ID     uint        `json:"team1_id" gorm:"index;not null"`
	Team2ID     uint        `json:"team2_id" gorm:"index;not null"`
	VenueID     *uint       `json:"venue_id,omitempty" gorm:"index"`
	MatchType   string      `json:"match_type" gorm:"not null"` // T20, ODI, T10, custom
	OversLimit  int         `json:"overs_limit" gorm:"not null"`
	ScheduledAt time.Time   `json:"scheduled_at" gorm:"index"`
	Status      MatchStatus `json:"status" gorm:"index;not null"`

	// Live state
	CurrentInnings   int     `json:"current_innings"`
	CurrentOver      float64 `json:"current_over"`
	StrikerID        *uint   `json:"striker_id,omitempty"`
	NonStrikerID     *uint   `json:"non_striker_id,omitempty"`
	BowlerID         *uint   `json:"bowler_id,omitempty"`
	PreviousBowlerID *uint   `json:"previous_bowler_id,omitempty"`
	TargetScore      *int    `json:"target_score,omitempty"`

	// Toss
	TossWinnerID *uint  `json:"toss_winner_id,omitempty"`
	TossDecision string `json:"toss_decision,omitempty"` // "bat" or "bowl"

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Final score strings survive the end of each innings, e.g. "145/6 (20.0)".
	Team1Score string `json:"team1_score,omitempty"`
	Team2Score string `json:"team2_score,omitempty"`
	WinnerID   *uint  `json:"winner_id,omitempty"`
	Result     string `json:"result,omitempty"`
}

// Opponent returns the other side in the fixture.
func (m *Match) Opponent(teamID uint) uint {
	if teamID == m.Team1ID {
		return m.Team2ID
	}
	return m.Team1ID
}

// SetScore stores a score summary against the right team slot.
func (m *Match) SetScore(teamID uint, score string) {
	if teamID == m.Team1ID {
		m.Team1Score = score
		return
	}
	m.Team2Score = score
}

// Innings is one team's batting turn.
type Innings struct {
	gorm.Model
	MatchID       uint          `json:"match_id" gorm:"index;not null"`
	InningsNumber int           `json:"innings_number" gorm:"not null"`
	BattingTeamID uint          `json:"batting_team_id" gorm:"index;not null"`
	BowlingTeamID uint          `json:"bowling_team_id" gorm:"index;not null"`
	TotalRuns     int           `json:"total_runs"`
	Wickets       int           `json:"wickets"`
	LegalBalls    int           `json:"legal_balls"`
	Overs         float64       `json:"overs"` // always OversFromBalls(LegalBalls)
	Extras        int           `json:"extras"`
	Status        InningsStatus `json:"status" gorm:"index;not null"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

func (Innings) TableName() string { return "innings" }

// Ball is an append-only delivery record.
type Ball struct {
	gorm.Model
	MatchID           uint          `json:"match_id" gorm:"index;not null"`
	InningsID         uint          `json:"innings_id" gorm:"index;not null"`
	InningsNumber     int           `json:"innings_number" gorm:"not null"`
	Sequence          int           `json:"sequence" gorm:"not null"`    // delivery count within the innings, extras included
	OverNumber        int           `json:"over_number" gorm:"not null"` // 0-based
	BallNumber        int           `json:"ball_number" gorm:"not null"` // 1..6, a wide repeats the next legal slot
	OverBall          float64       `json:"over_ball"`                   // e.g. 3.4
	BatsmanID         uint          `json:"batsman_id" gorm:"index;not null"`
	NonStrikerID      uint          `json:"non_striker_id" gorm:"not null"`
	BowlerID          uint          `json:"bowler_id" gorm:"index;not null"`
	Runs              int           `json:"runs"` // off the bat
	ExtraType         ExtraType     `json:"extra_type,omitempty"`
	ExtraRuns         int           `json:"extra_runs"`
	IsWicket          bool          `json:"is_wicket"`
	DismissalType     DismissalType `json:"dismissal_type,omitempty"`
	DismissedPlayerID *uint         `json:"dismissed_player_id,omitempty"`
	IsFour            bool          `json:"is_four"`
	IsSix             bool          `json:"is_six"`
	Commentary        string        `json:"commentary" gorm:"type:text"`
}

// TotalRuns is everything added to the team score by this delivery.
func (b *Ball) TotalRuns() int {
	return b.Runs + b.ExtraRuns
}

// RunsConceded is what the delivery costs the bowler's figures.
func (b *Ball) RunsConceded() int {
	if b.ExtraType.ChargedToBowler() {
		return b.Runs + b.ExtraRuns
	}
	return b.Runs
}

func (b *Ball) IsLegal() bool {
	return b.ExtraType.IsLegal()
}

// PlayerMatchStats accumulates one player's figures for one match.
type PlayerMatchStats struct {
	gorm.Model
	MatchID  uint `json:"match_id" gorm:"not null;uniqueIndex:idx_match_player"`
	PlayerID uint `json:"player_id" gorm:"not null;uniqueIndex:idx_match_player"`
	TeamID   uint `json:"team_id" gorm:"index;not null"`

	// Batting
	DidBat     bool    `json:"did_bat"`
	Runs       int     `json:"runs"`
	BallsFaced int     `json:"balls_faced"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	IsOut      bool    `json:"is_out"`
	Dismissal  *string `json:"dismissal,omitempty"`

	// Bowling
	BallsBowled  int     `json:"balls_bowled"`
	OversBowled  float64 `json:"overs_bowled"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	Maidens      int     `json:"maidens"`
	Economy      float64 `json:"economy"`
}

// CompletedOvers is the number of full overs bowled.
func (s *PlayerMatchStats) CompletedOvers() int {
	return s.BallsBowled / 6
}

// Partnership tracks the pair at the crease for one wicket slot.
type Partnership struct {
	gorm.Model
	MatchID      uint     `json:"match_id" gorm:"index;not null"`
	InningsID    uint     `json:"innings_id" gorm:"index;not null"`
	WicketNumber int      `json:"wicket_number" gorm:"not null"` // 1 for the opening stand
	Batsman1ID   uint     `json:"batsman1_id" gorm:"not null"`
	Batsman2ID   uint     `json:"batsman2_id" gorm:"not null"`
	Runs         int      `json:"runs"`
	Balls        int      `json:"balls"`
	StartOver    float64  `json:"start_over"`
	EndOver      *float64 `json:"end_over,omitempty"`
	IsActive     bool     `json:"is_active" gorm:"index"`
}

// Involves reports whether the player is part of this stand.
func (p *Partnership) Involves(playerID uint) bool {
	return p.Batsman1ID == playerID || p.Batsman2ID == playerID
}

// FallOfWicket is the scoreboard state when a batter was dismissed.
type FallOfWicket struct {
	gorm.Model
	MatchID       uint    `json:"match_id" gorm:"index;not null"`
	InningsID     uint    `json:"innings_id" gorm:"index;not null"`
	InningsNumber int     `json:"innings_number"`
	BallID        uint    `json:"ball_id" gorm:"uniqueIndex"`
	PlayerID      uint    `json:"player_id" gorm:"not null"`
	WicketNumber  int     `json:"wicket_number" gorm:"not null"`
	Score         int     `json:"score"`
	Over          float64 `json:"over"`
}

// CommentaryEntry is an ordered narrative line for a match.
type CommentaryEntry struct {
	gorm.Model
	MatchID       uint               `json:"match_id" gorm:"index;not null"`
	BallID        *uint              `json:"ball_id,omitempty" gorm:"index"`
	InningsNumber int                `json:"innings_number"`
	OverBall      float64            `json:"over_ball"`
	Type          CommentaryType     `json:"type" gorm:"index;not null"`
	Text          string             `json:"text" gorm:"type:text;not null"`
	Source        string             `json:"source,omitempty"` // which generator produced a ball line
	Tags          models.StringSlice `json:"tags,omitempty" gorm:"type:text"`
}
