package match

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OversFromBalls converts a legal-ball count into cricket overs notation,
// e.g. 20 balls -> 3.2. Integer arithmetic keeps 6 balls at exactly 1.0.
func OversFromBalls(balls int) float64 {
	if balls <= 0 {
		return 0
	}
	whole := decimal.NewFromInt(int64(balls / 6))
	part := decimal.NewFromInt(int64(balls % 6)).Div(decimal.NewFromInt(10))
	return whole.Add(part).InexactFloat64()
}

// FormatOvers renders overs notation with one decimal place.
func FormatOvers(balls int) string {
	return fmt.Sprintf("%d.%d", balls/6, balls%6)
}

// FormatScore renders a score summary such as "145/6 (20.0)".
func FormatScore(runs, wickets, balls int) string {
	return fmt.Sprintf("%d/%d (%s)", runs, wickets, FormatOvers(balls))
}

func ratio(num, den int64, scale int64) float64 {
	if den <= 0 {
		return 0
	}
	return decimal.NewFromInt(num).
		Mul(decimal.NewFromInt(scale)).
		Div(decimal.NewFromInt(den)).
		Round(2).
		InexactFloat64()
}

// StrikeRate is runs per hundred balls faced.
func StrikeRate(runs, balls int) float64 {
	return ratio(int64(runs), int64(balls), 100)
}

// Economy is runs conceded per six legal balls.
func Economy(runs, balls int) float64 {
	return ratio(int64(runs), int64(balls), 6)
}

// RunRate is team runs per over.
func RunRate(runs, balls int) float64 {
	return ratio(int64(runs), int64(balls), 6)
}

// RequiredRunRate is runs still needed per over over the balls that remain.
func RequiredRunRate(needed, ballsRemaining int) float64 {
	if needed <= 0 {
		return 0
	}
	return ratio(int64(needed), int64(ballsRemaining), 6)
}

// BallPosition locates the next delivery from the legal balls already bowled.
// over is 0-based; ball runs 1..6 and a wide or no-ball repeats the slot.
func BallPosition(legalBalls int) (over, ball int, overBall float64) {
	over = legalBalls / 6
	ball = legalBalls%6 + 1
	overBall = decimal.NewFromInt(int64(over)).
		Add(decimal.NewFromInt(int64(ball)).Div(decimal.NewFromInt(10))).
		InexactFloat64()
	return over, ball, overBall
}
