package match

import "testing"

func TestOversFromBalls(t *testing.T) {
	tests := []struct {
		balls int
		want  float64
	}{
		{0, 0},
		{1, 0.1},
		{5, 0.5},
		{6, 1.0},
		{7, 1.1},
		{20, 3.2},
		{119, 19.5},
		{120, 20.0},
		{300, 50.0},
	}
	for _, tt := range tests {
		if got := OversFromBalls(tt.balls); got != tt.want {
			t.Fatalf("OversFromBalls(%d) = %v, want %v", tt.balls, got, tt.want)
		}
	}
}

func TestOversAccumulateByBallsNotDecimals(t *testing.T) {
	balls := 0
	for i := 0; i < 6; i++ {
		balls++
	}
	if got := OversFromBalls(balls); got != 1.0 {
		t.Fatalf("six legal balls should read 1.0, got %v", got)
	}
	if got := FormatOvers(balls); got != "1.0" {
		t.Fatalf("expected 1.0, got %s", got)
	}
}

func TestFormatScore(t *testing.T) {
	if got := FormatScore(145, 6, 120); got != "145/6 (20.0)" {
		t.Fatalf("unexpected score %q", got)
	}
	if got := FormatScore(3, 0, 4); got != "3/0 (0.4)" {
		t.Fatalf("unexpected score %q", got)
	}
}

func TestRates(t *testing.T) {
	if got := StrikeRate(50, 40); got != 125 {
		t.Fatalf("strike rate = %v", got)
	}
	if got := StrikeRate(10, 0); got != 0 {
		t.Fatalf("strike rate with no balls = %v", got)
	}
	if got := Economy(25, 24); got != 6.25 {
		t.Fatalf("economy = %v", got)
	}
	if got := RunRate(100, 70); got != 8.57 {
		t.Fatalf("run rate = %v", got)
	}
	if got := RequiredRunRate(30, 18); got != 10 {
		t.Fatalf("required rate = %v", got)
	}
	if got := RequiredRunRate(0, 18); got != 0 {
		t.Fatalf("required rate once target reached = %v", got)
	}
}

func TestExtraTypeRules(t *testing.T) {
	tests := []struct {
		extra   ExtraType
		legal   bool
		charged bool
	}{
		{ExtraNone, true, false},
		{ExtraWide, false, true},
		{ExtraNoBall, false, true},
		{ExtraBye, true, false},
		{ExtraLegBye, true, false},
	}
	for _, tt := range tests {
		if tt.extra.IsLegal() != tt.legal || tt.extra.ChargedToBowler() != tt.charged {
			t.Fatalf("%q: legal=%v charged=%v", tt.extra, tt.extra.IsLegal(), tt.extra.ChargedToBowler())
		}
	}
}

func TestBallRunsConceded(t *testing.T) {
	wide := Ball{ExtraType: ExtraWide, ExtraRuns: 1}
	if wide.RunsConceded() != 1 || wide.TotalRuns() != 1 {
		t.Fatalf("wide: conceded=%d total=%d", wide.RunsConceded(), wide.TotalRuns())
	}
	bye := Ball{ExtraType: ExtraBye, ExtraRuns: 2}
	if bye.RunsConceded() != 0 || bye.TotalRuns() != 2 {
		t.Fatalf("bye: conceded=%d total=%d", bye.RunsConceded(), bye.TotalRuns())
	}
}

func TestBallPosition(t *testing.T) {
	tests := []struct {
		legal      int
		over, ball int
		overBall   float64
	}{
		{0, 0, 1, 0.1},
		{5, 0, 6, 0.6},
		{6, 1, 1, 1.1},
		{23, 3, 6, 3.6},
	}
	for _, tt := range tests {
		over, ball, ob := BallPosition(tt.legal)
		if over != tt.over || ball != tt.ball || ob != tt.overBall {
			t.Fatalf("BallPosition(%d) = %d, %d, %v", tt.legal, over, ball, ob)
		}
	}
}
