package match_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/testutil"
)

func TestMatchRepositoryNotFoundIsNil(t *testing.T) {
	db := testutil.NewDB(t)
	repo := match.NewGormMatchRepository(db)

	m, err := repo.GetMatchByID(9999)
	if err != nil || m != nil {
		t.Fatalf("expected nil,nil for missing match, got %v, %v", m, err)
	}
	in, err := repo.GetCurrentInnings(9999)
	if err != nil || in != nil {
		t.Fatalf("expected nil,nil for missing innings, got %v, %v", in, err)
	}
}

func TestResetMatchRemovesSimulationRecords(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedMatch(t, db, 2)
	repo := match.NewGormMatchRepository(db).WithContext(context.Background())
	id := fx.Match.ID

	in := &match.Innings{MatchID: id, InningsNumber: 1, BattingTeamID: fx.Team1.ID, BowlingTeamID: fx.Team2.ID, Status: match.InningsInProgress}
	if err := repo.CreateInnings(in); err != nil {
		t.Fatalf("create innings: %v", err)
	}
	ball := &match.Ball{MatchID: id, InningsID: in.ID, InningsNumber: 1, Sequence: 1, BallNumber: 1, OverBall: 0.1,
		BatsmanID: fx.Players1[0].ID, NonStrikerID: fx.Players1[1].ID, BowlerID: fx.Players2[10].ID, Runs: 4, IsFour: true}
	if err := repo.CreateBall(ball); err != nil {
		t.Fatalf("create ball: %v", err)
	}
	if err := repo.CreatePlayerStats([]match.PlayerMatchStats{{MatchID: id, PlayerID: fx.Players1[0].ID, TeamID: fx.Team1.ID, Runs: 4}}); err != nil {
		t.Fatalf("create stats: %v", err)
	}
	if err := repo.CreatePartnership(&match.Partnership{MatchID: id, InningsID: in.ID, WicketNumber: 1, Batsman1ID: 1, Batsman2ID: 2, IsActive: true}); err != nil {
		t.Fatalf("create partnership: %v", err)
	}
	if err := repo.CreateCommentary(&match.CommentaryEntry{MatchID: id, BallID: &ball.ID, Type: match.CommentaryBoundary, Text: "FOUR!"}); err != nil {
		t.Fatalf("create commentary: %v", err)
	}

	fx.Match.Status = match.StatusLive
	fx.Match.Result = "stale"
	striker := fx.Players1[0].ID
	fx.Match.StrikerID = &striker
	if err := repo.UpdateMatch(fx.Match); err != nil {
		t.Fatalf("update match: %v", err)
	}

	if err := repo.ResetMatch(id); err != nil {
		t.Fatalf("reset: %v", err)
	}

	for name, model := range map[string]interface{}{
		"balls":       &match.Ball{},
		"innings":     &match.Innings{},
		"stats":       &match.PlayerMatchStats{},
		"partnership": &match.Partnership{},
		"commentary":  &match.CommentaryEntry{},
	} {
		var n int64
		if err := db.Unscoped().Model(model).Where("match_id = ?", id).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if n != 0 {
			t.Fatalf("expected no %s rows after reset, got %d", name, n)
		}
	}

	m, err := repo.GetMatchByID(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m.Status != match.StatusScheduled || m.Result != "" || m.StrikerID != nil {
		t.Fatalf("match not returned to scheduled state: %+v", m)
	}
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedMatch(t, db, 2)
	repo := match.NewGormMatchRepository(db)
	boom := errors.New("boom")

	err := repo.WithTransaction(func(tx match.MatchRepository) error {
		in := &match.Innings{MatchID: fx.Match.ID, InningsNumber: 1, BattingTeamID: fx.Team1.ID, BowlingTeamID: fx.Team2.ID, Status: match.InningsInProgress}
		if err := tx.CreateInnings(in); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	innings, err := repo.GetInningsByMatch(fx.Match.ID)
	if err != nil {
		t.Fatalf("list innings: %v", err)
	}
	if len(innings) != 0 {
		t.Fatalf("expected rollback, found %d innings", len(innings))
	}
}

func TestGetCommentaryOrderingAndLimit(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedMatch(t, db, 2)
	repo := match.NewGormMatchRepository(db)

	texts := []string{"one", "two", "three", "four"}
	for _, text := range texts {
		if err := repo.CreateCommentary(&match.CommentaryEntry{MatchID: fx.Match.ID, InningsNumber: 1, Type: match.CommentaryBall, Text: text}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.GetCommentary(fx.Match.ID, match.CommentaryFilter{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for i, e := range all {
		if e.Text != texts[i] {
			t.Fatalf("entry %d = %q, want %q", i, e.Text, texts[i])
		}
	}

	latest, err := repo.GetCommentary(fx.Match.ID, match.CommentaryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("get limited: %v", err)
	}
	if len(latest) != 2 || latest[0].Text != "three" || latest[1].Text != "four" {
		t.Fatalf("unexpected latest entries: %+v", latest)
	}
}

func TestGetTeamMatches(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.SeedMatch(t, db, 20)
	repo := match.NewGormMatchRepository(db)

	matches, total, err := repo.GetTeamMatches(fx.Team2.ID, "", 1, 10)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if total != 1 || len(matches) != 1 || matches[0].ID != fx.Match.ID {
		t.Fatalf("expected the seeded fixture, got %d: %+v", total, matches)
	}
	_, total, err = repo.GetTeamMatches(fx.Team2.ID, string(match.StatusCompleted), 1, 10)
	if err != nil || total != 0 {
		t.Fatalf("expected no completed matches, got %d (%v)", total, err)
	}
}
