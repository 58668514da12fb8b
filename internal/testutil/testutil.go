// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
	"github.com/DhavalSuthar-24/cricksim/internal/venue"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// Models lists every table the service migrates.
func Models() []interface{} {
	return []interface{}{
		&team.Team{},
		&team.Player{},
		&venue.Venue{},
		&match.Match{},
		&match.Innings{},
		&match.Ball{},
		&match.PlayerMatchStats{},
		&match.Partnership{},
		&match.FallOfWicket{},
		&match.CommentaryEntry{},
	}
}

// NewDB opens a private in-memory sqlite database with the schema migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:cricksim_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection serialises writers and keeps the shared memory db alive.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Fixture is a scheduled match between two seeded sides.
type Fixture struct {
	Match    *match.Match
	Team1    *team.Team
	Team2    *team.Team
	Venue    *venue.Venue
	Players1 []team.Player
	Players2 []team.Player
}

// squadRoles is a conventional XI: five batters, a keeper, two all-rounders, three bowlers.
var squadRoles = []team.PlayerRole{
	team.RoleBatsman, team.RoleBatsman, team.RoleBatsman, team.RoleBatsman, team.RoleBatsman,
	team.RoleWicketKeeper,
	team.RoleAllRounder, team.RoleAllRounder,
	team.RoleBowler, team.RoleBowler, team.RoleBowler,
}

// SeedTeam inserts a team with the given number of active players.
func SeedTeam(t testing.TB, db *gorm.DB, name string, size int) (*team.Team, []team.Player) {
	t.Helper()

	tm := &team.Team{Name: name, ShortName: name[:3], Country: "Testland"}
	if err := db.Create(tm).Error; err != nil {
		t.Fatalf("seed team %s: %v", name, err)
	}
	players := make([]team.Player, 0, size)
	for i := 0; i < size; i++ {
		role := squadRoles[i%len(squadRoles)]
		p := team.Player{
			TeamID:       tm.ID,
			Name:         fmt.Sprintf("%s Player %d", name, i+1),
			Role:         role,
			JerseyNumber: i + 1,
			IsActive:     true,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed player: %v", err)
		}
		players = append(players, p)
	}
	return tm, players
}

// SeedMatch creates two full sides, a venue and a scheduled match of the given length.
func SeedMatch(t testing.TB, db *gorm.DB, overs int) *Fixture {
	return SeedMatchWithSquads(t, db, overs, 11, 11)
}

// SeedMatchWithSquads is SeedMatch with explicit squad sizes.
func SeedMatchWithSquads(t testing.TB, db *gorm.DB, overs, size1, size2 int) *Fixture {
	t.Helper()

	seq := dbSeq.Add(1)
	t1, p1 := SeedTeam(t, db, fmt.Sprintf("Northern%d", seq), size1)
	t2, p2 := SeedTeam(t, db, fmt.Sprintf("Southern%d", seq), size2)

	v := &venue.Venue{Name: fmt.Sprintf("Test Oval %d", seq), City: "Testville", Capacity: 20000}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed venue: %v", err)
	}

	m := &match.Match{
		Title:       t1.Name + " vs " + t2.Name,
		Team1ID:     t1.ID,
		Team2ID:     t2.ID,
		VenueID:     &v.ID,
		MatchType:   "custom",
		OversLimit:  overs,
		ScheduledAt: time.Now(),
		Status:      match.StatusScheduled,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed match: %v", err)
	}

	return &Fixture{Match: m, Team1: t1, Team2: t2, Venue: v, Players1: p1, Players2: p2}
}
