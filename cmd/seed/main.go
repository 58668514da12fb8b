// Command seed loads two demo squads, a venue and a scheduled T20 into the
// configured database, then prints an operator token for the trigger API.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/DhavalSuthar-24/cricksim/config"
	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
	"github.com/DhavalSuthar-24/cricksim/internal/venue"
	"github.com/DhavalSuthar-24/cricksim/pkg/token"
	"github.com/DhavalSuthar-24/cricksim/utils"
	"gorm.io/gorm"
)

type squad struct {
	name, short, country string
	players              []seedPlayer
}

type seedPlayer struct {
	name    string
	role    team.PlayerRole
	batting string
	bowling string
}

var squads = []squad{
	{
		name: "Mumbai Mariners", short: "MUM", country: "India",
		players: []seedPlayer{
			{"Arjun Mehta", team.RoleBatsman, "right", ""},
			{"Rohan Iyer", team.RoleBatsman, "left", ""},
			{"Karan Desai", team.RoleBatsman, "right", "right-arm off-break"},
			{"Vikram Rao", team.RoleBatsman, "right", ""},
			{"Siddharth Nair", team.RoleWicketKeeper, "right", ""},
			{"Aditya Kulkarni", team.RoleAllRounder, "left", "left-arm orthodox"},
			{"Harsh Patel", team.RoleAllRounder, "right", "right-arm medium"},
			{"Manish Yadav", team.RoleBowler, "right", "right-arm fast"},
			{"Deepak Chahal", team.RoleBowler, "right", "right-arm leg-break"},
			{"Imran Sheikh", team.RoleBowler, "left", "left-arm fast-medium"},
			{"Nikhil Bhat", team.RoleBowler, "right", "right-arm fast"},
		},
	},
	{
		name: "Chennai Chargers", short: "CHE", country: "India",
		players: []seedPlayer{
			{"Pranav Raghavan", team.RoleBatsman, "left", ""},
			{"Suresh Krishnan", team.RoleBatsman, "right", ""},
			{"Ashwin Murali", team.RoleBatsman, "right", "right-arm off-break"},
			{"Tarun Venkat", team.RoleBatsman, "left", ""},
			{"Dinesh Kumar", team.RoleWicketKeeper, "right", ""},
			{"Ravi Shankar", team.RoleAllRounder, "right", "right-arm medium"},
			{"Vijay Anand", team.RoleAllRounder, "left", "left-arm orthodox"},
			{"Balaji Subramanian", team.RoleBowler, "right", "right-arm fast"},
			{"Ganesh Pillai", team.RoleBowler, "right", "right-arm leg-break"},
			{"Naveen Reddy", team.RoleBowler, "left", "left-arm fast"},
			{"Lokesh Sundar", team.RoleBowler, "right", "right-arm fast-medium"},
		},
	},
}

func main() {
	password := flag.String("password", "", "print a bcrypt hash for OPERATOR_PASSWORD_HASH and exit")
	overs := flag.Int("overs", 20, "overs per side for the seeded match")
	flag.Parse()

	if *password != "" {
		hash, err := utils.HashPassword(*password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	cfg := config.GetConfig()
	db := config.DB

	if err := db.AutoMigrate(
		&team.Team{}, &team.Player{}, &venue.Venue{},
		&match.Match{}, &match.Innings{}, &match.Ball{},
		&match.PlayerMatchStats{}, &match.Partnership{}, &match.FallOfWicket{},
		&match.CommentaryEntry{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	var m *match.Match
	err := db.Transaction(func(tx *gorm.DB) error {
		teamIDs := make([]uint, 0, len(squads))
		for _, s := range squads {
			t, err := seedTeam(tx, s)
			if err != nil {
				return err
			}
			teamIDs = append(teamIDs, t.ID)
		}

		v := venue.Venue{Name: "Wankhede Stadium", City: "Mumbai", Country: "India", Capacity: 33000}
		if err := tx.Where(venue.Venue{Name: v.Name}).FirstOrCreate(&v).Error; err != nil {
			return fmt.Errorf("seed venue: %w", err)
		}

		m = &match.Match{
			Title:       squads[0].short + " vs " + squads[1].short,
			Team1ID:     teamIDs[0],
			Team2ID:     teamIDs[1],
			VenueID:     &v.ID,
			MatchType:   "T20",
			OversLimit:  *overs,
			ScheduledAt: time.Now().Add(time.Hour),
			Status:      match.StatusScheduled,
		}
		if *overs != 20 {
			m.MatchType = "custom"
		}
		return tx.Create(m).Error
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	tok, err := token.GenerateJWT(cfg.Operator.Username, token.RoleOperator, cfg.JWT.AccessTokenSecret, cfg.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		log.Fatalf("Failed to issue operator token: %v", err)
	}

	fmt.Printf("match %d: %s (%d overs)\n", m.ID, m.Title, m.OversLimit)
	fmt.Printf("teams: %d, %d\n", m.Team1ID, m.Team2ID)
	fmt.Printf("operator token:\n%s\n", tok)
}

// seedTeam reuses a team of the same name so the command can run repeatedly.
func seedTeam(tx *gorm.DB, s squad) (*team.Team, error) {
	t := team.Team{Name: s.name, ShortName: s.short, Country: s.country}
	if err := tx.Where(team.Team{Name: s.name}).FirstOrCreate(&t).Error; err != nil {
		return nil, fmt.Errorf("seed team %s: %w", s.name, err)
	}

	var existing int64
	if err := tx.Model(&team.Player{}).Where("team_id = ?", t.ID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return &t, nil
	}
	for i, p := range s.players {
		player := team.Player{
			TeamID:       t.ID,
			Name:         p.name,
			Role:         p.role,
			JerseyNumber: i + 1,
			BattingStyle: p.batting,
			BowlingStyle: p.bowling,
			IsActive:     true,
		}
		if err := tx.Create(&player).Error; err != nil {
			return nil, fmt.Errorf("seed player %s: %w", p.name, err)
		}
	}
	return &t, nil
}
