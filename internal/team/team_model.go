// team/model.go
package team

import (
	"gorm.io/gorm"
)

type PlayerRole string

const (
	RoleBatsman      PlayerRole = "batsman"
	RoleBowler       PlayerRole = "bowler"
	RoleAllRounder   PlayerRole = "all_rounder"
	RoleWicketKeeper PlayerRole = "wicket_keeper"
)

// CanBowl reports whether the role is a front-line bowling option.
func (r PlayerRole) CanBowl() bool {
	return r == RoleBowler || r == RoleAllRounder
}

// CanOpen reports whether the role is a natural top-order batter.
func (r PlayerRole) CanOpen() bool {
	return r == RoleBatsman || r == RoleWicketKeeper || r == RoleAllRounder
}

// Team represents a cricket side
type Team struct {
	gorm.Model
	Name      string   `json:"name" gorm:"not null;uniqueIndex"`
	ShortName string   `json:"short_name" gorm:"size:8"`
	Country   string   `json:"country"`
	Logo      string   `json:"logo"`
	IsDeleted bool     `json:"is_deleted"`
	Players   []Player `json:"players,omitempty" gorm:"foreignKey:TeamID"`
}

// Player is a squad member of a team
type Player struct {
	gorm.Model
	TeamID       uint       `json:"team_id" gorm:"index;not null"`
	Name         string     `json:"name" gorm:"not null"`
	Role         PlayerRole `json:"role" gorm:"index;not null"`
	JerseyNumber int        `json:"jersey_number"`
	BattingStyle string     `json:"batting_style,omitempty"`
	BowlingStyle string     `json:"bowling_style,omitempty"`
	IsActive     bool       `json:"is_active"`
}
