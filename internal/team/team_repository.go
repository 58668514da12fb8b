package team

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	// Team operations
	CreateTeam(team *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeamByName(name string) (*Team, error)
	GetAllTeams(page, limit int, filters map[string]interface{}) ([]Team, int64, error)
	DeleteTeam(id uint) error

	// Player operations
	AddPlayer(player *Player) error
	GetPlayerByID(id uint) (*Player, error)
	GetActivePlayers(teamID uint) ([]Player, error)
	GetPlayersByIDs(ids []uint) ([]Player, error)

	WithContext(ctx context.Context) TeamRepository
	WithTransaction(txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) WithContext(ctx context.Context) TeamRepository {
	return &teamRepository{db: r.db.WithContext(ctx)}
}

func (r *teamRepository) WithTransaction(txFunc func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&teamRepository{db: tx})
	})
}

// --- Team Operations ---

func (r *teamRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	var team Team
	err := r.db.Preload("Players", "is_active = ?", true).
		Where("is_deleted = ?", false).
		First(&team, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamByName(name string) (*Team, error) {
	var team Team
	if err := r.db.Where("name = ? AND is_deleted = ?", name, false).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetAllTeams(page, limit int, filters map[string]interface{}) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{}).Where("is_deleted = ?", false)

	if country, ok := filters["country"]; ok {
		query = query.Where("country = ?", country)
	}
	if name, ok := filters["name"]; ok {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+name.(string)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

func (r *teamRepository) DeleteTeam(id uint) error {
	return r.db.Model(&Team{}).Where("id = ?", id).Update("is_deleted", true).Error
}

// --- Player Operations ---

func (r *teamRepository) AddPlayer(player *Player) error {
	return r.db.Create(player).Error
}

func (r *teamRepository) GetPlayerByID(id uint) (*Player, error) {
	var player Player
	if err := r.db.First(&player, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

// GetActivePlayers returns the squad in jersey order, falling back to insertion order.
func (r *teamRepository) GetActivePlayers(teamID uint) ([]Player, error) {
	var players []Player
	err := r.db.Where("team_id = ? AND is_active = ?", teamID, true).
		Order("jersey_number asc").Order("id asc").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *teamRepository) GetPlayersByIDs(ids []uint) ([]Player, error) {
	var players []Player
	if len(ids) == 0 {
		return players, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}
