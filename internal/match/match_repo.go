package match

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// CommentaryFilter narrows a commentary feed read.
type CommentaryFilter struct {
	InningsNumber int
	Type          CommentaryType
	AfterID       uint
	Limit         int
}

// MatchRepository defines methods to interact with match-related data
type MatchRepository interface {
	// Match methods
	CreateMatch(match *Match) error
	GetMatchByID(id uint) (*Match, error)
	UpdateMatch(match *Match) error
	GetMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error)
	GetTeamMatches(teamID uint, status string, page, pageSize int) ([]Match, int64, error)
	UpdateMatchStatus(matchID uint, status MatchStatus) error
	ResetMatch(matchID uint) error

	// Innings methods
	CreateInnings(innings *Innings) error
	UpdateInnings(innings *Innings) error
	GetInnings(matchID uint, number int) (*Innings, error)
	GetCurrentInnings(matchID uint) (*Innings, error)
	GetInningsByMatch(matchID uint) ([]Innings, error)

	// Ball methods
	CreateBall(ball *Ball) error
	CountInningsBalls(inningsID uint) (int64, error)
	GetOverBalls(inningsID uint, overNumber int) ([]Ball, error)
	GetRecentBalls(matchID uint, limit int) ([]Ball, error)
	GetBowlerRecentBalls(inningsID, bowlerID uint, limit int) ([]Ball, error)

	// Player stats methods
	CreatePlayerStats(stats []PlayerMatchStats) error
	SavePlayerStats(stats *PlayerMatchStats) error
	GetPlayerStats(matchID, playerID uint) (*PlayerMatchStats, error)
	GetMatchPlayerStats(matchID uint) ([]PlayerMatchStats, error)

	// Partnership and fall of wicket methods
	CreatePartnership(p *Partnership) error
	SavePartnership(p *Partnership) error
	GetActivePartnership(inningsID uint) (*Partnership, error)
	GetPartnerships(matchID uint) ([]Partnership, error)
	CreateFallOfWicket(fow *FallOfWicket) error
	GetFallOfWickets(matchID uint) ([]FallOfWicket, error)

	// Commentary methods
	CreateCommentary(entry *CommentaryEntry) error
	GetCommentary(matchID uint, filter CommentaryFilter) ([]CommentaryEntry, error)

	// Transaction support
	WithContext(ctx context.Context) MatchRepository
	WithTransaction(txFunc func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

func (r *GormMatchRepository) WithContext(ctx context.Context) MatchRepository {
	return &GormMatchRepository{db: r.db.WithContext(ctx)}
}

// WithTransaction implements transaction support
func (r *GormMatchRepository) WithTransaction(txFunc func(MatchRepository) error) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	txRepo := &GormMatchRepository{db: tx}
	if err := txFunc(txRepo); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func notFound[T any](v *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// Match Repository Methods

func (r *GormMatchRepository) CreateMatch(match *Match) error {
	return r.db.Create(match).Error
}

func (r *GormMatchRepository) GetMatchByID(id uint) (*Match, error) {
	var m Match
	return notFound(&m, r.db.First(&m, id).Error)
}

// UpdateMatch writes every column, so cleared pointers are persisted as NULL.
func (r *GormMatchRepository) UpdateMatch(match *Match) error {
	return r.db.Save(match).Error
}

// GetMatches retrieves matches based on filters with pagination
func (r *GormMatchRepository) GetMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.Model(&Match{})
	for key, value := range filters {
		query = query.Where(key, value)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("scheduled_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&matches).Error; err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

// GetTeamMatches lists fixtures a team plays in, optionally by status.
func (r *GormMatchRepository) GetTeamMatches(teamID uint, status string, page, pageSize int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	q := r.db.Model(&Match{}).Where("(team1_id = ? OR team2_id = ?)", teamID, teamID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := q.Order("scheduled_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&matches).Error; err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

func (r *GormMatchRepository) UpdateMatchStatus(matchID uint, status MatchStatus) error {
	return r.db.Model(&Match{}).Where("id = ?", matchID).Update("status", status).Error
}

// ResetMatch hard-deletes every record produced by simulating the match and
// returns it to a clean scheduled state.
func (r *GormMatchRepository) ResetMatch(matchID uint) error {
	children := []interface{}{
		&CommentaryEntry{},
		&FallOfWicket{},
		&Partnership{},
		&Ball{},
		&PlayerMatchStats{},
		&Innings{},
	}
	for _, model := range children {
		if err := r.db.Unscoped().Where("match_id = ?", matchID).Delete(model).Error; err != nil {
			return err
		}
	}

	return r.db.Model(&Match{}).Where("id = ?", matchID).Updates(map[string]interface{}{
		"status":             StatusScheduled,
		"current_innings":    0,
		"current_over":       0,
		"striker_id":         nil,
		"non_striker_id":     nil,
		"bowler_id":          nil,
		"previous_bowler_id": nil,
		"target_score":       nil,
		"toss_winner_id":     nil,
		"toss_decision":      "",
		"started_at":         nil,
		"completed_at":       nil,
		"team1_score":        "",
		"team2_score":        "",
		"winner_id":          nil,
		"result":             "",
	}).Error
}

// Innings Repository Methods

func (r *GormMatchRepository) CreateInnings(innings *Innings) error {
	return r.db.Create(innings).Error
}

func (r *GormMatchRepository) UpdateInnings(innings *Innings) error {
	return r.db.Save(innings).Error
}

func (r *GormMatchRepository) GetInnings(matchID uint, number int) (*Innings, error) {
	var in Innings
	err := r.db.Where("match_id = ? AND innings_number = ?", matchID, number).First(&in).Error
	return notFound(&in, err)
}

func (r *GormMatchRepository) GetCurrentInnings(matchID uint) (*Innings, error) {
	var in Innings
	err := r.db.Where("match_id = ? AND status = ?", matchID, InningsInProgress).
		Order("innings_number DESC").
		First(&in).Error
	return notFound(&in, err)
}

func (r *GormMatchRepository) GetInningsByMatch(matchID uint) ([]Innings, error) {
	var innings []Innings
	err := r.db.Where("match_id = ?", matchID).Order("innings_number ASC").Find(&innings).Error
	return innings, err
}

// Ball Repository Methods

func (r *GormMatchRepository) CreateBall(ball *Ball) error {
	return r.db.Create(ball).Error
}

func (r *GormMatchRepository) CountInningsBalls(inningsID uint) (int64, error) {
	var n int64
	err := r.db.Model(&Ball{}).Where("innings_id = ?", inningsID).Count(&n).Error
	return n, err
}

// GetOverBalls returns every delivery of one over, extras included, in bowling order.
func (r *GormMatchRepository) GetOverBalls(inningsID uint, overNumber int) ([]Ball, error) {
	var balls []Ball
	err := r.db.Where("innings_id = ? AND over_number = ?", inningsID, overNumber).
		Order("sequence ASC").
		Find(&balls).Error
	return balls, err
}

// GetRecentBalls returns the latest deliveries of a match, newest first.
func (r *GormMatchRepository) GetRecentBalls(matchID uint, limit int) ([]Ball, error) {
	var balls []Ball
	err := r.db.Where("match_id = ?", matchID).
		Order("id DESC").
		Limit(limit).
		Find(&balls).Error
	return balls, err
}

// GetBowlerRecentBalls returns a bowler's latest deliveries in an innings, newest first.
func (r *GormMatchRepository) GetBowlerRecentBalls(inningsID, bowlerID uint, limit int) ([]Ball, error) {
	var balls []Ball
	err := r.db.Where("innings_id = ? AND bowler_id = ?", inningsID, bowlerID).
		Order("sequence DESC").
		Limit(limit).
		Find(&balls).Error
	return balls, err
}

// Player Stats Repository Methods

func (r *GormMatchRepository) CreatePlayerStats(stats []PlayerMatchStats) error {
	if len(stats) == 0 {
		return nil
	}
	return r.db.Create(&stats).Error
}

func (r *GormMatchRepository) SavePlayerStats(stats *PlayerMatchStats) error {
	return r.db.Save(stats).Error
}

func (r *GormMatchRepository) GetPlayerStats(matchID, playerID uint) (*PlayerMatchStats, error) {
	var s PlayerMatchStats
	err := r.db.Where("match_id = ? AND player_id = ?", matchID, playerID).First(&s).Error
	return notFound(&s, err)
}

func (r *GormMatchRepository) GetMatchPlayerStats(matchID uint) ([]PlayerMatchStats, error) {
	var stats []PlayerMatchStats
	err := r.db.Where("match_id = ?", matchID).Order("id ASC").Find(&stats).Error
	return stats, err
}

// Partnership and Fall of Wicket Repository Methods

func (r *GormMatchRepository) CreatePartnership(p *Partnership) error {
	return r.db.Create(p).Error
}

func (r *GormMatchRepository) SavePartnership(p *Partnership) error {
	return r.db.Save(p).Error
}

func (r *GormMatchRepository) GetActivePartnership(inningsID uint) (*Partnership, error) {
	var p Partnership
	err := r.db.Where("innings_id = ? AND is_active = ?", inningsID, true).
		Order("wicket_number DESC").
		First(&p).Error
	return notFound(&p, err)
}

func (r *GormMatchRepository) GetPartnerships(matchID uint) ([]Partnership, error) {
	var ps []Partnership
	err := r.db.Where("match_id = ?", matchID).Order("innings_id ASC, wicket_number ASC").Find(&ps).Error
	return ps, err
}

func (r *GormMatchRepository) CreateFallOfWicket(fow *FallOfWicket) error {
	return r.db.Create(fow).Error
}

func (r *GormMatchRepository) GetFallOfWickets(matchID uint) ([]FallOfWicket, error) {
	var fows []FallOfWicket
	err := r.db.Where("match_id = ?", matchID).Order("innings_number ASC, wicket_number ASC").Find(&fows).Error
	return fows, err
}

// Commentary Repository Methods

func (r *GormMatchRepository) CreateCommentary(entry *CommentaryEntry) error {
	return r.db.Create(entry).Error
}

// GetCommentary returns commentary in insertion order. A zero Limit means no limit;
// otherwise the newest Limit entries are returned, still oldest first.
func (r *GormMatchRepository) GetCommentary(matchID uint, filter CommentaryFilter) ([]CommentaryEntry, error) {
	query := r.db.Model(&CommentaryEntry{}).Where("match_id = ?", matchID)
	if filter.InningsNumber > 0 {
		query = query.Where("innings_number = ?", filter.InningsNumber)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.AfterID > 0 {
		query = query.Where("id > ?", filter.AfterID)
	}

	var entries []CommentaryEntry
	if filter.Limit > 0 {
		if err := query.Order("id DESC").Limit(filter.Limit).Find(&entries).Error; err != nil {
			return nil, err
		}
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
		return entries, nil
	}

	err := query.Order("id ASC").Find(&entries).Error
	return entries, err
}
