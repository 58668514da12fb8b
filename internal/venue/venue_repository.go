package venue

import (
	"errors"

	"gorm.io/gorm"
)

type VenueRepository interface {
	CreateVenue(venue *Venue) error
	GetVenueByID(id uint) (*Venue, error)
	GetVenueByName(name string) (*Venue, error)
	GetAllVenues(page, limit int, city string) ([]Venue, int64, error)
}

type venueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) CreateVenue(venue *Venue) error {
	return r.db.Create(venue).Error
}

func (r *venueRepository) GetVenueByID(id uint) (*Venue, error) {
	var venue Venue
	if err := r.db.First(&venue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) GetVenueByName(name string) (*Venue, error) {
	var venue Venue
	if err := r.db.Where("name = ?", name).First(&venue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) GetAllVenues(page, limit int, city string) ([]Venue, int64, error) {
	var venues []Venue
	var total int64

	query := r.db.Model(&Venue{})
	if city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("name asc").Offset(offset).Limit(limit).Find(&venues).Error; err != nil {
		return nil, 0, err
	}
	return venues, total, nil
}
