package venue

import (
	"github.com/DhavalSuthar-24/cricksim/internal/models"
	"gorm.io/gorm"
)

type Venue struct {
	gorm.Model
	Name     string              `json:"name" gorm:"not null;unique"`
	City     string              `json:"city" gorm:"not null"`
	Country  string              `json:"country"`
	Capacity int                 `json:"capacity"`
	Location *models.Coordinates `json:"location,omitempty" gorm:"type:text"`
}
