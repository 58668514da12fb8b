package venue

import (
	"net/http"

	"github.com/DhavalSuthar-24/cricksim/internal/models"
	responses "github.com/DhavalSuthar-24/cricksim/pkg/matchresponse"
	"github.com/gin-gonic/gin"
)

type VenueController struct {
	repo VenueRepository
}

func NewVenueController(repo VenueRepository) *VenueController {
	return &VenueController{repo: repo}
}

type VenueInput struct {
	Name      string   `json:"name" binding:"required,min=2,max=200"`
	City      string   `json:"city" binding:"required"`
	Country   string   `json:"country"`
	Capacity  int      `json:"capacity" binding:"gte=0"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// CreateVenue godoc
// @Summary Create a new venue
// @Tags venues
// @Accept json
// @Produce json
// @Param venue body VenueInput true "Venue information"
// @Success 201 {object} Venue "Venue created successfully"
// @Failure 400 {object} matchresponse.ErrorBody "Invalid input"
// @Failure 409 {object} matchresponse.ErrorBody "Venue name taken"
// @Router /venues [post]
// @Security Bearer
func (vc *VenueController) CreateVenue(c *gin.Context) {
	var input VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	existing, err := vc.repo.GetVenueByName(input.Name)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to check venue: "+err.Error())
		return
	}
	if existing != nil {
		responses.ErrorResponse(c, http.StatusConflict, "A venue with this name already exists")
		return
	}

	venue := Venue{
		Name:     input.Name,
		City:     input.City,
		Country:  input.Country,
		Capacity: input.Capacity,
	}
	if input.Latitude != nil && input.Longitude != nil {
		venue.Location = &models.Coordinates{Latitude: *input.Latitude, Longitude: *input.Longitude}
	}
	if err := vc.repo.CreateVenue(&venue); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create venue: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusCreated, gin.H{"message": "Venue created successfully", "venue": venue})
}

// GetVenueByID godoc
// @Summary Get venue by ID
// @Tags venues
// @Produce json
// @Param venue_id path int true "Venue ID"
// @Success 200 {object} Venue "Venue details"
// @Failure 404 {object} matchresponse.ErrorBody "Venue not found"
// @Router /venues/{venue_id} [get]
func (vc *VenueController) GetVenueByID(c *gin.Context) {
	id, ok := responses.ParseIDParam(c, "venue_id")
	if !ok {
		return
	}
	venue, err := vc.repo.GetVenueByID(id)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve venue: "+err.Error())
		return
	}
	if venue == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Venue not found")
		return
	}
	responses.SuccessResponse(c, http.StatusOK, venue)
}

// GetAllVenues godoc
// @Summary Get all venues
// @Tags venues
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 10, max: 100)"
// @Param city query string false "Filter by city"
// @Success 200 {object} matchresponse.PaginatedEnvelope{data=[]Venue} "List of venues"
// @Router /venues [get]
func (vc *VenueController) GetAllVenues(c *gin.Context) {
	page, pageSize := responses.ParsePagination(c)
	venues, total, err := vc.repo.GetAllVenues(page, pageSize, c.Query("city"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve venues: "+err.Error())
		return
	}
	responses.PaginatedResponse(c, http.StatusOK, venues, page, pageSize, total)
}
