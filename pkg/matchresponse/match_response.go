package matchresponse

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Envelope is the success body shape, exported for swagger docs.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody is the error body shape, exported for swagger docs.
type ErrorBody struct {
	Status  string      `json:"status"` // "error" for client errors, "fail" for server failures
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Kind    string      `json:"kind,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// PaginatedEnvelope wraps a page of items.
type PaginatedEnvelope struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

func statusText(code int) string {
	if code >= http.StatusInternalServerError {
		return "fail"
	}
	return "error"
}

// ErrorResponse sends a standardized error JSON response and aborts the chain.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{
		Status:  statusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// KindErrorResponse is ErrorResponse with a machine-readable error kind attached.
func KindErrorResponse(c *gin.Context, statusCode int, kind, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{
		Status:  statusText(statusCode),
		Message: message,
		Code:    statusCode,
		Kind:    kind,
	})
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	formatted := make(map[string]string)
	for _, err := range errs {
		fieldKey := strings.ToLower(err.Field())
		var msg string
		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("The %s field is required.", err.Field())
		case "min", "gte":
			msg = fmt.Sprintf("The %s field must be at least %s.", err.Field(), err.Param())
		case "max", "lte":
			msg = fmt.Sprintf("The %s field must not exceed %s.", err.Field(), err.Param())
		case "oneof":
			msg = fmt.Sprintf("The %s field must be one of the following: %s.", err.Field(), strings.ReplaceAll(err.Param(), " ", ", "))
		case "nefield":
			msg = fmt.Sprintf("The %s field must differ from %s.", err.Field(), err.Param())
		default:
			msg = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", err.Field(), err.Tag())
		}
		formatted[fieldKey] = msg
	}
	return formatted
}

// ValidationErrorResponse reports binding failures from ShouldBindJSON and friends.
func ValidationErrorResponse(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
			Status:  "error",
			Message: "Validation failed. Please check your input.",
			Code:    http.StatusBadRequest,
			Errors:  formatValidationErrors(ve),
		})
		return
	}
	ErrorResponse(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
}

// SuccessResponse sends a standardized success JSON response.
// A gin.H with a string "message" key has that key lifted to the top level.
func SuccessResponse(c *gin.Context, statusCode int, responseData interface{}) {
	payload := Envelope{Status: "success"}

	if gh, ok := responseData.(gin.H); ok {
		if msg, isStr := gh["message"].(string); isStr {
			payload.Message = msg
			rest := make(gin.H, len(gh))
			for k, v := range gh {
				if k != "message" {
					rest[k] = v
				}
			}
			if len(rest) > 0 {
				payload.Data = rest
			}
		} else {
			payload.Data = responseData
		}
	} else if responseData != nil {
		payload.Data = responseData
	}

	c.JSON(statusCode, payload)
}

// PaginatedResponse sends a page of items with pagination metadata.
func PaginatedResponse(c *gin.Context, statusCode int, items interface{}, currentPage, pageSize int, totalItems int64) {
	if pageSize <= 0 {
		pageSize = 10
	}
	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(pageSize)))
	}

	c.JSON(statusCode, PaginatedEnvelope{
		Status: "success",
		Data:   items,
		Pagination: Pagination{
			TotalItems:  totalItems,
			TotalPages:  totalPages,
			CurrentPage: currentPage,
			PageSize:    pageSize,
			HasNextPage: currentPage < totalPages,
			HasPrevPage: currentPage > 1 && currentPage <= totalPages,
		},
	})
}

// ParsePagination reads page and page_size query params, clamping page_size to 100.
func ParsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// ParseIDParam reads a uint path param, writing a 400 response on failure.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid "+strings.ReplaceAll(name, "_", " "))
		return 0, false
	}
	return uint(id), true
}
