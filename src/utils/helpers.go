package utils

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"nefllix/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pagination describes one page of a list response.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	ItemsPerPage int   `json:"items_per_page"`
	NextPage     *int  `json:"next_page"`
	PreviousPage *int  `json:"previous_page"`
	TotalCount   int64 `json:"total_count"`
	TotalPages   int   `json:"total_pages"`
}

func Paginate(total int64, page, perPage int) Pagination {
	// Avoid division by zero
	if perPage <= 0 {
		perPage = 1
	}
	if page <= 0 {
		page = 1
	}

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	var nextPage, prevPage *int
	if page < totalPages {
		next := page + 1
		nextPage = &next
	}
	if page > 1 {
		prev := page - 1
		prevPage = &prev
	}

	return Pagination{
		CurrentPage:  page,
		ItemsPerPage: perPage,
		NextPage:     nextPage,
		PreviousPage: prevPage,
		TotalCount:   total,
		TotalPages:   totalPages,
	}
}

// CalculateOffsetStruct is the struct to define return result for calculate service
type CalculateOffsetStruct struct {
	CurrentPage  int
	ItemsPerPage int
	OrderBy      string
	SortBy       string
	Offset       int
}

// CalculateOffset is the function to calculate offset for list service
func CalculateOffset(currentPage, itemsPerPage int, sortBy, orderBy string) CalculateOffsetStruct {
	if orderBy == "" {
		orderBy = "created_at"
	}
	if sortBy != "asc" && sortBy != "desc" {
		sortBy = "desc"
	}
	if currentPage <= 0 {
		currentPage = 1
	}

	offset := (currentPage - 1) * itemsPerPage
	if offset < 0 {
		offset = 0
	}

	return CalculateOffsetStruct{
		CurrentPage:  currentPage,
		ItemsPerPage: itemsPerPage,
		OrderBy:      orderBy,
		SortBy:       sortBy,
		Offset:       offset,
	}
}

// ServiceError to define return exception for system
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewBadRequestError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: msg}
}

func NewUnauthorizedError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusUnauthorized, Message: msg}
}

func NewForbiddenError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusForbidden, Message: msg}
}

func NewNotFoundError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Message: msg}
}

func NewConflictError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Message: msg}
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return http.StatusInternalServerError
}

const internalErrorMessage = "Internal server error"

// PublicMessage returns the message a client may see for err. Anything that
// is not a ServiceError is logged and replaced with a generic message.
func PublicMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	logger.Error("[Server] internal error", "err", err)
	return internalErrorMessage
}

// RespondError writes err using the shared error envelope.
func RespondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(StatusOf(err), gin.H{"success": false, "error": PublicMessage(err)})
}

// RespondData writes data using the shared success envelope.
func RespondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// BindJson is a function to bind the json request
func BindJson(c *gin.Context, request interface{}) *ServiceError {
	if err := c.ShouldBindJSON(request); err != nil {
		return NewBadRequestError("Invalid request parameters: " + err.Error())
	}
	return nil
}

// IsUniqueViolation reports whether err came from a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// GenerateID generates a new v4 uuid as a string
func GenerateID() string {
	return uuid.New().String()
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ClampLimit keeps a page size within (0, max], falling back to def.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 || limit > max {
		return def
	}
	return limit
}
