package movies

import (
	"time"

	movies "nefllix/src/modules/movies/models"
	"nefllix/src/utils"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 64
)

// ListRequest is the catalog list query shared by movies and shows.
type ListRequest struct {
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
	SortField    string  `json:"sort_field"`
	SortType     string  `json:"sort_type"`
	Genre        string  `json:"genre"`
	Keyword      string  `json:"keyword"`
	MinRating    float64 `json:"min_rating"`
	Year         int     `json:"year"`
	IncludeAdult bool    `json:"include_adult"`
}

// MovieSortFields maps accepted sort_field values to columns.
var MovieSortFields = map[string]string{
	"createdAt":   "created_at",
	"title":       "title",
	"rating":      "rating",
	"releaseYear": "release_year",
	"duration":    "duration",
}

// Normalize fills defaults and drops values outside the accepted ranges.
func (r *ListRequest) Normalize(sortFields map[string]string) {
	if r.Page <= 0 {
		r.Page = 1
	}
	r.Limit = utils.ClampLimit(r.Limit, DefaultListLimit, MaxListLimit)

	if _, ok := sortFields[r.SortField]; !ok {
		r.SortField = "createdAt"
	}
	if r.SortType != "asc" && r.SortType != "desc" {
		r.SortType = "desc"
	}

	if r.Year != 0 && (r.Year < 1888 || r.Year > time.Now().Year()+1) {
		r.Year = 0
	}
	if r.MinRating < 0 || r.MinRating > 10 {
		r.MinRating = 0
	}
}

type MovieSearchRequest struct {
	Keyword      string `json:"keyword" binding:"required"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	IncludeAdult bool   `json:"include_adult"`
}

type MovieInput struct {
	Title        string   `json:"title" binding:"required,min=1,max=255"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"videoUrl" binding:"omitempty,max=2048"`
	ThumbnailURL string   `json:"thumbnailUrl" binding:"omitempty,max=2048"`
	TrailerURL   string   `json:"trailerUrl" binding:"omitempty,max=2048"`
	Genre        []string `json:"genre"`
	Rating       float64  `json:"rating" binding:"gte=0,lte=10"`
	Duration     int      `json:"duration" binding:"gte=0"`
	IsAdult      bool     `json:"isAdult"`
	ReleaseYear  int      `json:"releaseYear" binding:"gte=0"`
}

type MovieListResponse struct {
	Items      []movies.Movie   `json:"items"`
	Pagination utils.Pagination `json:"pagination"`
	FromCache  bool             `json:"from_cache"`
}

type MovieDetailsResponse struct {
	Movie     movies.Movie `json:"movie"`
	FromCache bool         `json:"from_cache"`
}
