package shows

import (
	shows "nefllix/src/modules/shows/models"
	"nefllix/src/utils"
)

// ShowSortFields maps accepted sort_field values to columns.
var ShowSortFields = map[string]string{
	"createdAt":       "created_at",
	"title":           "title",
	"rating":          "rating",
	"releaseYear":     "release_year",
	"numberOfSeasons": "number_of_seasons",
}

type ShowInput struct {
	Title        string   `json:"title" binding:"required,min=1,max=255"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl" binding:"omitempty,max=2048"`
	TrailerURL   string   `json:"trailerUrl" binding:"omitempty,max=2048"`
	Genre        []string `json:"genre"`
	Rating       float64  `json:"rating" binding:"gte=0,lte=10"`
	IsAdult      bool     `json:"isAdult"`
	ReleaseYear  int      `json:"releaseYear" binding:"gte=0"`
}

type SeasonInput struct {
	SeasonNumber int    `json:"seasonNumber" binding:"required,gte=1"`
	Title        string `json:"title" binding:"max=255"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl" binding:"omitempty,max=2048"`
	ReleaseYear  int    `json:"releaseYear" binding:"gte=0"`
}

type EpisodeInput struct {
	EpisodeNumber int    `json:"episodeNumber" binding:"required,gte=1"`
	Title         string `json:"title" binding:"required,min=1,max=255"`
	Description   string `json:"description"`
	Duration      int    `json:"duration" binding:"gte=0"`
	VideoURL      string `json:"videoUrl" binding:"omitempty,max=2048"`
	ThumbnailURL  string `json:"thumbnailUrl" binding:"omitempty,max=2048"`
}

type ShowListResponse struct {
	Items      []shows.TvShow   `json:"items"`
	Pagination utils.Pagination `json:"pagination"`
	FromCache  bool             `json:"from_cache"`
}

type ShowResponse struct {
	Show      shows.TvShow `json:"show"`
	FromCache bool         `json:"from_cache"`
}

// EpisodeResponse places an episode within its show.
type EpisodeResponse struct {
	ShowID       string        `json:"showId"`
	SeasonNumber int           `json:"seasonNumber"`
	Episode      shows.Episode `json:"episode"`
}
