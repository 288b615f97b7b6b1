package library

import (
	library "nefllix/src/modules/library/models"
	"nefllix/src/utils"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 64
)

type ContentRequest struct {
	ContentID   string              `json:"contentId" binding:"required"`
	ContentType library.ContentType `json:"contentType" binding:"required,oneof=movie tv"`
}

type LibraryListRequest struct {
	Page        int                 `form:"page"`
	Limit       int                 `form:"limit"`
	ContentType library.ContentType `form:"contentType"`
}

func (r *LibraryListRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	r.Limit = utils.ClampLimit(r.Limit, DefaultListLimit, MaxListLimit)
}

// ProgressRequest reports playback position as a percentage of the content.
type ProgressRequest struct {
	ContentID     string              `json:"contentId" binding:"required"`
	ContentType   library.ContentType `json:"contentType" binding:"required,oneof=movie tv"`
	Progress      float64             `json:"progress"`
	SeasonNumber  *int                `json:"seasonNumber"`
	EpisodeNumber *int                `json:"episodeNumber"`
	Completed     bool                `json:"completed"`
}

type ListResponse[T any] struct {
	Items      []T              `json:"items"`
	Pagination utils.Pagination `json:"pagination"`
}

type Summary struct {
	Favourites int64 `json:"favourites"`
	Watched    int64 `json:"watched"`
	InProgress int64 `json:"inProgress"`
}
