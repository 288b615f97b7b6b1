package movies

import (
	"time"

	"nefllix/src/utils"

	"gorm.io/gorm"
)

type Movie struct {
	ID           string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title        string           `json:"title" gorm:"not null;index"`
	Description  string           `json:"description" gorm:"type:text"`
	VideoURL     string           `json:"videoUrl"`
	ThumbnailURL string           `json:"thumbnailUrl"`
	TrailerURL   string           `json:"trailerUrl"`
	Genre        utils.StringList `json:"genre"`
	Rating       float64          `json:"rating" gorm:"not null;default:0;index"`
	Duration     int              `json:"duration" gorm:"not null;default:0"`
	IsAdult      bool             `json:"isAdult" gorm:"not null;default:false"`
	ReleaseYear  int              `json:"releaseYear" gorm:"index"`
	CreatedAt    time.Time        `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// MovieStats is the aggregate view over the movie catalog.
type MovieStats struct {
	Count           int64   `json:"count"`
	AverageRating   float64 `json:"averageRating"`
	MaxRating       float64 `json:"maxRating"`
	AverageDuration float64 `json:"averageDuration"`
}

// GenreCount is one row of the genre group-by.
type GenreCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func MigrateMovies(db *gorm.DB) error {
	return db.AutoMigrate(&Movie{})
}
