package shows

import (
	"time"

	"nefllix/src/utils"

	"gorm.io/gorm"
)

type TvShow struct {
	ID              string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title           string           `json:"title" gorm:"not null;index"`
	Description     string           `json:"description" gorm:"type:text"`
	ThumbnailURL    string           `json:"thumbnailUrl"`
	TrailerURL      string           `json:"trailerUrl"`
	Genre           utils.StringList `json:"genre"`
	Rating          float64          `json:"rating" gorm:"not null;default:0;index"`
	IsAdult         bool             `json:"isAdult" gorm:"not null;default:false"`
	ReleaseYear     int              `json:"releaseYear" gorm:"index"`
	NumberOfSeasons int              `json:"numberOfSeasons" gorm:"not null;default:0"`
	CreatedAt       time.Time        `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	Seasons         []Season         `json:"seasons,omitempty" gorm:"foreignKey:TvShowID"`
}

type Season struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TvShowID     string    `json:"tvShowId" gorm:"not null;uniqueIndex:idx_seasons_show_number;type:varchar(36)"`
	SeasonNumber int       `json:"seasonNumber" gorm:"not null;uniqueIndex:idx_seasons_show_number"`
	Title        string    `json:"title"`
	Description  string    `json:"description" gorm:"type:text"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	ReleaseYear  int       `json:"releaseYear"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Episodes     []Episode `json:"episodes,omitempty" gorm:"foreignKey:SeasonID"`
}

type Episode struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SeasonID      string    `json:"seasonId" gorm:"not null;uniqueIndex:idx_episodes_season_number;type:varchar(36)"`
	EpisodeNumber int       `json:"episodeNumber" gorm:"not null;uniqueIndex:idx_episodes_season_number"`
	Title         string    `json:"title" gorm:"not null"`
	Description   string    `json:"description" gorm:"type:text"`
	Duration      int       `json:"duration" gorm:"not null;default:0"`
	VideoURL      string    `json:"videoUrl"`
	ThumbnailURL  string    `json:"thumbnailUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func MigrateShows(db *gorm.DB) error {
	return db.AutoMigrate(&TvShow{}, &Season{}, &Episode{})
}
