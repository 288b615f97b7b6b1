package library

import (
	"time"

	"gorm.io/gorm"
)

// ContentType tells which catalog a content id points into.
type ContentType string

const (
	ContentMovie ContentType = "movie"
	ContentTV    ContentType = "tv"
)

func (t ContentType) Valid() bool {
	return t == ContentMovie || t == ContentTV
}

// CompletedThreshold is the progress percentage at which playback counts as finished.
const CompletedThreshold = 95.0

type Favourite struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProfileID   string      `json:"profileId" gorm:"not null;uniqueIndex:idx_favourites_profile_content;type:varchar(36)"`
	ContentID   string      `json:"contentId" gorm:"not null;uniqueIndex:idx_favourites_profile_content;index;type:varchar(36)"`
	ContentType ContentType `json:"contentType" gorm:"not null;type:varchar(16)"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type Watched struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProfileID   string      `json:"profileId" gorm:"not null;uniqueIndex:idx_watcheds_profile_content;type:varchar(36)"`
	ContentID   string      `json:"contentId" gorm:"not null;uniqueIndex:idx_watcheds_profile_content;index;type:varchar(36)"`
	ContentType ContentType `json:"contentType" gorm:"not null;type:varchar(16)"`
	WatchedAt   time.Time   `json:"watchedAt" gorm:"not null"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Watching tracks playback progress for content a profile has started.
type Watching struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProfileID     string      `json:"profileId" gorm:"not null;uniqueIndex:idx_watchings_profile_content;type:varchar(36)"`
	ContentID     string      `json:"contentId" gorm:"not null;uniqueIndex:idx_watchings_profile_content;index;type:varchar(36)"`
	ContentType   ContentType `json:"contentType" gorm:"not null;type:varchar(16)"`
	Progress      float64     `json:"progress" gorm:"not null;default:0"`
	LastWatched   time.Time   `json:"lastWatched" gorm:"not null;index"`
	Completed     bool        `json:"completed" gorm:"not null;default:false"`
	SeasonNumber  *int        `json:"seasonNumber"`
	EpisodeNumber *int        `json:"episodeNumber"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func MigrateLibrary(db *gorm.DB) error {
	return db.AutoMigrate(&Favourite{}, &Watched{}, &Watching{})
}

// DeleteForProfiles removes every library record owned by the given profiles.
func DeleteForProfiles(tx *gorm.DB, profileIDs []string) error {
	if len(profileIDs) == 0 {
		return nil
	}
	for _, model := range []interface{}{&Favourite{}, &Watched{}, &Watching{}} {
		if err := tx.Where("profile_id IN ?", profileIDs).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteForContent removes every library record pointing at the given content ids.
func DeleteForContent(tx *gorm.DB, contentIDs []string) error {
	if len(contentIDs) == 0 {
		return nil
	}
	for _, model := range []interface{}{&Favourite{}, &Watched{}, &Watching{}} {
		if err := tx.Where("content_id IN ?", contentIDs).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
