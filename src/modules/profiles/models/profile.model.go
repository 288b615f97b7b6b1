package profiles

import (
	"time"

	"gorm.io/gorm"
)

// MaxProfilesPerUser caps how many viewer profiles one account may hold.
const MaxProfilesPerUser = 5

type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"not null;uniqueIndex:idx_profiles_user_name;type:varchar(36)"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_profiles_user_name;type:varchar(64)"`
	Avatar    *string   `json:"avatar"`
	PinHash   string    `json:"-"`
	IsLocked  bool      `json:"isLocked" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func MigrateProfiles(db *gorm.DB) error {
	return db.AutoMigrate(&Profile{})
}
