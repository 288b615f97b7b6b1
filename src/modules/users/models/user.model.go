package users

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name           string     `json:"name" gorm:"not null"`
	Email          *string    `json:"email" gorm:"uniqueIndex;type:varchar(320)"`
	Image          *string    `json:"image"`
	EmailVerified  *time.Time `json:"emailVerified"`
	HashedPassword *string    `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// HasPassword reports whether the user can sign in with credentials.
func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}

func MigrateUsers(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
