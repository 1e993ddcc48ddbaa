package models

import (
	"time"
)

// User rows are managed by the external identity provider; this service only
// reads them for existence checks and profile statistics.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Role      string    `json:"role" gorm:"default:user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:AuthorID"`
}
