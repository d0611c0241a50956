package models

import (
	"time"

	"gorm.io/gorm"
)

type Subscription struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Email    string `gorm:"not null" json:"email"`

	Verified     bool `gorm:"default:false" json:"verified"`
	Unsubscribed bool `gorm:"default:false" json:"unsubscribed"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
