package models

import (
	"time"

	"gorm.io/gorm"
)

type GuestbookEntry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Name     string `json:"name"`
	Message  string `json:"message"`

	Public bool `gorm:"default:false" json:"public"`
	Unread bool `gorm:"default:true" json:"unread"`
	Spam   bool `gorm:"default:false" json:"spam"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
