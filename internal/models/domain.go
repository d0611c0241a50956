package models

import (
	"time"

	"gorm.io/gorm"
)

type Domain struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;uniqueIndex" json:"author_id"`
	Domain   string `gorm:"not null" json:"domain"` // hostname or host:port

	Active   bool `gorm:"default:false" json:"active"`
	Approved bool `gorm:"default:false" json:"approved"`

	// Contact address used for rejection notices, which may differ from the
	// author's account email.
	ExtendedEmail string `json:"extended_email"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
