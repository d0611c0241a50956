package models

import (
	"time"

	"gorm.io/gorm"
)

type Credential struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Kind     string `gorm:"not null" json:"kind"` // e.g. "api_token"
	Value    string `gorm:"not null" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
