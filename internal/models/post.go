package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`

	Published  bool `gorm:"default:false" json:"published"`
	Unlisted   bool `gorm:"default:false" json:"unlisted"`
	AuthorShow bool `gorm:"default:false" json:"author_show"` // author-controlled listing flag
	AuthorPage bool `gorm:"default:false" json:"author_page"` // static page rather than a feed post
	PageSort   int  `gorm:"default:0" json:"page_sort"`

	WordCount int `gorm:"default:0" json:"word_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
