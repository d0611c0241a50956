package models

import (
	"time"

	"gorm.io/gorm"
)

type Author struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    *string `gorm:"index" json:"username"` // case-insensitive uniqueness enforced by the author service
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Link        *string `json:"link"`

	Email                  *string `json:"email,omitempty"`
	EmailVerified          bool    `gorm:"default:false" json:"email_verified"`
	EmailVerificationToken string  `json:"-"`
	Secret                 string  `json:"-"`

	Featured           bool    `gorm:"default:false" json:"featured"`
	HideFromHomepage   bool    `gorm:"default:false" json:"hide_from_homepage"`
	CustomThemeEnabled bool    `gorm:"default:false" json:"custom_theme_enabled"`
	CSS                *string `json:"-"`

	// Derived fields, owned by the eligibility engine and word count
	// recomputation. Never written directly by handlers.
	HomepageActivity *time.Time `json:"homepage_activity"`
	LastWordCount    int        `gorm:"default:0" json:"last_word_count"`

	Posts            []Post           `gorm:"constraint:OnDelete:CASCADE" json:"posts,omitempty"`
	Domain           *Domain          `gorm:"constraint:OnDelete:CASCADE" json:"domain,omitempty"`
	GuestbookEntries []GuestbookEntry `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Subscriptions    []Subscription   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Credentials      []Credential     `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UsernamePresent reports whether the author has claimed a username.
func (a *Author) UsernamePresent() bool {
	return a.Username != nil && *a.Username != ""
}

// BioPresent reports whether the author has filled in a bio.
func (a *Author) BioPresent() bool {
	return a.Bio != nil && *a.Bio != ""
}

// HasCustomDomain reports whether an operator-activated domain is attached.
func (a *Author) HasCustomDomain() bool {
	return a.Domain != nil && a.Domain.Active
}

// CustomDomainHost returns the attached domain's hostname. Callers must
// guard with HasCustomDomain.
func (a *Author) CustomDomainHost() string {
	return a.Domain.Domain
}
