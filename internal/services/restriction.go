package services

import (
	"strings"

	"listed/internal/models"
)

// RestrictionFilter decides whether profile text contains any of the
// platform's restricted keywords. The word list is parsed once from
// configuration and never changes for the life of the process, so the
// filter is safe for concurrent use.
type RestrictionFilter struct {
	words []string
}

func NewRestrictionFilter(words []string) *RestrictionFilter {
	return &RestrictionFilter{words: words}
}

// StringHasRestrictions reports whether any restricted keyword occurs in s
// as a case-insensitive substring. Empty input never matches.
func (f *RestrictionFilter) StringHasRestrictions(s string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, word := range f.words {
		if strings.Contains(lower, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

// AuthorRestricted checks the author's bio, display name, and normalized
// personal link independently against the word list.
func (f *RestrictionFilter) AuthorRestricted(a *models.Author) bool {
	if a.Bio != nil && f.StringHasRestrictions(*a.Bio) {
		return true
	}
	if a.DisplayName != nil && f.StringHasRestrictions(*a.DisplayName) {
		return true
	}
	if link := NormalizedPersonalLink(a); link != nil && f.StringHasRestrictions(*link) {
		return true
	}
	return false
}
