package services

import (
	"time"

	"listed/internal/models"

	"gorm.io/gorm"
)

// minWordCount is the substance threshold for organic homepage placement.
// Strictly greater-than: an author at exactly 100 words does not qualify.
const minWordCount = 100

// EligibilityEngine derives the homepage activity timestamp for an author.
// A non-nil result means the author appears on the cross-author homepage,
// ranked by that timestamp.
type EligibilityEngine struct {
	db      *gorm.DB
	content *ContentAggregator
	filter  *RestrictionFilter
}

func NewEligibilityEngine(db *gorm.DB, content *ContentAggregator, filter *RestrictionFilter) *EligibilityEngine {
	return &EligibilityEngine{db: db, content: content, filter: filter}
}

// Compute evaluates the placement rules against a consistent snapshot of
// the author. It never mutates the author.
//
// Precedence: a featured author is always placed, stamped with now — the
// editorial override beats every organic signal including restriction.
// Otherwise the author must have a fresh listed post, more than
// minWordCount words across published posts, a claimed username, no
// homepage opt-out, and a bio; a restricted profile suppresses an otherwise
// eligible author. The organic timestamp is the qualifying post's creation
// time, not evaluation time.
func (e *EligibilityEngine) Compute(a *models.Author, now time.Time) (*time.Time, error) {
	if a.Featured {
		stamp := now
		return &stamp, nil
	}

	recent, err := e.content.MostRecentEligiblePost(a, now)
	if err != nil {
		return nil, err
	}

	eligible := recent != nil &&
		a.LastWordCount > minWordCount &&
		a.UsernamePresent() &&
		!a.HideFromHomepage &&
		a.BioPresent()
	if !eligible {
		return nil, nil
	}

	if e.filter.AuthorRestricted(a) {
		return nil, nil
	}

	stamp := recent.CreatedAt
	return &stamp, nil
}

// Recompute applies Compute to the aggregate. The stored value is replaced
// only when the result differs, and written through only when persist is
// set; callers that batch their own save pass persist=false.
func (e *EligibilityEngine) Recompute(a *models.Author, persist bool) error {
	result, err := e.Compute(a, time.Now())
	if err != nil {
		return err
	}

	if !timestampsEqual(a.HomepageActivity, result) {
		a.HomepageActivity = result
		if persist {
			return e.db.Model(a).Update("homepage_activity", result).Error
		}
	}
	return nil
}

func timestampsEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
