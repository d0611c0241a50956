package services

import (
	"errors"
	"time"

	"listed/internal/models"

	"gorm.io/gorm"
)

// homepageWindow is how far back a listed post may lie and still count as
// fresh for homepage placement.
const homepageWindow = 28 * 24 * time.Hour

// ContentAggregator computes derived content facts about an author: the
// freshest listed post, the cached word count, and the listed/page post
// sets. UpdateWordCount is the only method with a side effect.
type ContentAggregator struct {
	db *gorm.DB
}

func NewContentAggregator(db *gorm.DB) *ContentAggregator {
	return &ContentAggregator{db: db}
}

// MostRecentEligiblePost returns the newest listed post created within the
// homepage window ending at now. Both bounds are inclusive and evaluated in
// UTC. Returns nil when no post qualifies.
func (c *ContentAggregator) MostRecentEligiblePost(a *models.Author, now time.Time) (*models.Post, error) {
	upper := now.UTC()
	lower := upper.Add(-homepageWindow)

	var post models.Post
	err := c.db.
		Where("author_id = ? AND author_show = ?", a.ID, true).
		Where("created_at >= ? AND created_at <= ?", lower, upper).
		Order("created_at DESC").
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListedPosts returns the author's posts with the listing flag set. A zero
// id in excludeIDs is ignored, so callers may pass a raw collection without
// compacting it first.
func (c *ContentAggregator) ListedPosts(a *models.Author, excludeIDs []uint, sorted bool) ([]models.Post, error) {
	query := c.db.Where("author_id = ? AND author_show = ?", a.ID, true)

	var compacted []uint
	for _, id := range excludeIDs {
		if id != 0 {
			compacted = append(compacted, id)
		}
	}
	if len(compacted) > 0 {
		query = query.Where("id NOT IN ?", compacted)
	}
	if sorted {
		query = query.Order("created_at DESC")
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Pages returns the author's static pages in their configured order.
func (c *ContentAggregator) Pages(a *models.Author) ([]models.Post, error) {
	var posts []models.Post
	err := c.db.
		Where("author_id = ? AND author_page = ?", a.ID, true).
		Order("page_sort ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateWordCount recomputes the word count over published, listed posts
// and persists the cached value when it changed. The fresh sum is returned
// either way.
func (c *ContentAggregator) UpdateWordCount(a *models.Author) (int, error) {
	var count int
	err := c.db.Model(&models.Post{}).
		Where("author_id = ? AND unlisted = ? AND published = ?", a.ID, false, true).
		Select("COALESCE(SUM(word_count), 0)").
		Scan(&count).Error
	if err != nil {
		return 0, err
	}

	if count != a.LastWordCount {
		a.LastWordCount = count
		if err := c.db.Model(a).Update("last_word_count", count).Error; err != nil {
			return 0, err
		}
	}
	return count, nil
}

// PublicGuestbookEntries returns the entries the author has flagged public.
func (c *ContentAggregator) PublicGuestbookEntries(a *models.Author) ([]models.GuestbookEntry, error) {
	var entries []models.GuestbookEntry
	err := c.db.
		Where("author_id = ? AND public = ?", a.ID, true).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UnreadGuestbookEntries returns unread entries that haven't been marked
// spam.
func (c *ContentAggregator) UnreadGuestbookEntries(a *models.Author) ([]models.GuestbookEntry, error) {
	var entries []models.GuestbookEntry
	err := c.db.
		Where("author_id = ? AND unread = ? AND spam = ?", a.ID, true, false).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// VerifiedSubscriptions returns active, verified subscriptions.
func (c *ContentAggregator) VerifiedSubscriptions(a *models.Author) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := c.db.
		Where("author_id = ? AND verified = ? AND unsubscribed = ?", a.ID, true, false).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}
