package services

import (
	"testing"
	"time"

	"listed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMostRecentEligiblePostWindow(t *testing.T) {
	db := testDB(t)
	content := NewContentAggregator(db)
	now := time.Now().UTC()

	author := &models.Author{Username: str("alice")}
	require.NoError(t, db.Create(author).Error)

	// Exactly on the 28-day boundary: included
	onBoundary := &models.Post{
		AuthorID:   author.ID,
		AuthorShow: true,
		CreatedAt:  now.Add(-28 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(onBoundary).Error)

	post, err := content.MostRecentEligiblePost(author, now)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, onBoundary.ID, post.ID)

	// One second past the boundary: excluded
	require.NoError(t, db.Delete(onBoundary).Error)
	tooOld := &models.Post{
		AuthorID:   author.ID,
		AuthorShow: true,
		CreatedAt:  now.Add(-28*24*time.Hour - time.Second),
	}
	require.NoError(t, db.Create(tooOld).Error)

	post, err = content.MostRecentEligiblePost(author, now)
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestMostRecentEligiblePostPicksNewestListed(t *testing.T) {
	db := testDB(t)
	content := NewContentAggregator(db)
	now := time.Now().UTC()

	author := &models.Author{Username: str("alice")}
	require.NoError(t, db.Create(author).Error)

	older := &models.Post{AuthorID: author.ID, AuthorShow: true, CreatedAt: now.Add(-72 * time.Hour)}
	newer := &models.Post{AuthorID: author.ID, AuthorShow: true, CreatedAt: now.Add(-time.Hour)}
	unlistedNewest := &models.Post{AuthorID: author.ID, AuthorShow: false, CreatedAt: now.Add(-time.Minute)}
	require.NoError(t, db.Create(older).Error)
	require.NoError(t, db.Create(newer).Error)
	require.NoError(t, db.Create(unlistedNewest).Error)

	post, err := content.MostRecentEligiblePost(author, now)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, newer.ID, post.ID)
}

func TestListedPosts(t *testing.T) {
	db := testDB(t)
	content := NewContentAggregator(db)
	now := time.Now().UTC()

	author := &models.Author{Username: str("alice")}
	require.NoError(t, db.Create(author).Error)

	first := &models.Post{AuthorID: author.ID, AuthorShow: true, CreatedAt: now.Add(-3 * time.Hour)}
	second := &models.Post{AuthorID: author.ID, AuthorShow: true, CreatedAt: now.Add(-2 * time.Hour)}
	third := &models.Post{AuthorID: author.ID, AuthorShow: true, CreatedAt: now.Add(-1 * time.Hour)}
	hidden := &models.Post{AuthorID: author.ID, AuthorShow: false, CreatedAt: now}
	for _, p := range []*models.Post{first, second, third, hidden} {
		require.NoError(t, db.Create(p).Error)
	}

	posts, err := content.ListedPosts(author, nil, true)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, third.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[2].ID)

	// Exclusion set with zero ids is compacted, not an error
	posts, err = content.ListedPosts(author, []uint{0, second.ID, 0}, true)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, third.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestPagesOrderedByPageSort(t *testing.T) {
	db := testDB(t)
	content := NewContentAggregator(db)

	author := &models.Author{Username: str("alice")}
	require.NoError(t, db.Create(author).Error)

	about := &models.Post{AuthorID: author.ID, AuthorPage: true, PageSort: 2, Title: "About"}
	home := &models.Post{AuthorID: author.ID, AuthorPage: true, PageSort: 1, Title: "Home"}
	feedPost := &models.Post{AuthorID: author.ID, AuthorPage: false, Title: "A post"}
	for _, p := range []*models.Post{about, home, feedPost} {
		require.NoError(t, db.Create(p).Error)
	}

	pages, err := content.Pages(author)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Home", pages[0].Title)
	assert.Equal(t, "About", pages[1].Title)
}

func TestUpdateWordCount(t *testing.T) {
	db := testDB(t)
	content := NewContentAggregator(db)

	author := &models.Author{Username: str("alice")}
	require.NoError(t, db.Create(author).Error)

	for _, wc := range []int{50, 60, 10} {
		require.NoError(t, db.Create(&models.Post{
			AuthorID: author.ID, Published: true, Unlisted: false, WordCount: wc,
		}).Error)
	}
	// Unlisted posts never count
	require.NoError(t, db.Create(&models.Post{
		AuthorID: author.ID, Published: true, Unlisted: true, WordCount: 1000,
	}).Error)
	// Neither do drafts
	require.NoError(t, db.Create(&models.Post{
		AuthorID: author.ID, Published: false, Unlisted: false, WordCount: 500,
	}).Error)

	count, err := content.UpdateWordCount(author)
	require.NoError(t, err)
	assert.Equal(t, 120, count)
	assert.Equal(t, 120, author.LastWordCount)

	var stored models.Author
	require.NoError(t, db.First(&stored, author.ID).Error)
	assert.Equal(t, 120, stored.LastWordCount)

	// Unchanged sum still returns the fresh value
	count, err = content.UpdateWordCount(author)
	require.NoError(t, err)
	assert.Equal(t, 120, count)
}

func TestGuestbookAndSubscriptionQueries(t *testing.T) {
	db := testDB(t)
	content := NewContentAggregator(db)

	author := &models.Author{Username: str("alice")}
	require.NoError(t, db.Create(author).Error)

	entries := []*models.GuestbookEntry{
		{AuthorID: author.ID, Public: true, Unread: true},
		{AuthorID: author.ID, Public: false, Unread: true},
		{AuthorID: author.ID, Public: false, Unread: true, Spam: true},
		{AuthorID: author.ID, Public: true, Unread: false},
	}
	for _, e := range entries {
		require.NoError(t, db.Create(e).Error)
	}

	public, err := content.PublicGuestbookEntries(author)
	require.NoError(t, err)
	assert.Len(t, public, 2)

	unread, err := content.UnreadGuestbookEntries(author)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	subs := []*models.Subscription{
		{AuthorID: author.ID, Email: "a@x.com", Verified: true},
		{AuthorID: author.ID, Email: "b@x.com", Verified: true, Unsubscribed: true},
		{AuthorID: author.ID, Email: "c@x.com", Verified: false},
	}
	for _, s := range subs {
		require.NoError(t, db.Create(s).Error)
	}

	verified, err := content.VerifiedSubscriptions(author)
	require.NoError(t, err)
	require.Len(t, verified, 1)
	assert.Equal(t, "a@x.com", verified[0].Email)
}
