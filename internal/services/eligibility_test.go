package services

import (
	"testing"
	"time"

	"listed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testEngine(db *gorm.DB, words []string) *EligibilityEngine {
	filter := NewRestrictionFilter(words)
	content := NewContentAggregator(db)
	return NewEligibilityEngine(db, content, filter)
}

func TestComputeOrganicEligibility(t *testing.T) {
	db := testDB(t)
	engine := testEngine(db, nil)
	now := time.Now().UTC()

	author := eligibleAuthor(t, db, now)

	stamp, err := engine.Compute(author, now)
	require.NoError(t, err)
	require.NotNil(t, stamp)
	// The homepage ranks by content freshness, not evaluation time
	assert.WithinDuration(t, now.Add(-time.Hour), *stamp, time.Second)
}

func TestComputeIdempotent(t *testing.T) {
	db := testDB(t)
	engine := testEngine(db, nil)
	now := time.Now().UTC()

	author := eligibleAuthor(t, db, now)

	first, err := engine.Compute(author, now)
	require.NoError(t, err)
	second, err := engine.Compute(author, now)
	require.NoError(t, err)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.True(t, first.Equal(*second))
}

func TestComputeFeaturedOverridesEverything(t *testing.T) {
	db := testDB(t)
	engine := testEngine(db, []string{"spam"})
	now := time.Now().UTC()

	// Restricted bio, hidden, no posts, no words: featured still wins
	author := &models.Author{
		Featured:         true,
		Bio:              str("spam spam spam"),
		HideFromHomepage: true,
	}
	require.NoError(t, db.Create(author).Error)

	stamp, err := engine.Compute(author, now)
	require.NoError(t, err)
	require.NotNil(t, stamp)
	assert.True(t, stamp.Equal(now))
}

func TestComputeRestrictionSuppressesOrganic(t *testing.T) {
	db := testDB(t)
	engine := testEngine(db, []string{"casino"})
	now := time.Now().UTC()

	author := eligibleAuthor(t, db, now)
	author.Bio = str("the best casino reviews")

	stamp, err := engine.Compute(author, now)
	require.NoError(t, err)
	assert.Nil(t, stamp)
}

func TestComputeWordCountThreshold(t *testing.T) {
	db := testDB(t)
	engine := testEngine(db, nil)
	now := time.Now().UTC()

	author := eligibleAuthor(t, db, now)

	// Exactly 100 is not enough
	author.LastWordCount = 100
	stamp, err := engine.Compute(author, now)
	require.NoError(t, err)
	assert.Nil(t, stamp)

	// 101 qualifies
	author.LastWordCount = 101
	stamp, err = engine.Compute(author, now)
	require.NoError(t, err)
	assert.NotNil(t, stamp)
}

func TestComputeOrganicGates(t *testing.T) {
	db := testDB(t)
	engine := testEngine(db, nil)
	now := time.Now().UTC()

	t.Run("missing username", func(t *testing.T) {
		author := eligibleAuthor(t, db, now)
		author.Username = nil
		stamp, err := engine.Compute(author, now)
		require.NoError(t, err)
		assert.Nil(t, stamp)
	})

	t.Run("missing bio", func(t *testing.T) {
		author := eligibleAuthor(t, db, now)
		author.Bio = str("")
		stamp, err := engine.Compute(author, now)
		require.NoError(t, err)
		assert.Nil(t, stamp)
	})

	t.Run("hide_from_homepage is a hard veto", func(t *testing.T) {
		author := eligibleAuthor(t, db, now)
		author.HideFromHomepage = true
		stamp, err := engine.Compute(author, now)
		require.NoError(t, err)
		assert.Nil(t, stamp)
	})

	t.Run("no fresh post", func(t *testing.T) {
		author := &models.Author{
			Username:      str("stale"),
			Bio:           str("bio"),
			LastWordCount: 500,
		}
		require.NoError(t, db.Create(author).Error)
		stamp, err := engine.Compute(author, now)
		require.NoError(t, err)
		assert.Nil(t, stamp)
	})
}

func TestRecomputePersistsOnlyOnChange(t *testing.T) {
	db := testDB(t)
	engine := testEngine(db, nil)
	now := time.Now().UTC()

	author := eligibleAuthor(t, db, now)
	require.Nil(t, author.HomepageActivity)

	require.NoError(t, engine.Recompute(author, true))
	require.NotNil(t, author.HomepageActivity)

	var stored models.Author
	require.NoError(t, db.First(&stored, author.ID).Error)
	require.NotNil(t, stored.HomepageActivity)
	assert.WithinDuration(t, *author.HomepageActivity, *stored.HomepageActivity, time.Second)

	// Losing the bio drops the author from the homepage
	author.Bio = nil
	require.NoError(t, engine.Recompute(author, true))
	assert.Nil(t, author.HomepageActivity)

	require.NoError(t, db.First(&stored, author.ID).Error)
	assert.Nil(t, stored.HomepageActivity)
}

func TestRecomputeWithoutPersistLeavesStoreUntouched(t *testing.T) {
	db := testDB(t)
	engine := testEngine(db, nil)
	now := time.Now().UTC()

	author := eligibleAuthor(t, db, now)

	require.NoError(t, engine.Recompute(author, false))
	require.NotNil(t, author.HomepageActivity)

	var stored models.Author
	require.NoError(t, db.First(&stored, author.ID).Error)
	assert.Nil(t, stored.HomepageActivity)
}
