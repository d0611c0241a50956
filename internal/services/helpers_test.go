package services

import (
	"context"
	"testing"
	"time"

	"listed/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatal(err)
	}

	err = db.AutoMigrate(
		&models.Author{},
		&models.Post{},
		&models.Domain{},
		&models.GuestbookEntry{},
		&models.Subscription{},
		&models.Credential{},
	)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func str(s string) *string {
	return &s
}

// eligibleAuthor builds an author that passes every organic gate: fresh
// listed post, word count over the threshold, username, bio, not hidden.
func eligibleAuthor(t *testing.T, db *gorm.DB, now time.Time) *models.Author {
	t.Helper()

	author := &models.Author{
		Username:      str("alice"),
		Bio:           str("I write about small systems."),
		LastWordCount: 101,
	}
	if err := db.Create(author).Error; err != nil {
		t.Fatal(err)
	}

	post := &models.Post{
		AuthorID:   author.ID,
		AuthorShow: true,
		Published:  true,
		WordCount:  101,
		CreatedAt:  now.Add(-time.Hour),
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatal(err)
	}
	return author
}

type fakeMailer struct {
	featured       []uint
	domainApproved []uint
	domainInvalid  []string
	digests        map[uint][]uint
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{digests: map[uint][]uint{}}
}

func (m *fakeMailer) Featured(ctx context.Context, a *models.Author) error {
	m.featured = append(m.featured, a.ID)
	return nil
}

func (m *fakeMailer) DomainApproved(ctx context.Context, a *models.Author) error {
	m.domainApproved = append(m.domainApproved, a.ID)
	return nil
}

func (m *fakeMailer) DomainInvalid(ctx context.Context, email string) error {
	m.domainInvalid = append(m.domainInvalid, email)
	return nil
}

func (m *fakeMailer) UnreadGuestbookEntries(ctx context.Context, a *models.Author, entryIDs []uint) error {
	m.digests[a.ID] = append(m.digests[a.ID], entryIDs...)
	return nil
}

type fakePublisher struct {
	created []uint
	deleted []uint
}

func (p *fakePublisher) AccountCreated(id uint, email, username, secret string) error {
	p.created = append(p.created, id)
	return nil
}

func (p *fakePublisher) AccountDeleted(id uint, email, username, secret string) error {
	p.deleted = append(p.deleted, id)
	return nil
}

type fakeNotifier struct {
	enqueued []uint
}

func (n *fakeNotifier) EnqueueFeaturedEmail(authorID uint) error {
	n.enqueued = append(n.enqueued, authorID)
	return nil
}

func testAuthorService(db *gorm.DB, mail *fakeMailer, events *fakePublisher, notifier *fakeNotifier) *AuthorService {
	filter := NewRestrictionFilter(nil)
	content := NewContentAggregator(db)
	engine := NewEligibilityEngine(db, content, filter)
	return NewAuthorService(db, content, engine, mail, events, notifier)
}
