package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"time"

	"listed/internal/mailer"
	"listed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^\w+$`)

// ValidationError is a field-scoped, non-fatal rejection. Handlers surface
// it to the caller instead of aborting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// FeaturedNotifier schedules the best-effort featured notification. The
// queue client satisfies it; tests pass a stub.
type FeaturedNotifier interface {
	EnqueueFeaturedEmail(authorID uint) error
}

// AuthorService owns the Author aggregate's write paths. Every mutation
// that can change the eligibility inputs re-derives the homepage timestamp
// before it persists.
type AuthorService struct {
	db       *gorm.DB
	content  *ContentAggregator
	engine   *EligibilityEngine
	mail     mailer.Mailer
	events   mailer.Publisher
	notifier FeaturedNotifier
}

func NewAuthorService(db *gorm.DB, content *ContentAggregator, engine *EligibilityEngine, mail mailer.Mailer, events mailer.Publisher, notifier FeaturedNotifier) *AuthorService {
	return &AuthorService{
		db:       db,
		content:  content,
		engine:   engine,
		mail:     mail,
		events:   events,
		notifier: notifier,
	}
}

func (s *AuthorService) validateUsername(a *models.Author) error {
	if !a.UsernamePresent() {
		return nil
	}
	if !usernamePattern.MatchString(*a.Username) {
		return &ValidationError{
			Field:   "username",
			Message: "Only letters, numbers, and underscores are allowed.",
		}
	}

	var count int64
	err := s.db.Model(&models.Author{}).
		Where("LOWER(username) = LOWER(?) AND id != ?", *a.Username, a.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return &ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("Username %s is already taken.", *a.Username),
		}
	}
	return nil
}

// Create validates, derives the initial homepage state, persists, and
// publishes the account-created event.
func (s *AuthorService) Create(ctx context.Context, a *models.Author) error {
	if err := s.validateUsername(a); err != nil {
		return err
	}

	a.Secret = uuid.NewString()
	if err := s.AssignEmailVerificationToken(a); err != nil {
		return err
	}
	if err := s.engine.Recompute(a, false); err != nil {
		return err
	}
	if err := s.db.Create(a).Error; err != nil {
		return err
	}

	if err := s.events.AccountCreated(a.ID, deref(a.Email), deref(a.Username), a.Secret); err != nil {
		log.Printf("Warning: account created event failed for author %d: %v", a.ID, err)
	}
	return nil
}

func (s *AuthorService) Get(id uint) (*models.Author, error) {
	var a models.Author
	if err := s.db.Preload("Domain").First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Update validates and saves profile changes, re-deriving eligibility
// first: a bio or username edit can flip homepage placement.
func (s *AuthorService) Update(ctx context.Context, a *models.Author) error {
	if err := s.validateUsername(a); err != nil {
		return err
	}
	if err := s.engine.Recompute(a, false); err != nil {
		return err
	}
	return s.db.Save(a).Error
}

// Delete removes the author and every owned record, then publishes the
// account-deleted event.
func (s *AuthorService) Delete(ctx context.Context, a *models.Author) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, owned := range []interface{}{
			&models.Post{}, &models.Domain{}, &models.GuestbookEntry{},
			&models.Subscription{}, &models.Credential{},
		} {
			if err := tx.Where("author_id = ?", a.ID).Delete(owned).Error; err != nil {
				return err
			}
		}
		return tx.Delete(a).Error
	})
	if err != nil {
		return err
	}

	if err := s.events.AccountDeleted(a.ID, deref(a.Email), deref(a.Username), a.Secret); err != nil {
		log.Printf("Warning: account deleted event failed for author %d: %v", a.ID, err)
	}
	return nil
}

// RefreshDerived recomputes the cached word count and the homepage
// timestamp after a post mutation, persisting both.
func (s *AuthorService) RefreshDerived(a *models.Author) error {
	if _, err := s.content.UpdateWordCount(a); err != nil {
		return err
	}
	return s.engine.Recompute(a, true)
}

// MakeFeatured applies the editorial override: the author is placed on the
// homepage stamped with the current time, and the featured notification is
// queued best-effort when an email is on file.
func (s *AuthorService) MakeFeatured(ctx context.Context, a *models.Author) error {
	now := time.Now()
	a.Featured = true
	a.HomepageActivity = &now

	err := s.db.Model(a).Updates(map[string]interface{}{
		"featured":          true,
		"homepage_activity": now,
	}).Error
	if err != nil {
		return err
	}

	if a.Email != nil && s.notifier != nil {
		if err := s.notifier.EnqueueFeaturedEmail(a.ID); err != nil {
			log.Printf("Warning: failed to enqueue featured email for author %d: %v", a.ID, err)
		}
	}
	return nil
}

// ApproveDomain activates the author's pending domain and notifies them.
// The approval mail is awaited; a delivery failure is surfaced to the
// operator performing the approval.
func (s *AuthorService) ApproveDomain(ctx context.Context, a *models.Author) error {
	if a.Domain == nil {
		return errors.New("author has no domain to approve")
	}

	a.Domain.Active = true
	a.Domain.Approved = true
	if err := s.db.Save(a.Domain).Error; err != nil {
		return err
	}
	if err := s.engine.Recompute(a, true); err != nil {
		return err
	}

	return s.mail.DomainApproved(ctx, a)
}

// InvalidDomain notifies the domain's contact address of the rejection and
// removes the record.
func (s *AuthorService) InvalidDomain(ctx context.Context, a *models.Author) error {
	if a.Domain == nil {
		return errors.New("author has no domain to reject")
	}

	if err := s.mail.DomainInvalid(ctx, a.Domain.ExtendedEmail); err != nil {
		return err
	}
	if err := s.db.Delete(a.Domain).Error; err != nil {
		return err
	}
	a.Domain = nil
	return nil
}

// UpdateCSS stores the author's custom stylesheet and flips the custom
// theme flag.
func (s *AuthorService) UpdateCSS(ctx context.Context, a *models.Author, text *string) error {
	if text == nil || *text == "" {
		a.CSS = nil
	} else {
		a.CSS = text
	}
	a.CustomThemeEnabled = true
	return s.db.Save(a).Error
}

// FindAuthorFromPath resolves a request path with a leading @username
// segment to its author, case-insensitively. Paths without an @segment, or
// with an unknown username, resolve to nil.
func (s *AuthorService) FindAuthorFromPath(path string) (*models.Author, error) {
	username, ok := UsernameFromPath(path)
	if !ok {
		return nil, nil
	}

	var a models.Author
	err := s.db.Preload("Domain").
		Where("LOWER(username) = LOWER(?)", username).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// EmailUnreadGuestbookEntries sweeps every author with unread, non-spam
// guestbook entries: entries are marked read and one consolidated digest is
// sent per author. Authors without a verified email are skipped and their
// entries stay unread.
func (s *AuthorService) EmailUnreadGuestbookEntries(ctx context.Context) error {
	var authorIDs []uint
	err := s.db.Model(&models.GuestbookEntry{}).
		Where("unread = ? AND spam = ?", true, false).
		Distinct("author_id").
		Pluck("author_id", &authorIDs).Error
	if err != nil {
		return err
	}

	for _, id := range authorIDs {
		a, err := s.Get(id)
		if err != nil {
			log.Printf("Warning: guestbook sweep: load author %d: %v", id, err)
			continue
		}
		if !a.EmailVerified {
			continue
		}

		entries, err := s.content.UnreadGuestbookEntries(a)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			continue
		}

		entryIDs := make([]uint, 0, len(entries))
		for _, entry := range entries {
			entryIDs = append(entryIDs, entry.ID)
		}

		err = s.db.Model(&models.GuestbookEntry{}).
			Where("id IN ?", entryIDs).
			Update("unread", false).Error
		if err != nil {
			return err
		}

		if err := s.mail.UnreadGuestbookEntries(ctx, a, entryIDs); err != nil {
			log.Printf("Warning: guestbook digest mail failed for author %d: %v", a.ID, err)
		}
	}
	return nil
}

// AssignEmailVerificationToken generates a fresh 12-character alphanumeric
// token on the author.
func (s *AuthorService) AssignEmailVerificationToken(a *models.Author) error {
	const tokenLength = 12
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	token := make([]byte, tokenLength)
	for i := range token {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return err
		}
		token[i] = alphabet[n.Int64()]
	}
	a.EmailVerificationToken = string(token)
	return nil
}
