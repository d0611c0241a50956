package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"listed/internal/mailer"
	"listed/internal/models"
	"listed/internal/services"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// FeaturedEmailHandler delivers the featured notification enqueued when an
// editor features an author.
type FeaturedEmailHandler struct {
	db   *gorm.DB
	mail mailer.Mailer
}

func NewFeaturedEmailHandler(db *gorm.DB, mail mailer.Mailer) *FeaturedEmailHandler {
	return &FeaturedEmailHandler{db: db, mail: mail}
}

func (h *FeaturedEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload FeaturedEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	var a models.Author
	if err := h.db.Preload("Domain").First(&a, payload.AuthorID).Error; err != nil {
		return fmt.Errorf("load author %d: %w", payload.AuthorID, err)
	}
	if a.Email == nil {
		// Email removed between enqueue and delivery; nothing to send.
		return nil
	}
	return h.mail.Featured(ctx, &a)
}

// GuestbookDigestHandler runs the scheduled unread guestbook sweep.
type GuestbookDigestHandler struct {
	authors *services.AuthorService
}

func NewGuestbookDigestHandler(authors *services.AuthorService) *GuestbookDigestHandler {
	return &GuestbookDigestHandler{authors: authors}
}

func (h *GuestbookDigestHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	return h.authors.EmailUnreadGuestbookEntries(ctx)
}
