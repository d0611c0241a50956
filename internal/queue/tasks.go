package queue

// Task type names, namespaced the way asynq examples do.
const (
	TypeFeaturedEmail   = "authors:featured_email"
	TypeGuestbookDigest = "authors:guestbook_digest"
)

type FeaturedEmailPayload struct {
	AuthorID uint `json:"author_id"`
}

type GuestbookDigestPayload struct{}
