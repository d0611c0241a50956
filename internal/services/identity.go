package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"listed/internal/models"
)

const defaultMetaDescription = "Via Standard Notes."

var (
	pathUsernamePattern = regexp.MustCompile(`@([^/]+)`)
	newlineRunPattern   = regexp.MustCompile(`\n\s+`)
)

// IdentityResolver computes the author-facing identifiers: display title,
// handle, canonical address (custom domain vs. platform path), RSS address
// and meta description. All methods are pure reads over the author and its
// preloaded domain.
type IdentityResolver struct {
	host string
}

// NewIdentityResolver takes the platform host (scheme included, e.g.
// "https://listed.to") used when an author has no active custom domain.
func NewIdentityResolver(host string) *IdentityResolver {
	return &IdentityResolver{host: host}
}

// Title returns the display name, falling back to the username, falling
// back to the stringified id.
func (r *IdentityResolver) Title(a *models.Author) string {
	if a.DisplayName != nil && *a.DisplayName != "" {
		return *a.DisplayName
	}
	if a.UsernamePresent() {
		return *a.Username
	}
	return strconv.FormatUint(uint64(a.ID), 10)
}

func (r *IdentityResolver) Handle(a *models.Author) string {
	return "@" + deref(a.Username)
}

// URLSegment is the platform-hosted path component for the author.
func (r *IdentityResolver) URLSegment(a *models.Author) string {
	if a.UsernamePresent() {
		return "@" + *a.Username
	}
	return fmt.Sprintf("authors/%d", a.ID)
}

// URL resolves the canonical address. An active custom domain is returned
// verbatim when it carries a port (local/dev setups), otherwise prefixed
// with https. Without a custom domain the platform host and URL segment are
// joined.
func (r *IdentityResolver) URL(a *models.Author) string {
	if a.HasCustomDomain() {
		host := a.CustomDomainHost()
		if strings.Contains(host, ":") {
			return host
		}
		return "https://" + host
	}
	return r.host + "/" + r.URLSegment(a)
}

func (r *IdentityResolver) RSSURL(a *models.Author) string {
	return r.URL(a) + "/feed"
}

// Host returns the base address used for author-scoped links such as the
// email verification link.
func (r *IdentityResolver) Host(a *models.Author) string {
	if a.HasCustomDomain() {
		return "https://" + a.CustomDomainHost()
	}
	return r.host
}

// AccessibleVia lists every address the author's content is reachable at.
func (r *IdentityResolver) AccessibleVia(a *models.Author) []string {
	return []string{r.URL(a)}
}

func (r *IdentityResolver) EmailVerificationLink(a *models.Author) string {
	return fmt.Sprintf("%s/authors/%d/verify_email?secret=%s&t=%s",
		r.host, a.ID, a.Secret, a.EmailVerificationToken)
}

// NormalizedBio collapses newline-plus-whitespace runs into single spaces so
// the bio can be used as a one-line description. Nil bio stays nil.
func (r *IdentityResolver) NormalizedBio(a *models.Author) *string {
	if a.Bio == nil {
		return nil
	}
	normalized := newlineRunPattern.ReplaceAllString(*a.Bio, " ")
	return &normalized
}

func (r *IdentityResolver) MetaDescription(a *models.Author) string {
	if bio := r.NormalizedBio(a); bio != nil {
		return *bio
	}
	return defaultMetaDescription
}

func (r *IdentityResolver) NormalizedPersonalLink(a *models.Author) *string {
	return NormalizedPersonalLink(a)
}

// NormalizedPersonalLink returns nil for an absent link, the raw link when
// it already carries an http(s) scheme, and an http://-prefixed copy
// otherwise.
func NormalizedPersonalLink(a *models.Author) *string {
	if a.Link == nil || *a.Link == "" {
		return nil
	}
	if strings.Contains(*a.Link, "http") {
		return a.Link
	}
	normalized := "http://" + *a.Link
	return &normalized
}

// UsernameFromPath extracts the username from a leading @segment in a
// request path, e.g. "/@bob/posts/5" -> ("bob", true). Paths without an
// @segment report false.
func UsernameFromPath(path string) (string, bool) {
	match := pathUsernamePattern.FindStringSubmatch(path)
	if match == nil {
		return "", false
	}
	return match[1], true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
