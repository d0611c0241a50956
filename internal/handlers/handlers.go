package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"listed/internal/database"
	"listed/internal/models"
	"listed/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AuthorHandler struct {
	authors  *services.AuthorService
	content  *services.ContentAggregator
	identity *services.IdentityResolver
}

func RegisterRoutes(e *echo.Group, authors *services.AuthorService, content *services.ContentAggregator, identity *services.IdentityResolver) {
	h := &AuthorHandler{authors: authors, content: content, identity: identity}

	e.POST("/authors", h.CreateAuthor)
	e.GET("/authors/:id", h.GetAuthor)
	e.PUT("/authors/:id", h.UpdateAuthor)
	e.DELETE("/authors/:id", h.DeleteAuthor)
	e.POST("/authors/:id/feature", h.FeatureAuthor)
	e.PUT("/authors/:id/css", h.UpdateCSS)
	e.GET("/authors/:id/profile", h.GetProfile)

	e.GET("/authors/:id/posts", h.ListPosts)
	e.GET("/authors/:id/pages", h.ListPages)
	e.POST("/authors/:id/posts", h.CreatePost)
	e.PUT("/posts/:id", h.UpdatePost)
	e.DELETE("/posts/:id", h.DeletePost)

	e.POST("/authors/:id/domain", h.SubmitDomain)
	e.POST("/authors/:id/domain/approve", h.ApproveDomain)
	e.POST("/authors/:id/domain/reject", h.RejectDomain)

	e.GET("/authors/:id/guestbook", h.ListPublicGuestbookEntries)
	e.GET("/authors/:id/guestbook/unread", h.ListUnreadGuestbookEntries)
	e.POST("/authors/:id/guestbook", h.CreateGuestbookEntry)
	e.GET("/authors/:id/subscriptions", h.ListVerifiedSubscriptions)

	e.GET("/resolve", h.ResolvePath)
}

func fail(c echo.Context, err error) error {
	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		return herr
	}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"field": verr.Field,
			"error": verr.Message,
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func (h *AuthorHandler) loadAuthor(c echo.Context) (*models.Author, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid author id")
	}
	return h.authors.Get(uint(id))
}

func (h *AuthorHandler) CreateAuthor(c echo.Context) error {
	var author models.Author
	if err := c.Bind(&author); err != nil {
		return err
	}

	if err := h.authors.Create(c.Request().Context(), &author); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *AuthorHandler) GetAuthor(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHandler) UpdateAuthor(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Username         *string `json:"username"`
		DisplayName      *string `json:"display_name"`
		Bio              *string `json:"bio"`
		Link             *string `json:"link"`
		HideFromHomepage *bool   `json:"hide_from_homepage"`
	}
	if err := c.Bind(&req); err != nil {
		return err
	}

	if req.Username != nil {
		author.Username = req.Username
	}
	if req.DisplayName != nil {
		author.DisplayName = req.DisplayName
	}
	if req.Bio != nil {
		author.Bio = req.Bio
	}
	if req.Link != nil {
		author.Link = req.Link
	}
	if req.HideFromHomepage != nil {
		author.HideFromHomepage = *req.HideFromHomepage
	}

	if err := h.authors.Update(c.Request().Context(), author); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHandler) DeleteAuthor(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.authors.Delete(c.Request().Context(), author); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthorHandler) FeatureAuthor(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.authors.MakeFeatured(c.Request().Context(), author); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *AuthorHandler) UpdateCSS(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		CSS *string `json:"css"`
	}
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := h.authors.UpdateCSS(c.Request().Context(), author, req.CSS); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, author)
}

// GetProfile exposes the identity query surface used by rendering layers.
func (h *AuthorHandler) GetProfile(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"title":            h.identity.Title(author),
		"handle":           h.identity.Handle(author),
		"url":              h.identity.URL(author),
		"rss_url":          h.identity.RSSURL(author),
		"meta_description": h.identity.MetaDescription(author),
		"accessible_via":   h.identity.AccessibleVia(author),
	})
}

func (h *AuthorHandler) ListPosts(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	posts, err := h.content.ListedPosts(author, nil, true)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *AuthorHandler) ListPages(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	pages, err := h.content.Pages(author)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, pages)
}

func (h *AuthorHandler) CreatePost(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	var post models.Post
	if err := c.Bind(&post); err != nil {
		return err
	}
	post.ID = 0
	post.AuthorID = author.ID

	if err := database.DB.Create(&post).Error; err != nil {
		return fail(c, err)
	}
	if err := h.authors.RefreshDerived(author); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

func (h *AuthorHandler) UpdatePost(c echo.Context) error {
	var post models.Post
	if err := database.DB.First(&post, c.Param("id")).Error; err != nil {
		return fail(c, err)
	}

	var req struct {
		Title      *string `json:"title"`
		Content    *string `json:"content"`
		Published  *bool   `json:"published"`
		Unlisted   *bool   `json:"unlisted"`
		AuthorShow *bool   `json:"author_show"`
		AuthorPage *bool   `json:"author_page"`
		PageSort   *int    `json:"page_sort"`
		WordCount  *int    `json:"word_count"`
	}
	if err := c.Bind(&req); err != nil {
		return err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	if req.Unlisted != nil {
		post.Unlisted = *req.Unlisted
	}
	if req.AuthorShow != nil {
		post.AuthorShow = *req.AuthorShow
	}
	if req.AuthorPage != nil {
		post.AuthorPage = *req.AuthorPage
	}
	if req.PageSort != nil {
		post.PageSort = *req.PageSort
	}
	if req.WordCount != nil {
		post.WordCount = *req.WordCount
	}

	if err := database.DB.Save(&post).Error; err != nil {
		return fail(c, err)
	}

	author, err := h.authors.Get(post.AuthorID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.authors.RefreshDerived(author); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

func (h *AuthorHandler) DeletePost(c echo.Context) error {
	var post models.Post
	if err := database.DB.First(&post, c.Param("id")).Error; err != nil {
		return fail(c, err)
	}
	if err := database.DB.Delete(&post).Error; err != nil {
		return fail(c, err)
	}

	author, err := h.authors.Get(post.AuthorID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.authors.RefreshDerived(author); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthorHandler) SubmitDomain(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Domain        string `json:"domain"`
		ExtendedEmail string `json:"extended_email"`
	}
	if err := c.Bind(&req); err != nil {
		return err
	}

	domain := models.Domain{
		AuthorID:      author.ID,
		Domain:        req.Domain,
		ExtendedEmail: req.ExtendedEmail,
	}
	if err := database.DB.Create(&domain).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, domain)
}

func (h *AuthorHandler) ApproveDomain(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.authors.ApproveDomain(c.Request().Context(), author); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, author.Domain)
}

func (h *AuthorHandler) RejectDomain(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.authors.InvalidDomain(c.Request().Context(), author); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthorHandler) ListPublicGuestbookEntries(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	entries, err := h.content.PublicGuestbookEntries(author)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *AuthorHandler) ListUnreadGuestbookEntries(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	entries, err := h.content.UnreadGuestbookEntries(author)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *AuthorHandler) CreateGuestbookEntry(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	var entry models.GuestbookEntry
	if err := c.Bind(&entry); err != nil {
		return err
	}
	entry.ID = 0
	entry.AuthorID = author.ID
	entry.Unread = true

	if err := database.DB.Create(&entry).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *AuthorHandler) ListVerifiedSubscriptions(c echo.Context) error {
	author, err := h.loadAuthor(c)
	if err != nil {
		return fail(c, err)
	}

	subs, err := h.content.VerifiedSubscriptions(author)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, subs)
}

// ResolvePath maps a public path like /@bob/posts/5 to its author.
func (h *AuthorHandler) ResolvePath(c echo.Context) error {
	path := c.QueryParam("path")
	author, err := h.authors.FindAuthorFromPath(path)
	if err != nil {
		return fail(c, err)
	}
	if author == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no author for path"})
	}
	return c.JSON(http.StatusOK, author)
}
