package article

import (
	"github.com/portal-berita/core/internal/models"
	"github.com/portal-berita/core/internal/modules/processing/markdown"
	"github.com/portal-berita/core/internal/modules/storage/image"
	"github.com/portal-berita/core/internal/pkg/apperr"
)

// CreateInput is a new article. Every field is required.
type CreateInput struct {
	Title      string        `json:"title"       validate:"required,max=191"`
	Body       string        `json:"body"        validate:"required"`
	Image      *image.Upload `json:"-"`
	CategoryID uint64        `json:"category_id" validate:"required"`
	AuthorID   uint64        `json:"author_id"   validate:"required"`
	TagIDs     []uint64      `json:"tag_ids"`

	// FormErrors carries values the transport could not parse, reported
	// together with the store's own checks.
	FormErrors apperr.Fields `json:"-"`
}

// UpdateInput rewrites an article. A nil Image keeps the stored one and a
// nil TagIDs leaves the associations untouched.
type UpdateInput struct {
	Title      string        `json:"title"       validate:"required,max=191"`
	Body       string        `json:"body"        validate:"required"`
	Image      *image.Upload `json:"-"`
	CategoryID uint64        `json:"category_id" validate:"required"`
	AuthorID   uint64        `json:"author_id"   validate:"required"`
	TagIDs     []uint64      `json:"tag_ids"`

	FormErrors apperr.Fields `json:"-"`
}

const (
	msgNotFound       = "Article not found"
	msgTitleTaken     = "title has already been taken"
	msgTitleNoSlug    = "title must contain at least one letter or number"
	msgTagsRequired   = "tag_ids is required"
	msgTagsEmpty      = "tag_ids must contain at least one tag"
	msgInvalidRefTmpl = "selected %s is invalid"
	msgStaleRef       = "a referenced category, author or tag no longer exists"
)

// articleResponse adds the derived presentation fields to a stored article.
type articleResponse struct {
	*models.ArticleModel
	ImageURL string `json:"image_url"`
	BodyHTML string `json:"body_html,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
}

const excerptRunes = 200

func toResponse(a *models.ArticleModel, store image.Store, detail bool) articleResponse {
	if a.Tags == nil {
		a.Tags = []models.TagModel{}
	}
	resp := articleResponse{ArticleModel: a, ImageURL: store.URL(a.Image)}
	if detail {
		// a body goldmark cannot render is still returned raw
		resp.BodyHTML, _ = markdown.Render(a.Body)
	} else {
		resp.Excerpt = markdown.Excerpt(a.Body, excerptRunes)
	}
	return resp
}

func toResponses(arts []models.ArticleModel, store image.Store) []articleResponse {
	out := make([]articleResponse, 0, len(arts))
	for i := range arts {
		out = append(out, toResponse(&arts[i], store, false))
	}
	return out
}
