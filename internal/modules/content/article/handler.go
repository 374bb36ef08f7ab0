package article

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portal-berita/core/internal/modules/storage/image"
	"github.com/portal-berita/core/internal/pkg/apperr"
	"github.com/portal-berita/core/internal/pkg/pagination"
	"github.com/portal-berita/core/internal/pkg/params"
	"github.com/portal-berita/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the article routes under /articles and /berita.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	for _, prefix := range []string{"/articles", "/berita"} {
		arts := rg.Group(prefix, authMW)
		arts.GET("", h.list)
		arts.POST("", h.create)
		arts.GET("/:id", h.get)
		arts.PUT("/:id", h.update)
		arts.PATCH("/:id", h.update)
		arts.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	arts, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c))
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.Paged(c, "Article list", toResponses(arts, h.svc.Store()), pag)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	a, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "Article detail", toResponse(a, h.svc.Store(), true))
}

func (h *Handler) create(c *gin.Context) {
	f, err := h.readForm(c)
	if err != nil {
		response.BadRequest(c, "Malformed multipart body")
		return
	}
	a, err := h.svc.Create(c.Request.Context(), CreateInput{
		Title:      f.title,
		Body:       f.body,
		Image:      f.image,
		CategoryID: f.categoryID,
		AuthorID:   f.authorID,
		TagIDs:     f.tagIDs,
		FormErrors: f.problems,
	})
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.Created(c, "Article created", toResponse(a, h.svc.Store(), true))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	f, err := h.readForm(c)
	if err != nil {
		response.BadRequest(c, "Malformed multipart body")
		return
	}
	a, err := h.svc.Update(c.Request.Context(), id, UpdateInput{
		Title:      f.title,
		Body:       f.body,
		Image:      f.image,
		CategoryID: f.categoryID,
		AuthorID:   f.authorID,
		TagIDs:     f.tagIDs,
		FormErrors: f.problems,
	})
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "Article updated", toResponse(a, h.svc.Store(), true))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	a, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "Article deleted", toResponse(a, h.svc.Store(), false))
}

// multipartMemory matches gin's default in-memory limit for form parts.
const multipartMemory = 32 << 20

type form struct {
	title      string
	body       string
	image      *image.Upload
	categoryID uint64
	authorID   uint64
	// nil when the client sent no tag_ids at all
	tagIDs   []uint64
	problems apperr.Fields
}

// readForm collects the multipart (or urlencoded) article fields. Values
// that do not parse become field problems instead of failing the request.
func (h *Handler) readForm(c *gin.Context) (*form, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
	}
	f := &form{
		title:    c.PostForm("title"),
		body:     c.PostForm("body"),
		problems: apperr.Fields{},
	}

	for _, ref := range []struct {
		key string
		dst *uint64
	}{
		{"category_id", &f.categoryID},
		{"author_id", &f.authorID},
	} {
		id, present, ok := params.Uint(c, ref.key)
		if present && !ok {
			f.problems.Add(ref.key, fmt.Sprintf("%s must be an integer", ref.key))
			continue
		}
		*ref.dst = id
	}

	ids, present, invalid := params.IDs(c, "tag_ids")
	if present {
		f.tagIDs = ids
	}
	if len(invalid) > 0 {
		f.problems.Add("tag_ids", "tag_ids must be a list of integers")
	}

	fh, err := c.FormFile(image.Field)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return nil, err
	default:
		up, err := image.FromFileHeader(fh, h.svc.maxBytes)
		if err != nil {
			return nil, err
		}
		f.image = up
	}
	return f, nil
}
