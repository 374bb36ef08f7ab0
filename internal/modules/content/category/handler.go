package category

import (
	"github.com/gin-gonic/gin"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	for _, prefix := range []string{"/categories", "/kategori"} {
		cats := rg.Group(prefix, authMW)
		cats.GET("", h.list)
		cats.POST("", h.create)
		cats.GET("/:id", h.get)
		cats.PUT("/:id", h.update)
		cats.PATCH("/:id", h.update)
		cats.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	cats, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c))
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.Paged(c, "Category list", cats, pag)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	cat, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "Category detail", cat)
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if !params.JSON(c, &in) {
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.Created(c, "Category created", cat)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	var in Input
	if !params.JSON(c, &in) {
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "Category updated", cat)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	cat, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "Category deleted", cat)
}
