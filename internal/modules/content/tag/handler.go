package tag

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
	for _, prefix := range []string{"/tags", "/tag"} {
		tags := rg.Group(prefix, authMW)
		tags.GET("", h.list)
		tags.POST("", h.create)
		tags.GET("/:id", h.get)
		tags.PUT("/:id", h.update)
		tags.PATCH("/:id", h.update)
		tags.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	tags, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c))
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.Paged(c, "Tag list", tags, pag)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	tag, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "Tag detail", tag)
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if !params.JSON(c, &in) {
		return
	}
	tag, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.Created(c, "Tag created", tag)
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
	tag, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "Tag updated", tag)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	tag, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "Tag deleted", tag)
}
