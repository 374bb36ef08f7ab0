package user

import (
	"github.com/gin-gonic/gin"
	"github.com/portal-berita/core/internal/pkg/pagination"
	"github.com/portal-berita/core/internal/pkg/params"
	"github.com/portal-berita/core/internal/pkg/response"
)

const msgNotFound = "User not found"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers routes under /users and /user.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	for _, prefix := range []string{"/users", "/user"} {
		g := rg.Group(prefix, authMW)
		g.GET("", h.list)
		g.POST("", h.create)
		g.GET("/:id", h.get)
		g.PUT("/:id", h.update)
		g.PATCH("/:id", h.update)
		g.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	users, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c))
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.Paged(c, "User list", users, pag)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "User detail", u)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if !params.JSON(c, &in) {
		return
	}
	u, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.Created(c, "User created", u)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	var in UpdateInput
	if !params.JSON(c, &in) {
		return
	}
	u, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "User updated", u)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		response.NotFound(c, msgNotFound)
		return
	}
	u, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, msgNotFound)
		return
	}
	response.OK(c, "User deleted", u)
}
