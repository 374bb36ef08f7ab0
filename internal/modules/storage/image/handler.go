package image

import (
	"github.com/gin-gonic/gin"
	"github.com/portal-berita/core/internal/pkg/response"
)

// Handler exposes orphan inspection and cleanup.
type Handler struct {
	sweeper *Sweeper
	store   Store
}

func NewHandler(sweeper *Sweeper, store Store) *Handler {
	return &Handler{sweeper: sweeper, store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/images", authMW)
	g.GET("/orphans", h.listOrphans)
	g.POST("/orphans/cleanup", h.cleanupOrphans)
}

type orphanItem struct {
	Path       string `json:"path"`
	URL        string `json:"url"`
	Size       int64  `json:"size"`
	ModifiedAt int64  `json:"modified_at"`
}

func (h *Handler) listOrphans(c *gin.Context) {
	orphans, _, err := h.sweeper.Orphans(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]orphanItem, 0, len(orphans))
	for _, obj := range orphans {
		items = append(items, orphanItem{
			Path:       obj.Path,
			URL:        h.store.URL(obj.Path),
			Size:       obj.Size,
			ModifiedAt: obj.ModifiedAt.UnixMilli(),
		})
	}
	response.OK(c, "Orphan images", items)
}

func (h *Handler) cleanupOrphans(c *gin.Context) {
	res, err := h.sweeper.Run(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, "Orphan images removed", res)
}
