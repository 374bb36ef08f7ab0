package crontask

import (
	"github.com/gin-gonic/gin"
	pkgcron "github.com/portal-berita/core/internal/pkg/cron"
	"github.com/portal-berita/core/internal/pkg/response"
)

const msgNotFound = "Cron job not found"

// Handler wraps the scheduler for HTTP access.
type Handler struct {
	sched *pkgcron.Scheduler
}

func NewHandler(sched *pkgcron.Scheduler) *Handler {
	return &Handler{sched: sched}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/cron", authMW)
	g.GET("", h.list)
	g.GET("/:name", h.get)
	g.POST("/:name/run", h.run)
}

// GET /cron
func (h *Handler) list(c *gin.Context) {
	response.OK(c, "Cron job list", h.sched.List())
}

// GET /cron/:name
func (h *Handler) get(c *gin.Context) {
	result, err := h.sched.GetTask(c.Param("name"))
	if err != nil {
		response.NotFound(c, msgNotFound)
		return
	}
	response.OK(c, "Cron job status", result)
}

// POST /cron/:name/run?wait=1 runs the job and waits for it; otherwise the
// job is started in the background.
func (h *Handler) run(c *gin.Context) {
	name := c.Param("name")
	if c.Query("wait") != "" {
		result, err := h.sched.RunSync(c.Request.Context(), name)
		if err != nil {
			response.NotFound(c, msgNotFound)
			return
		}
		response.OK(c, "Cron job finished", result)
		return
	}
	if err := h.sched.Run(c.Request.Context(), name); err != nil {
		response.NotFound(c, msgNotFound)
		return
	}
	response.OK(c, "Cron job triggered", nil)
}
