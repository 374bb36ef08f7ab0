package app

import (
	"github.com/gin-gonic/gin"
	"github.com/portal-berita/core/internal/config"
	"github.com/portal-berita/core/internal/middleware"
	"github.com/portal-berita/core/internal/modules/auth/auth"
	"github.com/portal-berita/core/internal/modules/auth/user"
	"github.com/portal-berita/core/internal/modules/content/article"
	"github.com/portal-berita/core/internal/modules/content/category"
	"github.com/portal-berita/core/internal/modules/content/tag"
	"github.com/portal-berita/core/internal/modules/storage/image"
	"github.com/portal-berita/core/internal/modules/tasks/crontask"
	"github.com/portal-berita/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	cfg := a.cfg
	logger := a.logger
	authMW := middleware.Auth(a.db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	if cfg.Storage.Driver == config.StorageLocal {
		r.Static(staticURLPrefix, cfg.StaticDir())
	}

	ping := func(c *gin.Context) {
		response.OK(c, "pong", gin.H{
			"env":    cfg.Env,
			"uptime": humanizeDuration(a.uptime()),
		})
	}
	r.GET("/ping", ping)

	api := r.Group("/api")
	if a.rdb != nil {
		api.Use(middleware.RateLimit(a.rdb, cfg.RateLimit.Max, cfg.RateLimitWindow(), logger))
		api.Use(middleware.Idempotence(a.rdb))
	}
	api.GET("/ping", ping)

	users := user.NewService(a.db, user.WithLogger(logger))
	user.NewHandler(users).RegisterRoutes(api, authMW)
	auth.NewHandler(auth.NewService(users, cfg.TokenTTL(), logger)).RegisterRoutes(api, authMW)

	category.NewHandler(category.NewService(a.db, logger)).RegisterRoutes(api, authMW)
	tag.NewHandler(tag.NewService(a.db, logger)).RegisterRoutes(api, authMW)

	articles := article.NewService(a.db, a.store,
		article.WithLogger(logger),
		article.WithMaxImageBytes(cfg.MaxImageBytes()),
	)
	article.NewHandler(articles).RegisterRoutes(api, authMW)

	image.NewHandler(a.sweeper, a.store).RegisterRoutes(api, authMW)
	crontask.NewHandler(a.sched).RegisterRoutes(api, authMW)
}
