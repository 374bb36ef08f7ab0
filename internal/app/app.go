package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/portal-berita/core/internal/config"
	"github.com/portal-berita/core/internal/database"
	"github.com/portal-berita/core/internal/middleware"
	"github.com/portal-berita/core/internal/modules/storage/image"
	pkgcron "github.com/portal-berita/core/internal/pkg/cron"
	pkgredis "github.com/portal-berita/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	db      *gorm.DB
	rdb     *pkgredis.Client
	store   image.Store
	sweeper *image.Sweeper
	logger  *zap.Logger
	cancel  context.CancelFunc
	sched   *pkgcron.Scheduler
}

// New initializes the application: config → DB → Redis → image store → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rdb, err := pkgredis.Connect(context.Background(), cfg.RedisURL)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("redis: %w", err)
	}

	store, err := newImageStore(cfg)
	if err != nil {
		_ = database.Close(db)
		_ = rdb.Close()
		return nil, fmt.Errorf("image store: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := build(cfg, logger, db, rdb, store)
	if err != nil {
		_ = database.Close(db)
		_ = rdb.Close()
		return nil, err
	}
	return a, nil
}

// build assembles router, scheduler and routes around ready connections.
func build(cfg *config.AppConfig, logger *zap.Logger, db *gorm.DB, rdb *pkgredis.Client, store image.Store) (*App, error) {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:     cfg,
		router:  router,
		db:      db,
		rdb:     rdb,
		store:   store,
		sweeper: image.NewSweeper(db, store, cfg.OrphanMinAge(), logger),
		logger:  logger,
		cancel:  cancel,
		sched:   pkgcron.New(),
	}
	if err := registerCronJobs(a.sched, a.sweeper, cfg, logger); err != nil {
		cancel()
		return nil, err
	}
	a.sched.Start(ctx)
	a.registerRoutes()
	return a, nil
}

func newImageStore(cfg *config.AppConfig) (image.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageS3:
		return image.NewS3Store(cfg.Storage.S3)
	default:
		return image.NewLocalStore(cfg.StaticDir(), staticURLPrefix)
	}
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops the scheduler and releases connections.
func (a *App) Shutdown() {
	a.cancel()
	a.sched.Stop()
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}

func (a *App) uptime() time.Duration {
	return time.Since(processStart)
}

var processStart = time.Now()
