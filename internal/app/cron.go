package app

import (
	"context"
	"fmt"

	"github.com/portal-berita/core/internal/config"
	"github.com/portal-berita/core/internal/modules/storage/image"
	pkgcron "github.com/portal-berita/core/internal/pkg/cron"
	"go.uber.org/zap"
)

const jobOrphanImages = "cleanup_orphan_images"

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, sweeper *image.Sweeper, cfg *config.AppConfig, logger *zap.Logger) error {
	cronLogger := logger.Named("CronService")

	return sched.Register(pkgcron.Job{
		Name:        jobOrphanImages,
		Description: "Remove stored images no article references",
		Spec:        cfg.OrphanSweep.Spec,
		Fn: func(ctx context.Context) error {
			res, err := sweeper.Run(ctx)
			if err != nil {
				cronLogger.Warn("orphan image sweep failed", zap.Error(err))
				return err
			}
			cronLogger.Info("orphan image sweep finished",
				zap.Int("scanned", res.Scanned),
				zap.Int("deleted", len(res.Deleted)),
				zap.Int("failed", len(res.Failed)),
			)
			if len(res.Failed) > 0 {
				return fmt.Errorf("%d images could not be removed", len(res.Failed))
			}
			return nil
		},
	})
}
