package image

import (
	"context"
	"time"

	"github.com/portal-berita/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultMinAge = time.Hour
	lookupChunk   = 500
)

// SweepResult summarizes one orphan sweep.
type SweepResult struct {
	Scanned int      `json:"scanned"`
	Deleted []string `json:"deleted"`
	Failed  []string `json:"failed,omitempty"`
}

// Sweeper removes stored images that no article references. Images younger
// than minAge are left alone so an article still being written keeps its
// file.
type Sweeper struct {
	db     *gorm.DB
	store  Store
	minAge time.Duration
	log    *zap.Logger
	now    func() time.Time
}

func NewSweeper(db *gorm.DB, store Store, minAge time.Duration, log *zap.Logger) *Sweeper {
	if minAge <= 0 {
		minAge = DefaultMinAge
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{db: db, store: store, minAge: minAge, log: log.Named("ImageSweeper"), now: time.Now}
}

// Orphans lists unreferenced images old enough to be removed.
func (s *Sweeper) Orphans(ctx context.Context) ([]Object, int, error) {
	objects, err := s.store.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	cutoff := s.now().Add(-s.minAge)
	candidates := make([]Object, 0, len(objects))
	for _, obj := range objects {
		if obj.ModifiedAt.Before(cutoff) {
			candidates = append(candidates, obj)
		}
	}

	referenced := make(map[string]struct{}, len(candidates))
	for start := 0; start < len(candidates); start += lookupChunk {
		end := min(start+lookupChunk, len(candidates))
		paths := make([]string, 0, end-start)
		for _, obj := range candidates[start:end] {
			paths = append(paths, obj.Path)
		}
		var used []string
		if err := s.db.WithContext(ctx).Model(&models.ArticleModel{}).
			Where("image IN ?", paths).Pluck("image", &used).Error; err != nil {
			return nil, 0, err
		}
		for _, p := range used {
			referenced[p] = struct{}{}
		}
	}

	orphans := make([]Object, 0)
	for _, obj := range candidates {
		if _, ok := referenced[obj.Path]; !ok {
			orphans = append(orphans, obj)
		}
	}
	return orphans, len(objects), nil
}

// Run deletes every orphan. Individual delete failures are reported in the
// result and do not stop the sweep.
func (s *Sweeper) Run(ctx context.Context) (*SweepResult, error) {
	orphans, scanned, err := s.Orphans(ctx)
	if err != nil {
		s.log.Error("orphan scan failed", zap.Error(err))
		return nil, err
	}
	res := &SweepResult{Scanned: scanned, Deleted: make([]string, 0, len(orphans))}
	for _, obj := range orphans {
		if err := s.store.Delete(ctx, obj.Path); err != nil {
			s.log.Warn("orphan delete failed", zap.String("path", obj.Path), zap.Error(err))
			res.Failed = append(res.Failed, obj.Path)
			continue
		}
		res.Deleted = append(res.Deleted, obj.Path)
	}
	s.log.Info("orphan sweep finished",
		zap.Int("scanned", res.Scanned),
		zap.Int("deleted", len(res.Deleted)),
		zap.Int("failed", len(res.Failed)),
	)
	return res, nil
}
