package tag

import (
	"context"
	"errors"
	"strings"

	"github.com/portal-berita/core/internal/database"
	"github.com/portal-berita/core/internal/models"
	"github.com/portal-berita/core/internal/pkg/apperr"
	"github.com/portal-berita/core/internal/pkg/pagination"
	"github.com/portal-berita/core/internal/pkg/response"
	"github.com/portal-berita/core/internal/pkg/slug"
	"github.com/portal-berita/core/internal/pkg/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log.Named("TagService")}
}

func (s *Service) List(ctx context.Context, q *pagination.Query) ([]models.TagModel, *response.Pagination, error) {
	tags := make([]models.TagModel, 0)
	query := s.db.WithContext(ctx).Model(&models.TagModel{}).Order("created_at DESC, id DESC")
	pag, err := pagination.Find(query, q, &tags)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return tags, pag, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*models.TagModel, error) {
	var tag models.TagModel
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tag")
		}
		return nil, apperr.Internal(err)
	}
	return &tag, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*models.TagModel, error) {
	name, err := s.checkName(ctx, in.Name, 0)
	if err != nil {
		return nil, err
	}
	tag := models.TagModel{Name: name, Slug: slug.Make(name)}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, s.translate(err)
	}
	return &tag, nil
}

func (s *Service) Update(ctx context.Context, id uint64, in Input) (*models.TagModel, error) {
	tag, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := s.checkName(ctx, in.Name, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"name": name, "slug": slug.Make(name)}
	if err := s.db.WithContext(ctx).Model(tag).Updates(updates).Error; err != nil {
		return nil, s.translate(err)
	}
	return s.Get(ctx, id)
}

// Delete removes the tag together with its article associations. The
// articles themselves are kept.
func (s *Service) Delete(ctx context.Context, id uint64) (*models.TagModel, error) {
	tag, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.ArticleTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TagModel{}, id).Error
	})
	if err != nil {
		s.log.Error("delete tag failed", zap.Uint64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return tag, nil
}

func (s *Service) checkName(ctx context.Context, raw string, excludeID uint64) (string, error) {
	name := strings.TrimSpace(raw)
	if fields := validate.Struct(Input{Name: name}); len(fields) > 0 {
		return "", apperr.Validation(fields)
	}
	if slug.Make(name) == "" {
		return "", apperr.Invalid("name", msgNameNoSlug)
	}
	taken, err := database.Taken(ctx, s.db, &models.TagModel{}, "name", name, excludeID)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if taken {
		return "", apperr.Invalid("name", msgNameTaken)
	}
	return name, nil
}

func (s *Service) translate(err error) error {
	if database.DuplicateKey(err, "idx_tags_name") || database.DuplicateKey(err, "idx_tags_slug") {
		return apperr.Invalid("name", msgNameTaken)
	}
	s.log.Error("tag write failed", zap.Error(err))
	return apperr.Internal(err)
}
