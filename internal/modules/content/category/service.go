package category

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
	return &Service{db: db, log: log.Named("CategoryService")}
}

func (s *Service) List(ctx context.Context, q *pagination.Query) ([]models.CategoryModel, *response.Pagination, error) {
	cats := make([]models.CategoryModel, 0)
	query := s.db.WithContext(ctx).Model(&models.CategoryModel{}).Order("created_at DESC, id DESC")
	pag, err := pagination.Find(query, q, &cats)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return cats, pag, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category")
		}
		return nil, apperr.Internal(err)
	}
	return &cat, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*models.CategoryModel, error) {
	name, err := s.checkName(ctx, in.Name, 0)
	if err != nil {
		return nil, err
	}
	cat := models.CategoryModel{Name: name, Slug: slug.Make(name)}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, s.translate(err)
	}
	return &cat, nil
}

// Update renames the category. The slug follows the new name.
func (s *Service) Update(ctx context.Context, id uint64, in Input) (*models.CategoryModel, error) {
	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := s.checkName(ctx, in.Name, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"name": name, "slug": slug.Make(name)}
	if err := s.db.WithContext(ctx).Model(cat).Updates(updates).Error; err != nil {
		return nil, s.translate(err)
	}
	return s.Get(ctx, id)
}

// Delete removes an unused category and returns it. Categories that
// articles still point at are refused with a Conflict.
func (s *Service) Delete(ctx context.Context, id uint64) (*models.CategoryModel, error) {
	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&models.ArticleModel{}).Where("category_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return apperr.Conflict(msgInUse)
		}
		return tx.Delete(&models.CategoryModel{}, id).Error
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		if database.StillReferenced(err) {
			return nil, apperr.Conflict(msgInUse)
		}
		s.log.Error("delete category failed", zap.Uint64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return cat, nil
}

func (s *Service) checkName(ctx context.Context, raw string, excludeID uint64) (string, error) {
	name := strings.TrimSpace(raw)
	if fields := validate.Struct(Input{Name: name}); len(fields) > 0 {
		return "", apperr.Validation(fields)
	}
	if slug.Make(name) == "" {
		return "", apperr.Invalid("name", msgNameNoSlug)
	}
	taken, err := database.Taken(ctx, s.db, &models.CategoryModel{}, "name", name, excludeID)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if taken {
		return "", apperr.Invalid("name", msgNameTaken)
	}
	return name, nil
}

func (s *Service) translate(err error) error {
	// two names can share a slug ("Go Lang" / "go-lang")
	if database.DuplicateKey(err, "idx_categories_name") || database.DuplicateKey(err, "idx_categories_slug") {
		return apperr.Invalid("name", msgNameTaken)
	}
	s.log.Error("category write failed", zap.Error(err))
	return apperr.Internal(err)
}
