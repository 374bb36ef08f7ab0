package article

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/portal-berita/core/internal/database"
	"github.com/portal-berita/core/internal/models"
	"github.com/portal-berita/core/internal/modules/storage/image"
	"github.com/portal-berita/core/internal/pkg/apperr"
	"github.com/portal-berita/core/internal/pkg/pagination"
	"github.com/portal-berita/core/internal/pkg/response"
	"github.com/portal-berita/core/internal/pkg/slug"
	"github.com/portal-berita/core/internal/pkg/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const newestFirst = "created_at DESC, id DESC"

// Service is the article store. Row writes of one operation share a
// transaction; the image file is written before it and removed again if the
// transaction fails.
type Service struct {
	db       *gorm.DB
	store    image.Store
	maxBytes int64
	log      *zap.Logger
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log.Named("ArticleService") }
}

// WithMaxImageBytes overrides the upload size limit.
func WithMaxImageBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

func NewService(db *gorm.DB, store image.Store, opts ...Option) *Service {
	s := &Service{db: db, store: store, maxBytes: image.DefaultMaxBytes, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the image store articles are saved to.
func (s *Service) Store() image.Store { return s.store }

func (s *Service) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tags.id ASC") })
}

// List returns articles newest first, each with its category, author and
// tags.
func (s *Service) List(ctx context.Context, q *pagination.Query) ([]models.ArticleModel, *response.Pagination, error) {
	var page []models.ArticleModel
	query := s.db.WithContext(ctx).Model(&models.ArticleModel{}).Select("id").Order(newestFirst)
	pag, err := pagination.Find(query, q, &page)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}

	arts := make([]models.ArticleModel, 0, len(page))
	if len(page) == 0 {
		return arts, pag, nil
	}
	ids := make([]uint64, 0, len(page))
	for _, a := range page {
		ids = append(ids, a.ID)
	}
	if err := s.withRelations(ctx).Where("id IN ?", ids).Order(newestFirst).Find(&arts).Error; err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return arts, pag, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*models.ArticleModel, error) {
	var a models.ArticleModel
	if err := s.withRelations(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("article")
		}
		return nil, apperr.Internal(err)
	}
	return &a, nil
}

// Create stores the image, then inserts the article and its tag pairs in one
// transaction. The slug is derived from the title here and never again.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.ArticleModel, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.TagIDs = uniqueIDs(in.TagIDs)

	fields := checkShape(in, in.FormErrors)
	if !fields.Has("tag_ids") && len(in.TagIDs) == 0 {
		fields.Add("tag_ids", msgTagsRequired)
	}
	if ae := image.Validate(in.Image, s.maxBytes); ae != nil {
		fields.Merge(ae.Fields)
	}
	articleSlug := slug.Make(in.Title)
	if err := s.checkRefs(ctx, fields, in.Title, articleSlug, in.CategoryID, in.AuthorID, in.TagIDs, 0); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	path, err := s.store.Put(ctx, in.Image)
	if err != nil {
		s.log.Error("store image failed", zap.Error(err))
		return nil, apperr.Storage(err)
	}

	a := models.ArticleModel{
		Title:      in.Title,
		Slug:       articleSlug,
		Body:       in.Body,
		Image:      path,
		CategoryID: in.CategoryID,
		AuthorID:   in.AuthorID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&a).Error; err != nil {
			return err
		}
		return AttachTags(tx, a.ID, in.TagIDs)
	})
	if err != nil {
		s.discard(ctx, path)
		return nil, s.translate(err)
	}
	return s.Get(ctx, a.ID)
}

// Update rewrites the article. The slug is kept so published URLs stay
// valid. A replaced image is removed once the new row is committed.
func (s *Service) Update(ctx context.Context, id uint64, in UpdateInput) (*models.ArticleModel, error) {
	var current models.ArticleModel
	if err := s.db.WithContext(ctx).First(&current, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("article")
		}
		return nil, apperr.Internal(err)
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.TagIDs != nil {
		in.TagIDs = uniqueIDs(in.TagIDs)
	}

	fields := checkShape(in, in.FormErrors)
	if !fields.Has("tag_ids") && in.TagIDs != nil && len(in.TagIDs) == 0 {
		fields.Add("tag_ids", msgTagsEmpty)
	}
	if in.Image != nil {
		if ae := image.Validate(in.Image, s.maxBytes); ae != nil {
			fields.Merge(ae.Fields)
		}
	}
	if err := s.checkRefs(ctx, fields, in.Title, "", in.CategoryID, in.AuthorID, in.TagIDs, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	oldImage := current.Image
	var newPath string
	if in.Image != nil {
		p, err := s.store.Put(ctx, in.Image)
		if err != nil {
			s.log.Error("store image failed", zap.Uint64("article", id), zap.Error(err))
			return nil, apperr.Storage(err)
		}
		newPath = p
	}

	updates := map[string]interface{}{
		"title":       in.Title,
		"body":        in.Body,
		"category_id": in.CategoryID,
		"author_id":   in.AuthorID,
	}
	if newPath != "" {
		updates["image"] = newPath
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&current).Updates(updates).Error; err != nil {
			return err
		}
		if in.TagIDs != nil {
			return SyncTags(tx, id, in.TagIDs)
		}
		return nil
	})
	if err != nil {
		if newPath != "" {
			s.discard(ctx, newPath)
		}
		return nil, s.translate(err)
	}
	if newPath != "" && oldImage != "" && oldImage != newPath {
		s.discard(ctx, oldImage)
	}
	return s.Get(ctx, id)
}

// Delete removes the article and its tag pairs, then its image file. The
// deleted record is returned as it was.
func (s *Service) Delete(ctx context.Context, id uint64) (*models.ArticleModel, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := DetachTags(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.ArticleModel{}, id).Error
	})
	if err != nil {
		s.log.Error("delete article failed", zap.Uint64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if a.Image != "" {
		s.discard(ctx, a.Image)
	}
	return a, nil
}

// checkShape validates in, letting form parse errors win over validator
// messages for the same key. A field sent as "abc" is left zero by the form
// layer and would otherwise also be reported as missing.
func checkShape(in interface{}, form apperr.Fields) apperr.Fields {
	fields := apperr.Fields{}
	fields.Merge(form)
	for key, msgs := range validate.Struct(in) {
		if !fields.Has(key) {
			fields[key] = msgs
		}
	}
	return fields
}

// checkRefs adds uniqueness and reference failures to fields. Fields that
// already failed shape validation are not queried. An empty newSlug skips
// the slug check.
func (s *Service) checkRefs(ctx context.Context, fields apperr.Fields, title, newSlug string, categoryID, authorID uint64, tagIDs []uint64, excludeID uint64) error {
	if !fields.Has("title") {
		taken, err := database.Taken(ctx, s.db, &models.ArticleModel{}, "title", title, excludeID)
		if err != nil {
			return apperr.Internal(err)
		}
		switch {
		case taken:
			fields.Add("title", msgTitleTaken)
		case excludeID == 0 && newSlug == "":
			fields.Add("title", msgTitleNoSlug)
		case excludeID == 0:
			taken, err := database.Taken(ctx, s.db, &models.ArticleModel{}, "slug", newSlug, 0)
			if err != nil {
				return apperr.Internal(err)
			}
			if taken {
				fields.Add("title", msgTitleTaken)
			}
		}
	}
	refs := []struct {
		field string
		model interface{}
		id    uint64
	}{
		{"category_id", &models.CategoryModel{}, categoryID},
		{"author_id", &models.UserModel{}, authorID},
	}
	for _, ref := range refs {
		if fields.Has(ref.field) || ref.id == 0 {
			continue
		}
		ok, err := database.Exists(ctx, s.db, ref.model, ref.id)
		if err != nil {
			return apperr.Internal(err)
		}
		if !ok {
			fields.Add(ref.field, fmt.Sprintf(msgInvalidRefTmpl, ref.field))
		}
	}
	if !fields.Has("tag_ids") && len(tagIDs) > 0 {
		missing, err := database.MissingIDs(ctx, s.db, &models.TagModel{}, tagIDs)
		if err != nil {
			return apperr.Internal(err)
		}
		if len(missing) > 0 {
			fields.Add("tag_ids", fmt.Sprintf(msgInvalidRefTmpl, "tag_ids"))
		}
	}
	return nil
}

// translate maps write errors that got past checkRefs, which is advisory.
func (s *Service) translate(err error) error {
	switch {
	case database.DuplicateKey(err, "idx_articles_title"), database.DuplicateKey(err, "idx_articles_slug"):
		return apperr.Invalid("title", msgTitleTaken)
	}
	if col, ok := database.MissingReference(err); ok {
		switch col {
		case "category_id", "author_id":
			return apperr.Invalid(col, fmt.Sprintf(msgInvalidRefTmpl, col))
		case "tag_id":
			return apperr.Invalid("tag_ids", fmt.Sprintf(msgInvalidRefTmpl, "tag_ids"))
		}
		s.log.Warn("foreign key violation", zap.Error(err))
		return apperr.Invalid("references", msgStaleRef)
	}
	s.log.Error("article write failed", zap.Error(err))
	return apperr.Internal(err)
}

// discard removes a stored image. Failures are only logged; the orphan
// sweep collects whatever is left.
func (s *Service) discard(ctx context.Context, path string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), path); err != nil {
		s.log.Warn("remove image failed", zap.String("path", path), zap.Error(err))
	}
}
