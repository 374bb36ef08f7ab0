package user

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/portal-berita/core/internal/database"
	"github.com/portal-berita/core/internal/models"
	"github.com/portal-berita/core/internal/pkg/apperr"
	"github.com/portal-berita/core/internal/pkg/pagination"
	"github.com/portal-berita/core/internal/pkg/response"
	sessionpkg "github.com/portal-berita/core/internal/pkg/session"
	"github.com/portal-berita/core/internal/pkg/validate"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service is the identity store.
type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log.Named("UserService") }
}

// WithBcryptCost overrides the hashing cost. Tests lower it.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, log: zap.NewNop(), cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the handle for middleware that shares it.
func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) List(ctx context.Context, q *pagination.Query) ([]models.UserModel, *response.Pagination, error) {
	users := make([]models.UserModel, 0)
	query := s.db.WithContext(ctx).Model(&models.UserModel{}).Order("created_at DESC, id DESC")
	pag, err := pagination.Find(query, q, &users)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return users, pag, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal(err)
	}
	return &u, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.UserModel, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	fields := validate.Struct(in)
	if fields == nil {
		fields = apperr.Fields{}
	}
	if err := s.checkUnique(ctx, fields, in.Name, in.Email, 0); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := models.UserModel{Name: in.Name, Email: in.Email, Password: string(hash)}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, s.translate(err)
	}
	return &u, nil
}

func (s *Service) Update(ctx context.Context, id uint64, in UpdateInput) (*models.UserModel, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Password != nil && *in.Password == "" {
		in.Password = nil
	}

	fields := validate.Struct(in)
	if fields == nil {
		fields = apperr.Fields{}
	}
	if err := s.checkUnique(ctx, fields, in.Name, in.Email, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	updates := map[string]interface{}{
		"name":  in.Name,
		"email": in.Email,
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.cost)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		updates["password"] = string(hash)
	}
	if err := s.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return nil, s.translate(err)
	}
	return s.Get(ctx, id)
}

// Delete removes the user and their sessions, returning the removed row.
// Users who still author articles are kept and a Conflict is returned.
func (s *Service) Delete(ctx context.Context, id uint64) (*models.UserModel, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var authored int64
		if err := tx.Model(&models.ArticleModel{}).Where("author_id = ?", id).Count(&authored).Error; err != nil {
			return err
		}
		if authored > 0 {
			return apperr.Conflict("user still authors articles")
		}
		if err := sessionpkg.DeleteForUser(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.UserModel{}, id).Error
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		if database.StillReferenced(err) {
			return nil, apperr.Conflict("user still authors articles")
		}
		s.log.Error("delete user failed", zap.Uint64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// Authenticate checks an email/password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.UserModel, error) {
	var u models.UserModel
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// spend comparable time so unknown emails are not distinguishable
			_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

func (s *Service) checkUnique(ctx context.Context, fields apperr.Fields, name, email string, excludeID uint64) error {
	if name != "" && !fields.Has("name") {
		taken, err := database.Taken(ctx, s.db, &models.UserModel{}, "name", name, excludeID)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			fields.Add("name", msgNameTaken)
		}
	}
	if email != "" && !fields.Has("email") {
		taken, err := database.Taken(ctx, s.db, &models.UserModel{}, "email", email, excludeID)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			fields.Add("email", msgEmailTaken)
		}
	}
	return nil
}

// translate maps write errors that slipped past the advisory checks.
func (s *Service) translate(err error) error {
	switch {
	case database.DuplicateKey(err, "idx_users_name"):
		return apperr.Invalid("name", msgNameTaken)
	case database.DuplicateKey(err, "idx_users_email"):
		return apperr.Invalid("email", msgEmailTaken)
	}
	s.log.Error("user write failed", zap.Error(err))
	return apperr.Internal(err)
}

func (s *Service) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummy
}
