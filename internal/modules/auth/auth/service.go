package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/portal-berita/core/internal/models"
	"github.com/portal-berita/core/internal/modules/auth/user"
	"github.com/portal-berita/core/internal/pkg/apperr"
	sessionpkg "github.com/portal-berita/core/internal/pkg/session"
	"github.com/portal-berita/core/internal/pkg/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Client identifies where a login came from. It is stored on the session.
type Client struct {
	IP        string
	UserAgent string
}

type Service struct {
	db    *gorm.DB
	users *user.Service
	ttl   time.Duration
	log   *zap.Logger
}

func NewService(users *user.Service, ttl time.Duration, log *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = sessionpkg.DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: users.DB(), users: users, ttl: ttl, log: log.Named("AuthService")}
}

// Register creates a user with the identity rules and signs them in.
func (s *Service) Register(ctx context.Context, in user.CreateInput, client Client) (*tokenResponse, error) {
	u, err := s.users.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u, client)
}

// Login exchanges credentials for a bearer token. Unknown emails and wrong
// passwords both yield user.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput, client Client) (*tokenResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	if fields := validate.Struct(in); len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	u, err := s.users.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u, client)
}

// Logout revokes one session of the user.
func (s *Service) Logout(ctx context.Context, userID uint64, sessionID string) error {
	err := sessionpkg.Revoke(ctx, s.db, userID, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("session")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// LogoutOthers revokes every session of the user except the current one.
func (s *Service) LogoutOthers(ctx context.Context, userID uint64, keepSessionID string) error {
	if err := sessionpkg.RevokeAllExcept(ctx, s.db, userID, keepSessionID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) Sessions(ctx context.Context, userID uint64) ([]models.UserSession, error) {
	sessions, err := sessionpkg.ListActive(ctx, s.db, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return sessions, nil
}

func (s *Service) Profile(ctx context.Context, userID uint64) (*models.UserModel, error) {
	return s.users.Get(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint64, in user.UpdateInput) (*models.UserModel, error) {
	return s.users.Update(ctx, userID, in)
}

func (s *Service) issue(ctx context.Context, u *models.UserModel, client Client) (*tokenResponse, error) {
	token, sess, err := sessionpkg.Issue(ctx, s.db, u.ID, client.IP, client.UserAgent, s.ttl)
	if err != nil {
		s.log.Error("issue session failed", zap.Uint64("user_id", u.ID), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return &tokenResponse{Token: token, TokenType: "Bearer", ExpiresAt: sess.ExpiresAt, User: u}, nil
}
