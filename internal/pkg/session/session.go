package session

import (
	"context"
	"strings"
	"time"

	"github.com/portal-berita/core/internal/models"
	jwtpkg "github.com/portal-berita/core/internal/pkg/jwt"
	"gorm.io/gorm"
)

const DefaultTTL = 7 * 24 * time.Hour

// Issue creates a DB session and signs a JWT bound to that session.
func Issue(ctx context.Context, db *gorm.DB, userID uint64, ip, ua string, ttl time.Duration) (string, *models.UserSession, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &models.UserSession{
		UserID:    userID,
		IP:        strings.TrimSpace(ip),
		UA:        strings.TrimSpace(ua),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return "", nil, err
	}

	token, err := jwtpkg.Sign(userID, s.ID, ttl)
	if err != nil {
		_ = db.WithContext(ctx).Delete(s).Error
		return "", nil, err
	}
	return token, s, nil
}

// IsActive reports whether the session exists, belongs to userID, and is
// neither revoked nor expired.
func IsActive(ctx context.Context, db *gorm.DB, userID uint64, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}

	var count int64
	err := db.WithContext(ctx).Model(&models.UserSession{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, userID, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActive returns the live sessions of userID, most recent first.
func ListActive(ctx context.Context, db *gorm.DB, userID uint64) ([]models.UserSession, error) {
	sessions := make([]models.UserSession, 0)
	err := db.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// Revoke marks one session revoked. Returns gorm.ErrRecordNotFound when
// there was no live session to revoke.
func Revoke(ctx context.Context, db *gorm.DB, userID uint64, sessionID string) error {
	now := time.Now()
	res := db.WithContext(ctx).Model(&models.UserSession{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL", sessionID, userID).
		Update("revoked_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RevokeAllExcept revokes every live session of userID except keepSessionID.
func RevokeAllExcept(ctx context.Context, db *gorm.DB, userID uint64, keepSessionID string) error {
	now := time.Now()
	query := db.WithContext(ctx).Model(&models.UserSession{}).
		Where("user_id = ? AND revoked_at IS NULL", userID)
	if strings.TrimSpace(keepSessionID) != "" {
		query = query.Where("id <> ?", keepSessionID)
	}
	return query.Update("revoked_at", &now).Error
}

// DeleteForUser removes all session rows of userID. Used inside the user
// deletion transaction.
func DeleteForUser(tx *gorm.DB, userID uint64) error {
	return tx.Where("user_id = ?", userID).Delete(&models.UserSession{}).Error
}
