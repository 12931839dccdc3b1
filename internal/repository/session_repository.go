package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/axellelanca/adtracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository stores login sessions keyed by an opaque token.
type SessionRepository interface {
	CreateSession(ctx context.Context, username string, ttl time.Duration) (string, error)
	GetSessionUser(ctx context.Context, token string) (string, error)
	DeleteSession(ctx context.Context, token string) error
}

// GormSessionRepository keeps sessions in the sessions table.
type GormSessionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSessionRepository crée et retourne une nouvelle instance de GormSessionRepository.
func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db, now: time.Now}
}

// CreateSession stores a new session for username and returns its token.
func (r *GormSessionRepository) CreateSession(ctx context.Context, username string, ttl time.Duration) (string, error) {
	s := &models.Session{
		Token:     uuid.NewString(),
		Username:  username,
		ExpiresAt: r.now().Add(ttl),
	}
	if err := conn(ctx, r.db).Create(s).Error; err != nil {
		return "", apperrors.Persistence("create session", err)
	}
	return s.Token, nil
}

// GetSessionUser returns the username of a live session. Expired rows are removed.
func (r *GormSessionRepository) GetSessionUser(ctx context.Context, token string) (string, error) {
	var s models.Session
	if err := conn(ctx, r.db).Where("token = ?", token).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrSessionNotFound
		}
		return "", apperrors.Persistence("get session", err)
	}
	if s.Expired(r.now()) {
		_ = r.DeleteSession(ctx, token)
		return "", apperrors.ErrSessionNotFound
	}
	return s.Username, nil
}

// DeleteSession removes the session. Unknown tokens are not an error.
func (r *GormSessionRepository) DeleteSession(ctx context.Context, token string) error {
	if err := conn(ctx, r.db).Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return apperrors.Persistence("delete session", err)
	}
	return nil
}
