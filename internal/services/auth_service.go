package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/axellelanca/adtracker/internal/logger"
	"github.com/axellelanca/adtracker/internal/models"
	"github.com/axellelanca/adtracker/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService holds the credential store and the session gate.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	ttl      time.Duration
}

// NewAuthService creates an AuthService whose sessions live for ttl.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, ttl time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, ttl: ttl}
}

// RegisterRequest carries already validated registration fields.
type RegisterRequest struct {
	Username      string
	Password      string
	PhoneNumber   string
	OriginAddress string
}

// Register stores a new user with a bcrypt hash of the password.
// It returns ErrUserAlreadyExists when the username is taken.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	_, err := s.users.GetUserByUsername(ctx, req.Username)
	if err == nil {
		return apperrors.ErrUserAlreadyExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:            req.Username,
		PasswordHash:        string(hash),
		PhoneNumber:         req.PhoneNumber,
		RegistrationAddress: req.OriginAddress,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return err
	}

	logger.Log.Info("user registered", zap.String("username", req.Username), zap.String("ip", req.OriginAddress))
	return nil
}

// Verify checks password against the stored hash of username.
// It returns ErrUserNotFound or ErrWrongPassword.
func (s *AuthService) Verify(ctx context.Context, username, password string) error {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return apperrors.ErrWrongPassword
	}
	return nil
}

// Login verifies the credentials and opens a session, returning its token.
// Credential failures wrap ErrInvalidCredentials together with the specific cause.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if err := s.Verify(ctx, username, password); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) || errors.Is(err, apperrors.ErrWrongPassword) {
			return "", fmt.Errorf("%w: %w", apperrors.ErrInvalidCredentials, err)
		}
		return "", err
	}
	return s.sessions.CreateSession(ctx, username, s.ttl)
}

// Logout closes the session. An empty or unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}

// Identify resolves token to an Identity. Missing or expired sessions are anonymous.
func (s *AuthService) Identify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, nil
	}
	username, err := s.sessions.GetSessionUser(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return Identity{}, nil
		}
		return Identity{}, err
	}
	return Identity{Username: username}, nil
}

// RequireLogin returns the session identity, or ErrNotLoggedIn for anonymous callers.
func (s *AuthService) RequireLogin(ctx context.Context, token string) (Identity, error) {
	id, err := s.Identify(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	if id.Anonymous() {
		return Identity{}, apperrors.ErrNotLoggedIn
	}
	return id, nil
}
