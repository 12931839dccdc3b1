package repository

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/axellelanca/adtracker/internal/models"
	"gorm.io/gorm"
)

// UserRepository est une interface qui définit les méthodes d'accès aux comptes
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

// GormUserRepository est l'implémentation de UserRepository utilisant GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository crée et retourne une nouvelle instance de GormUserRepository.
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// CreateUser insère un nouveau compte.
func (r *GormUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrUserAlreadyExists
		}
		return apperrors.Persistence("create user", err)
	}
	return nil
}

// GetUserByUsername récupère un compte par son nom d'utilisateur.
func (r *GormUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Persistence("get user", err)
	}
	return &user, nil
}

// GetAllUsers récupère tous les comptes dans l'ordre d'inscription.
func (r *GormUserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := conn(ctx, r.db).Order("id").Find(&users).Error; err != nil {
		return nil, apperrors.Persistence("list users", fmt.Errorf("failed to retrieve all users: %w", err))
	}
	return users, nil
}
