package repository

import (
	"context"
	"fmt"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/axellelanca/adtracker/internal/models"
	"gorm.io/gorm"
)

// ClickRepository est une interface qui définit les méthodes d'accès au journal des clics
type ClickRepository interface {
	AppendClick(ctx context.Context, op *models.ClickOperation) error
	GetAllClicks(ctx context.Context) ([]models.ClickOperation, error)
	CountClicksByAdvertisement(ctx context.Context, name string) (int, error)
}

// GormClickRepository est l'implémentation de l'interface ClickRepository utilisant GORM.
type GormClickRepository struct {
	db *gorm.DB
}

// NewClickRepository crée et retourne une nouvelle instance de GormClickRepository.
func NewClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// AppendClick insère une nouvelle opération de clic dans le journal.
func (r *GormClickRepository) AppendClick(ctx context.Context, op *models.ClickOperation) error {
	if err := conn(ctx, r.db).Create(op).Error; err != nil {
		return apperrors.Persistence("append click", fmt.Errorf("failed to create click: %w", err))
	}
	return nil
}

// GetAllClicks récupère le journal complet dans l'ordre d'insertion.
func (r *GormClickRepository) GetAllClicks(ctx context.Context) ([]models.ClickOperation, error) {
	var ops []models.ClickOperation
	if err := conn(ctx, r.db).Order("id").Find(&ops).Error; err != nil {
		return nil, apperrors.Persistence("list clicks", err)
	}
	return ops, nil
}

// CountClicksByAdvertisement compte le nombre total de clics journalisés pour une publicité.
func (r *GormClickRepository) CountClicksByAdvertisement(ctx context.Context, name string) (int, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.ClickOperation{}).Where("advertisement_name = ?", name).Count(&count).Error; err != nil {
		return 0, apperrors.Persistence("count clicks", fmt.Errorf("failed to count clicks for advertisement %s: %w", name, err))
	}
	return int(count), nil
}
