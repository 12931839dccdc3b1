package repository

import (
	"context"
	"errors"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/axellelanca/adtracker/internal/models"
	"gorm.io/gorm"
)

// AdvertisementRepository is the advertisement ledger: remaining budget and click count per advertisement.
type AdvertisementRepository interface {
	CreateAdvertisement(ctx context.Context, name string, startingBudget float64, startingClicks int64) (*models.Advertisement, error)
	GetAdvertisement(ctx context.Context, name string) (*models.Advertisement, error)
	GetBudget(ctx context.Context, name string) (float64, error)
	Debit(ctx context.Context, name string, amount float64) (float64, error)
	IncrementClicks(ctx context.Context, name string) error
	DebitAndCount(ctx context.Context, name string, amount float64) (*models.Advertisement, error)
	GetAllAdvertisements(ctx context.Context) ([]models.Advertisement, error)
}

// GormAdvertisementRepository est l'implémentation de AdvertisementRepository utilisant GORM.
type GormAdvertisementRepository struct {
	db *gorm.DB
}

// NewAdvertisementRepository crée et retourne une nouvelle instance de GormAdvertisementRepository.
func NewAdvertisementRepository(db *gorm.DB) *GormAdvertisementRepository {
	return &GormAdvertisementRepository{db: db}
}

// CreateAdvertisement inserts a ledger row. The caller guarantees name is unused.
func (r *GormAdvertisementRepository) CreateAdvertisement(ctx context.Context, name string, startingBudget float64, startingClicks int64) (*models.Advertisement, error) {
	ad := &models.Advertisement{
		Name:            name,
		RemainingBudget: startingBudget,
		ClickCount:      startingClicks,
	}
	if err := conn(ctx, r.db).Create(ad).Error; err != nil {
		return nil, apperrors.Persistence("create advertisement", err)
	}
	return ad, nil
}

// GetAdvertisement returns the ledger row of name.
func (r *GormAdvertisementRepository) GetAdvertisement(ctx context.Context, name string) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := conn(ctx, r.db).Where("name = ?", name).First(&ad).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAdvertisementNotFound
		}
		return nil, apperrors.Persistence("get advertisement", err)
	}
	return &ad, nil
}

// GetBudget returns the remaining budget of name.
func (r *GormAdvertisementRepository) GetBudget(ctx context.Context, name string) (float64, error) {
	ad, err := r.GetAdvertisement(ctx, name)
	if err != nil {
		return 0, err
	}
	return ad.RemainingBudget, nil
}

// Debit subtracts amount from the budget without checking sufficiency and returns the new budget.
func (r *GormAdvertisementRepository) Debit(ctx context.Context, name string, amount float64) (float64, error) {
	res := conn(ctx, r.db).Model(&models.Advertisement{}).
		Where("name = ?", name).
		Update("remaining_budget", gorm.Expr("remaining_budget - ?", amount))
	if res.Error != nil {
		return 0, apperrors.Persistence("debit advertisement", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.ErrAdvertisementNotFound
	}
	return r.GetBudget(ctx, name)
}

// IncrementClicks adds one to the click count of name.
func (r *GormAdvertisementRepository) IncrementClicks(ctx context.Context, name string) error {
	res := conn(ctx, r.db).Model(&models.Advertisement{}).
		Where("name = ?", name).
		Update("click_count", gorm.Expr("click_count + 1"))
	if res.Error != nil {
		return apperrors.Persistence("increment clicks", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAdvertisementNotFound
	}
	return nil
}

// DebitAndCount debits amount and counts one click in a single conditional UPDATE.
// The row is only touched while the budget covers amount, so the budget never goes negative.
// It returns ErrBudgetExhausted when the budget is insufficient.
func (r *GormAdvertisementRepository) DebitAndCount(ctx context.Context, name string, amount float64) (*models.Advertisement, error) {
	res := conn(ctx, r.db).Model(&models.Advertisement{}).
		Where("name = ? AND remaining_budget >= ?", name, amount).
		Updates(map[string]interface{}{
			"remaining_budget": gorm.Expr("remaining_budget - ?", amount),
			"click_count":      gorm.Expr("click_count + 1"),
		})
	if res.Error != nil {
		return nil, apperrors.Persistence("debit advertisement", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing row from an exhausted budget.
		if _, err := r.GetAdvertisement(ctx, name); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrBudgetExhausted
	}
	return r.GetAdvertisement(ctx, name)
}

// GetAllAdvertisements récupère toutes les publicités dans l'ordre de publication.
func (r *GormAdvertisementRepository) GetAllAdvertisements(ctx context.Context) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	if err := conn(ctx, r.db).Order("id").Find(&ads).Error; err != nil {
		return nil, apperrors.Persistence("list advertisements", err)
	}
	return ads, nil
}
