package persistence

import (
	"context"
	"errors"

	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOpeningBalanceRepository implements OpeningBalanceRepository using GORM
type GormOpeningBalanceRepository struct {
	db txAwareDB
}

// NewGormOpeningBalanceRepository creates a new GormOpeningBalanceRepository
func NewGormOpeningBalanceRepository(db *gorm.DB) *GormOpeningBalanceRepository {
	return &GormOpeningBalanceRepository{db: txAwareDB{db: db}}
}

// FindByFinancialYear finds the setup record for a financial year
func (r *GormOpeningBalanceRepository) FindByFinancialYear(ctx context.Context, financialYear string) (*accounting.OpeningBalanceSetup, error) {
	var model models.OpeningBalanceModel
	if err := r.db.session(ctx).First(&model, "financial_year = ?", financialYear).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindCurrent finds the most recent setup record
func (r *GormOpeningBalanceRepository) FindCurrent(ctx context.Context) (*accounting.OpeningBalanceSetup, error) {
	var model models.OpeningBalanceModel
	if err := r.db.session(ctx).Order("as_of_date DESC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a setup record
func (r *GormOpeningBalanceRepository) Save(ctx context.Context, setup *accounting.OpeningBalanceSetup) error {
	var model models.OpeningBalanceModel
	model.FromDomain(setup)
	return r.db.session(ctx).Save(&model).Error
}

// Ensure GormOpeningBalanceRepository implements OpeningBalanceRepository
var _ accounting.OpeningBalanceRepository = (*GormOpeningBalanceRepository)(nil)
