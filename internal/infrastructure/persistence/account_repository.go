package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/spark7/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db txAwareDB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: txAwareDB{db: db}}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	var model models.AccountModel
	if err := r.db.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an account by its unique code
func (r *GormAccountRepository) FindByCode(ctx context.Context, code string) (*accounting.Account, error) {
	var model models.AccountModel
	if err := r.db.session(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTypeAndNormalizedName finds an account of the given type by its normalized name
func (r *GormAccountRepository) FindByTypeAndNormalizedName(ctx context.Context, accountType accounting.AccountType, normalizedName string) (*accounting.Account, error) {
	var model models.AccountModel
	if err := r.db.session(ctx).First(&model, "type = ? AND normalized_name = ?", accountType, normalizedName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds accounts matching the filter with pagination
func (r *GormAccountRepository) FindAll(ctx context.Context, filter accounting.AccountFilter) (*shared.Paginated[accounting.Account], error) {
	query := r.applyFilter(r.db.session(ctx).Model(&models.AccountModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var accountModels []models.AccountModel
	query = query.Order("code ASC")
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	if pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]accounting.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	result := shared.NewPaginated(accounts, total, page, pageSize)
	return &result, nil
}

// FindBySubType finds all active accounts of a sub-type, system accounts first
func (r *GormAccountRepository) FindBySubType(ctx context.Context, subType accounting.AccountSubType) ([]accounting.Account, error) {
	var accountModels []models.AccountModel
	if err := r.db.session(ctx).
		Where("sub_type = ? AND active = ?", subType, true).
		Order("system DESC, code ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]accounting.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// LockForPosting loads the account row under SELECT FOR UPDATE so concurrent
// postings to the same account serialize on the row lock
func (r *GormAccountRepository) LockForPosting(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	var model models.AccountModel
	if err := r.db.session(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *accounting.Account) error {
	var model models.AccountModel
	model.FromDomain(account)
	return r.db.session(ctx).Save(&model).Error
}

// Delete removes an account
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.session(ctx).Delete(&models.AccountModel{}, "id = ?", id).Error
}

// Count returns the number of accounts matching the filter
func (r *GormAccountRepository) Count(ctx context.Context, filter accounting.AccountFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.session(ctx).Model(&models.AccountModel{}), filter)
	err := query.Count(&count).Error
	return count, err
}

// applyFilter applies filter options to the query
func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter accounting.AccountFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.SubType != nil {
		query = query.Where("sub_type = ?", *filter.SubType)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.System != nil {
		query = query.Where("system = ?", *filter.System)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code LIKE ?", pattern, pattern)
	}
	return query
}

// normalizePage clamps pagination inputs. A non-positive page size means the
// caller wants every row.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}
	return page, pageSize
}

// Ensure GormAccountRepository implements AccountRepository
var _ accounting.AccountRepository = (*GormAccountRepository)(nil)
