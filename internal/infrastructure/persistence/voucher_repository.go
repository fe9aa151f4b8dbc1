package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/spark7/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormVoucherRepository implements VoucherRepository using GORM
type GormVoucherRepository struct {
	db txAwareDB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: txAwareDB{db: db}}
}

// FindByID finds a voucher with its lines by ID
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Voucher, error) {
	var model models.VoucherModel
	if err := r.db.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a voucher by its voucher number
func (r *GormVoucherRepository) FindByNumber(ctx context.Context, voucherNumber string) (*accounting.Voucher, error) {
	var model models.VoucherModel
	if err := r.db.session(ctx).First(&model, "voucher_number = ?", voucherNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds vouchers matching the filter with pagination
func (r *GormVoucherRepository) FindAll(ctx context.Context, filter accounting.VoucherFilter) (*shared.Paginated[accounting.Voucher], error) {
	query := r.applyFilter(r.db.session(ctx).Model(&models.VoucherModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var voucherModels []models.VoucherModel
	sortField := ValidateSortField(filter.OrderBy, VoucherSortFields, "voucher_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder + ", created_at DESC")
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	if pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	if err := query.Find(&voucherModels).Error; err != nil {
		return nil, err
	}

	vouchers := make([]accounting.Voucher, len(voucherModels))
	for i, model := range voucherModels {
		vouchers[i] = *model.ToDomain()
	}
	result := shared.NewPaginated(vouchers, total, page, pageSize)
	return &result, nil
}

// Save creates a voucher with its lines
func (r *GormVoucherRepository) Save(ctx context.Context, voucher *accounting.Voucher) error {
	var model models.VoucherModel
	model.FromDomain(voucher)
	return r.db.session(ctx).Save(&model).Error
}

// SavePrinted persists only the printed flag of a voucher
func (r *GormVoucherRepository) SavePrinted(ctx context.Context, voucher *accounting.Voucher) error {
	return r.db.session(ctx).Model(&models.VoucherModel{}).
		Where("id = ?", voucher.ID).
		Updates(map[string]interface{}{
			"printed":    voucher.Printed,
			"updated_at": voucher.UpdatedAt,
			"version":    voucher.Version,
		}).Error
}

// Count returns the number of vouchers matching the filter
func (r *GormVoucherRepository) Count(ctx context.Context, filter accounting.VoucherFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.session(ctx).Model(&models.VoucherModel{}), filter)
	err := query.Count(&count).Error
	return count, err
}

// applyFilter applies filter options to the query
func (r *GormVoucherRepository) applyFilter(query *gorm.DB, filter accounting.VoucherFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.PaymentMode != nil {
		query = query.Where("payment_mode = ?", *filter.PaymentMode)
	}
	if filter.FromDate != nil {
		query = query.Where("voucher_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("voucher_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("voucher_number LIKE ? OR counterparty LIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormVoucherRepository implements VoucherRepository
var _ accounting.VoucherRepository = (*GormVoucherRepository)(nil)
