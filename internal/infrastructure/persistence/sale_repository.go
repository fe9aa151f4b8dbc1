package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/sales"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/spark7/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db txAwareDB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: txAwareDB{db: db}}
}

// FindByID finds a sale with its items by ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleNumber finds a sale by its sale number
func (r *GormSaleRepository) FindBySaleNumber(ctx context.Context, saleNumber string) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.session(ctx).First(&model, "sale_number = ?", saleNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds sales matching the filter with pagination
func (r *GormSaleRepository) FindAll(ctx context.Context, filter sales.SaleFilter) (*shared.Paginated[sales.Sale], error) {
	query := r.applyFilter(r.db.session(ctx).Model(&models.SaleModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var saleModels []models.SaleModel
	sortField := ValidateSortField(filter.OrderBy, SaleSortFields, "sale_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder + ", created_at DESC")
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	if pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}

	result := make([]sales.Sale, len(saleModels))
	for i, model := range saleModels {
		result[i] = *model.ToDomain()
	}
	paginated := shared.NewPaginated(result, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	var model models.SaleModel
	model.FromDomain(sale)
	return r.db.session(ctx).Save(&model).Error
}

// Summarize aggregates posted sales over a period
func (r *GormSaleRepository) Summarize(ctx context.Context, from, to time.Time) (*sales.SalesSummary, error) {
	var row struct {
		Count            int64
		Revenue          sql.NullString
		TotalOutstanding sql.NullString
		TotalTax         sql.NullString
		CashSales        sql.NullString
		CreditSales      sql.NullString
	}
	err := r.db.session(ctx).Model(&models.SaleModel{}).
		Where("status = ? AND sale_date >= ? AND sale_date <= ?", sales.InvoiceStatusPosted, from, to).
		Select(`COUNT(*) AS count,
			COALESCE(SUM(total_amount), 0) AS revenue,
			COALESCE(SUM(outstanding_amount), 0) AS total_outstanding,
			COALESCE(SUM(total_tax), 0) AS total_tax,
			COALESCE(SUM(CASE WHEN invoice_type = 'CASH' THEN total_amount ELSE 0 END), 0) AS cash_sales,
			COALESCE(SUM(CASE WHEN invoice_type = 'CREDIT' THEN total_amount ELSE 0 END), 0) AS credit_sales`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	summary := &sales.SalesSummary{Count: row.Count}
	for _, field := range []struct {
		src sql.NullString
		dst *decimal.Decimal
	}{
		{row.Revenue, &summary.Revenue},
		{row.TotalOutstanding, &summary.TotalOutstanding},
		{row.TotalTax, &summary.TotalTax},
		{row.CashSales, &summary.CashSales},
		{row.CreditSales, &summary.CreditSales},
	} {
		if !field.src.Valid {
			*field.dst = decimal.Zero
			continue
		}
		value, err := decimal.NewFromString(field.src.String)
		if err != nil {
			return nil, err
		}
		*field.dst = value
	}
	return summary, nil
}

// Count returns the number of sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter sales.SaleFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.session(ctx).Model(&models.SaleModel{}), filter).Count(&count).Error
	return count, err
}

// applyFilter applies filter options to the query
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter sales.SaleFilter) *gorm.DB {
	if filter.InvoiceType != nil {
		query = query.Where("invoice_type = ?", *filter.InvoiceType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.FromDate != nil {
		query = query.Where("sale_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("sale_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("sale_number LIKE ? OR invoice_number LIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
