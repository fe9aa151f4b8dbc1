package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/spark7/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDayBookRepository implements DayBookRepository using GORM
type GormDayBookRepository struct {
	db txAwareDB
}

// NewGormDayBookRepository creates a new GormDayBookRepository
func NewGormDayBookRepository(db *gorm.DB) *GormDayBookRepository {
	return &GormDayBookRepository{db: txAwareDB{db: db}}
}

// FindByID finds a day-book entry by its ID
func (r *GormDayBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.DayBookEntry, error) {
	var model models.DayBookEntryModel
	if err := r.db.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDate finds all entries for one trading day
func (r *GormDayBookRepository) FindByDate(ctx context.Context, date time.Time) ([]accounting.DayBookEntry, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var entryModels []models.DayBookEntryModel
	if err := r.db.session(ctx).
		Where("entry_date >= ? AND entry_date < ?", dayStart, dayEnd).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]accounting.DayBookEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// FindAll finds entries matching the filter with pagination
func (r *GormDayBookRepository) FindAll(ctx context.Context, filter accounting.DayBookFilter) (*shared.Paginated[accounting.DayBookEntry], error) {
	query := r.applyFilter(r.db.session(ctx).Model(&models.DayBookEntryModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var entryModels []models.DayBookEntryModel
	query = query.Order("entry_date DESC, created_at DESC")
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	if pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]accounting.DayBookEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	result := shared.NewPaginated(entries, total, page, pageSize)
	return &result, nil
}

// Save creates or updates a day-book entry
func (r *GormDayBookRepository) Save(ctx context.Context, entry *accounting.DayBookEntry) error {
	var model models.DayBookEntryModel
	model.FromDomain(entry)
	return r.db.session(ctx).Save(&model).Error
}

// Delete removes a day-book entry row. The caller posts the reversing
// voucher first; the ledger trail is never erased.
func (r *GormDayBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.session(ctx).Delete(&models.DayBookEntryModel{}, "id = ?", id).Error
}

// applyFilter applies filter options to the query
func (r *GormDayBookRepository) applyFilter(query *gorm.DB, filter accounting.DayBookFilter) *gorm.DB {
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.PaymentMode != nil {
		query = query.Where("payment_mode = ?", *filter.PaymentMode)
	}
	if filter.FromDate != nil {
		query = query.Where("entry_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("entry_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		query = query.Where("particulars LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormDayBookRepository implements DayBookRepository
var _ accounting.DayBookRepository = (*GormDayBookRepository)(nil)
