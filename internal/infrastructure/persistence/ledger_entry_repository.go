package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM.
// The ledger is append-only: rows are inserted once and only the
// reconciliation flags ever change afterwards.
type GormLedgerEntryRepository struct {
	db txAwareDB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: txAwareDB{db: db}}
}

// FindByID finds a ledger entry by its ID
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccount finds entries for an account ordered by entry date then creation
func (r *GormLedgerEntryRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter accounting.LedgerEntryFilter) ([]accounting.LedgerEntry, error) {
	query := r.applyFilter(r.db.session(ctx).Model(&models.LedgerEntryModel{}), filter).
		Where("account_id = ?", accountID).
		Order("entry_date ASC, created_at ASC")
	return r.findEntries(query, filter)
}

// FindByVoucher finds all entries produced by one voucher
func (r *GormLedgerEntryRepository) FindByVoucher(ctx context.Context, voucherID uuid.UUID) ([]accounting.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.db.session(ctx).
		Where("voucher_id = ?", voucherID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindByAccounts finds entries across a set of accounts, ordered by entry date
func (r *GormLedgerEntryRepository) FindByAccounts(ctx context.Context, accountIDs []uuid.UUID, filter accounting.LedgerEntryFilter) ([]accounting.LedgerEntry, error) {
	if len(accountIDs) == 0 {
		return []accounting.LedgerEntry{}, nil
	}
	query := r.applyFilter(r.db.session(ctx).Model(&models.LedgerEntryModel{}), filter).
		Where("account_id IN ?", accountIDs).
		Order("entry_date ASC, created_at ASC")
	return r.findEntries(query, filter)
}

// ClosingAsOf returns the running balance of the latest entry at or before
// asOf, or the latest entry overall when asOf is nil. Zero when the account
// has no qualifying entries.
func (r *GormLedgerEntryRepository) ClosingAsOf(ctx context.Context, accountID uuid.UUID, asOf *time.Time) (decimal.Decimal, error) {
	query := r.db.session(ctx).Model(&models.LedgerEntryModel{}).
		Where("account_id = ?", accountID)
	if asOf != nil {
		query = query.Where("entry_date <= ?", *asOf)
	}

	var model models.LedgerEntryModel
	err := query.Order("entry_date DESC, created_at DESC").First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return model.RunningBalance, nil
}

// SumByAccount returns total debits and credits for an account within the
// given date range; nil bounds are open-ended.
func (r *GormLedgerEntryRepository) SumByAccount(ctx context.Context, accountID uuid.UUID, from, to *time.Time) (accounting.LedgerBalance, error) {
	query := r.db.session(ctx).Model(&models.LedgerEntryModel{}).
		Where("account_id = ?", accountID)
	if from != nil {
		query = query.Where("entry_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("entry_date <= ?", *to)
	}

	var row struct {
		Debit  sql.NullString
		Credit sql.NullString
	}
	if err := query.
		Select("COALESCE(SUM(debit), 0) AS debit, COALESCE(SUM(credit), 0) AS credit").
		Scan(&row).Error; err != nil {
		return accounting.LedgerBalance{}, err
	}

	balance := accounting.LedgerBalance{Debit: decimal.Zero, Credit: decimal.Zero}
	if row.Debit.Valid {
		d, err := decimal.NewFromString(row.Debit.String)
		if err != nil {
			return accounting.LedgerBalance{}, err
		}
		balance.Debit = d
	}
	if row.Credit.Valid {
		c, err := decimal.NewFromString(row.Credit.String)
		if err != nil {
			return accounting.LedgerBalance{}, err
		}
		balance.Credit = c
	}
	return balance, nil
}

// Save appends a ledger entry
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *accounting.LedgerEntry) error {
	var model models.LedgerEntryModel
	model.FromDomain(entry)
	return r.db.session(ctx).Create(&model).Error
}

// SaveReconciliation persists only the reconciliation flags of an entry
func (r *GormLedgerEntryRepository) SaveReconciliation(ctx context.Context, entry *accounting.LedgerEntry) error {
	return r.db.session(ctx).Model(&models.LedgerEntryModel{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"reconciled":    entry.Reconciled,
			"reconciled_at": entry.ReconciledAt,
			"updated_at":    entry.UpdatedAt,
		}).Error
}

// Count returns the number of entries matching the filter
func (r *GormLedgerEntryRepository) Count(ctx context.Context, filter accounting.LedgerEntryFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.session(ctx).Model(&models.LedgerEntryModel{}), filter)
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	err := query.Count(&count).Error
	return count, err
}

// findEntries runs the prepared query with pagination applied
func (r *GormLedgerEntryRepository) findEntries(query *gorm.DB, filter accounting.LedgerEntryFilter) ([]accounting.LedgerEntry, error) {
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	if pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	var entryModels []models.LedgerEntryModel
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// applyFilter applies filter options to the query
func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter accounting.LedgerEntryFilter) *gorm.DB {
	if filter.VoucherType != nil {
		query = query.Where("voucher_type = ?", *filter.VoucherType)
	}
	if filter.VoucherID != nil {
		query = query.Where("voucher_id = ?", *filter.VoucherID)
	}
	if filter.FromDate != nil {
		query = query.Where("entry_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("entry_date <= ?", *filter.ToDate)
	}
	if filter.Reconciled != nil {
		query = query.Where("reconciled = ?", *filter.Reconciled)
	}
	return query
}

func toDomainEntries(entryModels []models.LedgerEntryModel) []accounting.LedgerEntry {
	entries := make([]accounting.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries
}

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ accounting.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
