package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/shared"
)

// LedgerBalance is an aggregate of debits and credits over a set of entries
type LedgerBalance struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Net returns debits minus credits
func (b LedgerBalance) Net() decimal.Decimal {
	return b.Debit.Sub(b.Credit)
}

// AccountFilter defines filtering options for account queries
type AccountFilter struct {
	shared.Filter
	Type    *AccountType    // Filter by account type
	SubType *AccountSubType // Filter by account sub-type
	Active  *bool           // Filter by active flag
	System  *bool           // Filter by system flag
}

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByCode finds an account by its unique code
	FindByCode(ctx context.Context, code string) (*Account, error)

	// FindByTypeAndNormalizedName finds an account of the given type by
	// normalized (lowercased, trimmed) name
	FindByTypeAndNormalizedName(ctx context.Context, accountType AccountType, normalizedName string) (*Account, error)

	// FindAll finds accounts matching the filter
	FindAll(ctx context.Context, filter AccountFilter) (*shared.Paginated[Account], error)

	// FindBySubType finds all active accounts of a sub-type
	FindBySubType(ctx context.Context, subType AccountSubType) ([]Account, error)

	// LockForPosting loads the account row under a write lock so concurrent
	// postings to the same account serialize. Must run inside a transaction.
	LockForPosting(ctx context.Context, id uuid.UUID) (*Account, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// Delete removes an account; callers must ensure it has no ledger entries
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of accounts matching the filter
	Count(ctx context.Context, filter AccountFilter) (int64, error)
}

// LedgerEntryFilter defines filtering options for ledger queries
type LedgerEntryFilter struct {
	shared.Filter
	AccountID   *uuid.UUID   // Filter by account
	VoucherType *VoucherType // Filter by voucher type
	VoucherID   *uuid.UUID   // Filter by voucher
	FromDate    *time.Time   // Filter by entry date range start
	ToDate      *time.Time   // Filter by entry date range end
	Reconciled  *bool        // Filter by reconciliation flag
}

// LedgerEntryRepository defines the interface for ledger entry persistence.
// Ledger entries are append-only; there is no update or delete.
type LedgerEntryRepository interface {
	// FindByID finds a ledger entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindByAccount finds entries for an account ordered by entry date then creation
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter LedgerEntryFilter) ([]LedgerEntry, error)

	// FindByVoucher finds all entries produced by one voucher
	FindByVoucher(ctx context.Context, voucherID uuid.UUID) ([]LedgerEntry, error)

	// FindByAccounts finds entries across a set of accounts, ordered by entry date
	FindByAccounts(ctx context.Context, accountIDs []uuid.UUID, filter LedgerEntryFilter) ([]LedgerEntry, error)

	// ClosingAsOf returns the running balance of the latest entry at or before
	// asOf, or the latest entry overall when asOf is nil; zero when the account
	// has no qualifying entries. Call under LockForPosting inside a posting
	// transaction to get a stable value.
	ClosingAsOf(ctx context.Context, accountID uuid.UUID, asOf *time.Time) (decimal.Decimal, error)

	// SumByAccount returns total debits and credits for an account within the
	// given date range; nil bounds are open-ended.
	SumByAccount(ctx context.Context, accountID uuid.UUID, from, to *time.Time) (LedgerBalance, error)

	// Save appends a ledger entry
	Save(ctx context.Context, entry *LedgerEntry) error

	// SaveReconciliation persists only the reconciliation flags of an entry
	SaveReconciliation(ctx context.Context, entry *LedgerEntry) error

	// Count returns the number of entries matching the filter
	Count(ctx context.Context, filter LedgerEntryFilter) (int64, error)
}

// VoucherFilter defines filtering options for voucher queries
type VoucherFilter struct {
	shared.Filter
	Type        *VoucherType // Filter by voucher type
	PaymentMode *PaymentMode // Filter by payment mode
	FromDate    *time.Time   // Filter by voucher date range start
	ToDate      *time.Time   // Filter by voucher date range end
}

// VoucherRepository defines the interface for voucher persistence
type VoucherRepository interface {
	// FindByID finds a voucher with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Voucher, error)

	// FindByNumber finds a voucher by its voucher number
	FindByNumber(ctx context.Context, voucherNumber string) (*Voucher, error)

	// FindAll finds vouchers matching the filter
	FindAll(ctx context.Context, filter VoucherFilter) (*shared.Paginated[Voucher], error)

	// Save creates a voucher with its lines
	Save(ctx context.Context, voucher *Voucher) error

	// SavePrinted persists only the printed flag of a voucher
	SavePrinted(ctx context.Context, voucher *Voucher) error

	// Count returns the number of vouchers matching the filter
	Count(ctx context.Context, filter VoucherFilter) (int64, error)
}

// OpeningBalanceRepository defines the interface for opening-balance setup persistence
type OpeningBalanceRepository interface {
	// FindByFinancialYear finds the setup record for a financial year
	FindByFinancialYear(ctx context.Context, financialYear string) (*OpeningBalanceSetup, error)

	// FindCurrent finds the most recent setup record
	FindCurrent(ctx context.Context) (*OpeningBalanceSetup, error)

	// Save creates or updates a setup record
	Save(ctx context.Context, setup *OpeningBalanceSetup) error
}

// DayBookFilter defines filtering options for day-book queries
type DayBookFilter struct {
	shared.Filter
	Kind        *DayBookKind // Filter by income or expense
	PaymentMode *PaymentMode // Filter by payment mode
	FromDate    *time.Time   // Filter by entry date range start
	ToDate      *time.Time   // Filter by entry date range end
}

// DayBookRepository defines the interface for day-book entry persistence
type DayBookRepository interface {
	// FindByID finds a day-book entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*DayBookEntry, error)

	// FindByDate finds all entries for one trading day
	FindByDate(ctx context.Context, date time.Time) ([]DayBookEntry, error)

	// FindAll finds entries matching the filter
	FindAll(ctx context.Context, filter DayBookFilter) (*shared.Paginated[DayBookEntry], error)

	// Save creates or updates a day-book entry
	Save(ctx context.Context, entry *DayBookEntry) error

	// Delete removes a day-book entry; its ledger trail is reversed, not erased
	Delete(ctx context.Context, id uuid.UUID) error
}
