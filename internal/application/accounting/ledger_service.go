package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/domain/shared"
)

// LedgerService is the posting primitive. It appends debit-or-credit entries
// and maintains per-account running balances.
type LedgerService struct {
	accountRepo accounting.AccountRepository
	entryRepo   accounting.LedgerEntryRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	accountRepo accounting.AccountRepository,
	entryRepo accounting.LedgerEntryRepository,
) *LedgerService {
	return &LedgerService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// PostRequest describes one ledger posting
type PostRequest struct {
	AccountID       uuid.UUID
	EntryDate       time.Time
	VoucherType     accounting.VoucherType
	VoucherID       uuid.UUID
	VoucherNumber   string
	ReferenceNumber string
	Narration       string
	Debit           decimal.Decimal
	Credit          decimal.Decimal
	Source          accounting.SourceRef
	CreatedBy       *uuid.UUID
}

// Post appends one entry and stores the account's new running balance.
// It must be called inside a unit-of-work transaction: the account row is
// locked first so concurrent postings to the same account serialize their
// read-balance-then-write sequence. Postings to different accounts do not
// contend.
func (s *LedgerService) Post(ctx context.Context, req PostRequest) (*accounting.LedgerEntry, error) {
	account, err := s.accountRepo.LockForPosting(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Account not found")
	}
	if !account.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot post to an inactive account")
	}

	entry, err := accounting.NewLedgerEntry(req.AccountID, req.EntryDate, req.VoucherType, req.Debit, req.Credit)
	if err != nil {
		return nil, err
	}
	entry.VoucherID = req.VoucherID
	entry.VoucherNumber = req.VoucherNumber
	entry.ReferenceNumber = req.ReferenceNumber
	entry.Narration = req.Narration
	entry.Source = req.Source
	entry.CreatedBy = req.CreatedBy

	prior, err := s.entryRepo.ClosingAsOf(ctx, req.AccountID, &req.EntryDate)
	if err != nil {
		return nil, err
	}
	entry.SetRunningBalance(prior)

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AccountClosing returns the running balance of the latest entry at or before
// asOf (latest overall when nil); zero when the account has no entries.
func (s *LedgerService) AccountClosing(ctx context.Context, accountID uuid.UUID, asOf *time.Time) (decimal.Decimal, error) {
	return s.entryRepo.ClosingAsOf(ctx, accountID, asOf)
}

// Reconcile toggles the reconciliation mark on one entry, the only mutation a
// ledger entry permits
func (s *LedgerService) Reconcile(ctx context.Context, entryID uuid.UUID, reconciled bool) (*accounting.LedgerEntry, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Ledger entry not found")
	}
	if reconciled {
		entry.Reconcile()
	} else {
		entry.Unreconcile()
	}
	if err := s.entryRepo.SaveReconciliation(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
