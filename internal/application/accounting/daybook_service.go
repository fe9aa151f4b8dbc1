package accounting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/domain/shared"
)

// DayBookService handles quick income/expense entries. Every entry fans out
// into a balanced voucher so the ledger stays the single source of truth.
type DayBookService struct {
	uow         shared.UnitOfWork
	dayBookRepo accounting.DayBookRepository
	accounts    *AccountService
	vouchers    *VoucherService
}

// NewDayBookService creates a new DayBookService
func NewDayBookService(
	uow shared.UnitOfWork,
	dayBookRepo accounting.DayBookRepository,
	accounts *AccountService,
	vouchers *VoucherService,
) *DayBookService {
	return &DayBookService{
		uow:         uow,
		dayBookRepo: dayBookRepo,
		accounts:    accounts,
		vouchers:    vouchers,
	}
}

// DayBookEntryRequest represents a request to create or update a day-book entry
type DayBookEntryRequest struct {
	Date        time.Time       `json:"date" binding:"required"`
	Kind        string          `json:"kind" binding:"required"` // INCOME | EXPENSE
	Mode        string          `json:"mode" binding:"required"` // cash | bank
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Particulars string          `json:"particulars" binding:"required"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// DayBookEntryResponse represents a day-book entry in API responses
type DayBookEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"`
	Mode        string          `json:"mode"`
	AccountID   uuid.UUID       `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Particulars string          `json:"particulars"`
	VoucherID   *uuid.UUID      `json:"voucher_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DayBookListFilter defines filtering options for day-book list queries
type DayBookListFilter struct {
	Kind     string     `form:"kind"`
	Mode     string     `form:"mode"`
	FromDate *time.Time
	ToDate   *time.Time
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// CreateEntry records a day-book line and posts its balanced voucher.
// The category account is auto-vivified by name.
func (s *DayBookService) CreateEntry(ctx context.Context, req DayBookEntryRequest) (*DayBookEntryResponse, error) {
	kind := accounting.DayBookKind(strings.ToUpper(req.Kind))
	if !kind.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown day book kind %q", req.Kind))
	}

	accountType := accounting.AccountTypeExpense
	if kind == accounting.DayBookIncome {
		accountType = accounting.AccountTypeIncome
	}
	category, err := s.accounts.GetOrCreateAccount(ctx, req.Category, accountType, accounting.SubTypeGeneral)
	if err != nil {
		return nil, err
	}

	mode := accounting.PaymentMode(strings.ToUpper(req.Mode))
	entry, err := accounting.NewDayBookEntry(req.Date, kind, mode, category.ID, req.Amount, req.Particulars)
	if err != nil {
		return nil, err
	}
	entry.CreatedBy = req.CreatedBy

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		voucher, err := s.postEntryVoucher(txCtx, entry, false)
		if err != nil {
			return err
		}
		entry.AttachVoucher(voucher.ID)
		return s.dayBookRepo.Save(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}
	return toDayBookResponse(entry), nil
}

// UpdateEntry rewrites a same-day entry: the original voucher is reversed and
// a fresh one posted. Older entries are closed business days.
func (s *DayBookService) UpdateEntry(ctx context.Context, id uuid.UUID, req DayBookEntryRequest) (*DayBookEntryResponse, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureSameDay(entry); err != nil {
		return nil, err
	}

	kind := accounting.DayBookKind(strings.ToUpper(req.Kind))
	accountType := accounting.AccountTypeExpense
	if kind == accounting.DayBookIncome {
		accountType = accounting.AccountTypeIncome
	}
	category, err := s.accounts.GetOrCreateAccount(ctx, req.Category, accountType, accounting.SubTypeGeneral)
	if err != nil {
		return nil, err
	}

	replacement, err := accounting.NewDayBookEntry(req.Date, kind,
		accounting.PaymentMode(strings.ToUpper(req.Mode)), category.ID, req.Amount, req.Particulars)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.postEntryVoucher(txCtx, entry, true); err != nil {
			return err
		}
		entry.EntryDate = replacement.EntryDate
		entry.Kind = replacement.Kind
		entry.PaymentMode = replacement.PaymentMode
		entry.AccountID = replacement.AccountID
		entry.Amount = replacement.Amount
		entry.Particulars = replacement.Particulars
		voucher, err := s.postEntryVoucher(txCtx, entry, false)
		if err != nil {
			return err
		}
		entry.AttachVoucher(voucher.ID)
		return s.dayBookRepo.Save(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}
	return toDayBookResponse(entry), nil
}

// DeleteEntry removes a same-day entry. The ledger is append-only, so
// deletion posts a reversing voucher instead of erasing ledger rows.
func (s *DayBookService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureSameDay(entry); err != nil {
		return err
	}

	return s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.postEntryVoucher(txCtx, entry, true); err != nil {
			return err
		}
		return s.dayBookRepo.Delete(txCtx, entry.ID)
	})
}

// GetEntryByID gets a day-book entry by ID
func (s *DayBookService) GetEntryByID(ctx context.Context, id uuid.UUID) (*DayBookEntryResponse, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDayBookResponse(entry), nil
}

// ListEntries lists day-book entries with filtering and pagination
func (s *DayBookService) ListEntries(ctx context.Context, filter DayBookListFilter) (*shared.Paginated[DayBookEntryResponse], error) {
	repoFilter := accounting.DayBookFilter{
		Filter:   shared.Filter{Page: filter.Page, PageSize: filter.PageSize},
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}
	if filter.Kind != "" {
		kind := accounting.DayBookKind(strings.ToUpper(filter.Kind))
		repoFilter.Kind = &kind
	}
	if filter.Mode != "" {
		mode := accounting.PaymentMode(strings.ToUpper(filter.Mode))
		repoFilter.PaymentMode = &mode
	}

	page, err := s.dayBookRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]DayBookEntryResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toDayBookResponse(&page.Items[i])
	}
	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// postEntryVoucher fans a day-book entry out into a balanced voucher.
// Reversed swaps the debit and credit legs.
func (s *DayBookService) postEntryVoucher(
	ctx context.Context,
	entry *accounting.DayBookEntry,
	reversed bool,
) (*VoucherResponse, error) {
	moneyAccount, err := s.vouchers.moneyAccount(ctx, entry.PaymentMode.String())
	if err != nil {
		return nil, err
	}

	categoryLine := VoucherLineRequest{AccountID: entry.AccountID, Narration: entry.Particulars}
	moneyLine := VoucherLineRequest{AccountID: moneyAccount.ID, Narration: entry.Particulars}
	moneyIn := entry.Kind == accounting.DayBookIncome
	if reversed {
		moneyIn = !moneyIn
	}
	if moneyIn {
		moneyLine.Debit = entry.Amount
		categoryLine.Credit = entry.Amount
	} else {
		moneyLine.Credit = entry.Amount
		categoryLine.Debit = entry.Amount
	}

	voucherType := accounting.VoucherTypeReceipt
	if !moneyIn {
		voucherType = accounting.VoucherTypePayment
	}
	notes := entry.Particulars
	if reversed {
		notes = "Reversal: " + notes
	}

	voucher, err := s.vouchers.createVoucherTx(ctx, voucherType, CreateVoucherRequest{
		Type:        voucherType.String(),
		Date:        entry.EntryDate,
		PaymentMode: entry.PaymentMode.String(),
		Notes:       notes,
		Lines:       []VoucherLineRequest{moneyLine, categoryLine},
		Source:      accounting.SourceRef{Type: "daybook", ID: entry.ID},
		CreatedBy:   entry.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	return toVoucherResponse(voucher), nil
}

func (s *DayBookService) findEntry(ctx context.Context, id uuid.UUID) (*accounting.DayBookEntry, error) {
	entry, err := s.dayBookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Day book entry not found")
	}
	return entry, nil
}

// ensureSameDay rejects edits to entries from a closed business day
func ensureSameDay(entry *accounting.DayBookEntry) error {
	now := time.Now()
	y1, m1, d1 := entry.EntryDate.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return shared.NewDomainError("LOCKED", "Day book entries can only be changed on the day they were recorded")
	}
	return nil
}

func toDayBookResponse(entry *accounting.DayBookEntry) *DayBookEntryResponse {
	return &DayBookEntryResponse{
		ID:          entry.ID,
		Date:        entry.EntryDate,
		Kind:        entry.Kind.String(),
		Mode:        entry.PaymentMode.String(),
		AccountID:   entry.AccountID,
		Amount:      entry.Amount,
		Particulars: entry.Particulars,
		VoucherID:   entry.VoucherID,
		CreatedAt:   entry.CreatedAt,
	}
}
