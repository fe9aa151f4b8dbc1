package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/shared"
)

// VoucherType classifies the business transaction behind a ledger entry
type VoucherType string

const (
	VoucherTypeReceipt  VoucherType = "RECEIPT"
	VoucherTypePayment  VoucherType = "PAYMENT"
	VoucherTypeJournal  VoucherType = "JOURNAL"
	VoucherTypeTransfer VoucherType = "TRANSFER"
	VoucherTypeOpening  VoucherType = "OPENING"
	VoucherTypeSalary   VoucherType = "SALARY"
	VoucherTypeContract VoucherType = "CONTRACT"
	VoucherTypeSales    VoucherType = "SALES"
)

// IsValid checks if the type is a valid VoucherType
func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherTypeReceipt, VoucherTypePayment, VoucherTypeJournal, VoucherTypeTransfer,
		VoucherTypeOpening, VoucherTypeSalary, VoucherTypeContract, VoucherTypeSales:
		return true
	}
	return false
}

// String returns the string representation of VoucherType
func (t VoucherType) String() string {
	return string(t)
}

// Prefix returns the document-number prefix used for this voucher type
func (t VoucherType) Prefix() string {
	switch t {
	case VoucherTypeReceipt:
		return "RV"
	case VoucherTypePayment:
		return "PV"
	case VoucherTypeJournal:
		return "JV"
	case VoucherTypeTransfer:
		return "TR"
	case VoucherTypeOpening:
		return "OB"
	case VoucherTypeSalary:
		return "SAL"
	case VoucherTypeContract:
		return "CON"
	case VoucherTypeSales:
		return "INV"
	default:
		return "VCH"
	}
}

// SourceRef links a ledger entry back to the document that produced it
type SourceRef struct {
	Type string    `json:"type,omitempty"` // e.g. "sale", "salary_payment", "daybook"
	ID   uuid.UUID `json:"id,omitempty"`
}

// LedgerEntry is one append-only debit-or-credit line against one account.
// Entries are never updated after creation except for the reconciliation
// toggle, and never deleted; corrections happen by posting reversals.
//
// Invariant: within one account, ordered by (entry date, creation time),
// running_balance[i] = running_balance[i-1] + debit[i] - credit[i].
type LedgerEntry struct {
	shared.BaseEntity
	AccountID       uuid.UUID       `json:"account_id"`
	EntryDate       time.Time       `json:"entry_date"`
	VoucherType     VoucherType     `json:"voucher_type"`
	VoucherID       uuid.UUID       `json:"voucher_id"`
	VoucherNumber   string          `json:"voucher_number"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Narration       string          `json:"narration,omitempty"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	RunningBalance  decimal.Decimal `json:"running_balance"`
	Reconciled      bool            `json:"reconciled"`
	ReconciledAt    *time.Time      `json:"reconciled_at,omitempty"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
	Source          SourceRef       `json:"source,omitempty"`
}

// NewLedgerEntry creates a ledger entry. Exactly one of debit/credit must be
// positive; the running balance is filled in by the posting service once the
// prior balance is known.
func NewLedgerEntry(
	accountID uuid.UUID,
	entryDate time.Time,
	voucherType VoucherType,
	debit, credit decimal.Decimal,
) (*LedgerEntry, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if entryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date is required")
	}
	if !voucherType.IsValid() {
		return nil, shared.NewDomainError("INVALID_VOUCHER_TYPE", "Voucher type is not valid")
	}
	if debit.IsNegative() || credit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Debit and credit amounts cannot be negative")
	}
	if debit.IsPositive() == credit.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Exactly one of debit or credit must be positive")
	}

	return &LedgerEntry{
		BaseEntity:  shared.NewBaseEntity(),
		AccountID:   accountID,
		EntryDate:   entryDate,
		VoucherType: voucherType,
		Debit:       debit,
		Credit:      credit,
	}, nil
}

// Amount returns the signed movement of this entry (debit positive)
func (e *LedgerEntry) Amount() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// SetRunningBalance records the account balance immediately after this entry
func (e *LedgerEntry) SetRunningBalance(priorBalance decimal.Decimal) {
	e.RunningBalance = priorBalance.Add(e.Amount())
}

// Reconcile marks the entry as matched against an external statement
func (e *LedgerEntry) Reconcile() {
	if e.Reconciled {
		return
	}
	now := time.Now()
	e.Reconciled = true
	e.ReconciledAt = &now
	e.UpdatedAt = now
}

// Unreconcile clears the reconciliation mark
func (e *LedgerEntry) Unreconcile() {
	if !e.Reconciled {
		return
	}
	e.Reconciled = false
	e.ReconciledAt = nil
	e.UpdatedAt = time.Now()
}
