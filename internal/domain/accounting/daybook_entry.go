package accounting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/shared"
)

// DayBookKind classifies a quick day-book line as money in or money out
type DayBookKind string

const (
	DayBookIncome  DayBookKind = "INCOME"
	DayBookExpense DayBookKind = "EXPENSE"
)

// IsValid checks if the kind is a valid DayBookKind
func (k DayBookKind) IsValid() bool {
	return k == DayBookIncome || k == DayBookExpense
}

// String returns the string representation of DayBookKind
func (k DayBookKind) String() string {
	return string(k)
}

// DayBookEntry is a quick-entry income or expense line for a trading day.
// Each entry fans out into a balanced voucher when recorded, so the day book
// is a convenience surface over the ledger, not a parallel store of truth.
type DayBookEntry struct {
	shared.BaseAggregateRoot
	EntryDate   time.Time       `json:"entry_date"`
	Kind        DayBookKind     `json:"kind"`
	PaymentMode PaymentMode     `json:"payment_mode"`
	AccountID   uuid.UUID       `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Particulars string          `json:"particulars"`
	VoucherID   *uuid.UUID      `json:"voucher_id,omitempty"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty"`
}

// NewDayBookEntry creates a day-book line pending voucher fan-out
func NewDayBookEntry(
	entryDate time.Time,
	kind DayBookKind,
	mode PaymentMode,
	accountID uuid.UUID,
	amount decimal.Decimal,
	particulars string,
) (*DayBookEntry, error) {
	if entryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Entry date is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown day book kind %q", kind))
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown payment mode %q", mode))
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Day book entry account ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Day book entry amount must be positive")
	}
	if particulars == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Particulars cannot be empty")
	}
	return &DayBookEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EntryDate:         entryDate,
		Kind:              kind,
		PaymentMode:       mode,
		AccountID:         accountID,
		Amount:            amount,
		Particulars:       particulars,
	}, nil
}

// AttachVoucher links the balanced voucher generated for this entry
func (e *DayBookEntry) AttachVoucher(voucherID uuid.UUID) {
	e.VoucherID = &voucherID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}
