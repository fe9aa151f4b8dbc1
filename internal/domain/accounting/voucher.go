package accounting

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/shared"
)

// PaymentMode indicates which money account a voucher settles through
type PaymentMode string

const (
	PaymentModeCash PaymentMode = "CASH"
	PaymentModeBank PaymentMode = "BANK"
)

// IsValid checks if the mode is a valid PaymentMode
func (m PaymentMode) IsValid() bool {
	return m == PaymentModeCash || m == PaymentModeBank
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// VoucherLine is one balanced-transaction line: a debit or credit against one account
type VoucherLine struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration string          `json:"narration,omitempty"`
}

// IsZero reports whether the line moves no value
func (l VoucherLine) IsZero() bool {
	return l.Debit.IsZero() && l.Credit.IsZero()
}

// VoucherLines is a slice of VoucherLine that implements GORM Scanner/Valuer for JSONB storage
type VoucherLines []VoucherLine

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l VoucherLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *VoucherLines) Scan(value interface{}) error {
	if value == nil {
		*l = VoucherLines{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan VoucherLines: unsupported type")
	}

	if len(bytes) == 0 {
		*l = VoucherLines{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Voucher is a balanced multi-line transaction: the user-facing grouping of
// the ledger entries produced by one business event. A voucher is immutable
// once created; only the printed flag may change afterwards.
//
// Invariant: sum(line.debit) == sum(line.credit) == TotalAmount, lines >= 2.
type Voucher struct {
	shared.BaseAggregateRoot
	VoucherNumber   string        `json:"voucher_number"`
	Type            VoucherType   `json:"type"`
	VoucherDate     time.Time     `json:"voucher_date"`
	PaymentMode     *PaymentMode  `json:"payment_mode,omitempty"`
	ReferenceNumber string        `json:"reference_number,omitempty"`
	Counterparty    string        `json:"counterparty,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Lines           VoucherLines  `json:"lines"`
	Printed         bool          `json:"printed"`
	CreatedBy       *uuid.UUID    `json:"created_by,omitempty"`
}

// NewVoucher creates a balanced voucher. Zero-amount lines are dropped before
// validation; at least two meaningful lines must remain and debits must equal
// credits with a positive total.
func NewVoucher(
	voucherNumber string,
	voucherType VoucherType,
	voucherDate time.Time,
	lines []VoucherLine,
) (*Voucher, error) {
	if voucherNumber == "" {
		return nil, shared.NewDomainError("INVALID_VOUCHER_NUMBER", "Voucher number cannot be empty")
	}
	if !voucherType.IsValid() {
		return nil, shared.NewDomainError("INVALID_VOUCHER_TYPE", fmt.Sprintf("Unknown voucher type %q", voucherType))
	}
	if voucherDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_VOUCHER_DATE", "Voucher date is required")
	}

	kept := make([]VoucherLine, 0, len(lines))
	for _, line := range lines {
		if line.IsZero() {
			continue
		}
		if line.AccountID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ACCOUNT", "Voucher line account ID cannot be empty")
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Voucher line amounts cannot be negative")
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "A voucher line cannot carry both debit and credit")
		}
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		kept = append(kept, line)
	}

	if len(kept) < 2 {
		return nil, shared.NewDomainError("UNBALANCED_VOUCHER", "A voucher needs at least two non-zero lines")
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, line := range kept {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		return nil, shared.NewDomainError("UNBALANCED_VOUCHER",
			fmt.Sprintf("Voucher debits %s do not equal credits %s", totalDebit, totalCredit))
	}
	if !totalDebit.IsPositive() {
		return nil, shared.NewDomainError("UNBALANCED_VOUCHER", "Voucher total must be positive")
	}

	return &Voucher{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VoucherNumber:     voucherNumber,
		Type:              voucherType,
		VoucherDate:       voucherDate,
		TotalAmount:       totalDebit,
		Lines:             kept,
	}, nil
}

// SetPaymentMode records which money account the voucher settles through
func (v *Voucher) SetPaymentMode(mode PaymentMode) error {
	if !mode.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown payment mode %q", mode))
	}
	v.PaymentMode = &mode
	return nil
}

// SetReference records an external reference number
func (v *Voucher) SetReference(reference string) {
	v.ReferenceNumber = reference
}

// SetCounterparty records the other party to the transaction
func (v *Voucher) SetCounterparty(name string) {
	v.Counterparty = name
}

// SetNotes records free-text notes
func (v *Voucher) SetNotes(notes string) {
	v.Notes = notes
}

// SetCreatedBy records the creating user
func (v *Voucher) SetCreatedBy(userID uuid.UUID) {
	v.CreatedBy = &userID
}

// MarkPrinted flags the voucher as printed; the only post-creation mutation
func (v *Voucher) MarkPrinted() {
	v.Printed = true
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// TotalDebit returns the sum of all debit lines
func (v *Voucher) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range v.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit returns the sum of all credit lines
func (v *Voucher) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range v.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// IsBalanced reports whether debits equal credits
func (v *Voucher) IsBalanced() bool {
	return v.TotalDebit().Equal(v.TotalCredit())
}
