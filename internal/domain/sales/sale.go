package sales

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

// InvoiceType distinguishes cash sales from credit sales
type InvoiceType string

const (
	InvoiceTypeCash   InvoiceType = "CASH"
	InvoiceTypeCredit InvoiceType = "CREDIT"
)

// IsValid checks if the type is a valid InvoiceType
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeCash || t == InvoiceTypeCredit
}

// String returns the string representation of InvoiceType
func (t InvoiceType) String() string {
	return string(t)
}

// InvoiceStatus is the sale lifecycle state
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusPosted    InvoiceStatus = "POSTED"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPosted, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// PaymentStatus tracks how much of a posted sale has been settled
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPartial   PaymentStatus = "PARTIAL"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// SaleItem is one priced invoice line. CGST/SGST carry the even GST split;
// VAT-taxed lines record the full tax in TaxAmount with zero splits.
type SaleItem struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	ListPrice     decimal.Decimal `json:"list_price"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	LineTotal     decimal.Decimal `json:"line_total"`
	BelowListFlag bool            `json:"below_list"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
}

// SaleItems is a slice of SaleItem that implements GORM Scanner/Valuer for JSONB storage
type SaleItems []SaleItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (s SaleItems) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (s *SaleItems) Scan(value interface{}) error {
	if value == nil {
		*s = SaleItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan SaleItems: unsupported type")
	}

	if len(bytes) == 0 {
		*s = SaleItems{}
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Sale is the billing document aggregate. Drafts are fully mutable; posting
// freezes the item set and fans out stock and ledger side effects. Posted
// sales change only through the dedicated edit-posted path, payments, and
// cancellation.
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber            string          `json:"sale_number"`
	InvoiceNumber         string          `json:"invoice_number"`
	InvoiceType           InvoiceType     `json:"invoice_type"`
	Status                InvoiceStatus   `json:"status"`
	Locked                bool            `json:"locked"`
	PricingMode           PricingMode     `json:"pricing_mode"`
	TaxMode               TaxMode         `json:"tax_mode"`
	Items                 SaleItems       `json:"items"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	TotalTax              decimal.Decimal `json:"total_tax"`
	GrossTotal            decimal.Decimal `json:"gross_total"`
	RoundOffAmount        decimal.Decimal `json:"round_off_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	DiscountPercent       decimal.Decimal `json:"discount_percent"`
	PaymentMethod         string          `json:"payment_method,omitempty"`
	PaymentStatus         PaymentStatus   `json:"payment_status"`
	PaidAmount            decimal.Decimal `json:"paid_amount"`
	OutstandingAmount     decimal.Decimal `json:"outstanding_amount"`
	CreditAppliedAmount   decimal.Decimal `json:"credit_applied_amount"`
	DueDate               *time.Time      `json:"due_date,omitempty"`
	CustomerID            *uuid.UUID      `json:"customer_id,omitempty"`
	PriceOverrideRequired bool            `json:"price_override_required"`
	ApprovedBy            *uuid.UUID      `json:"approved_by,omitempty"`
	SaleDate              time.Time       `json:"sale_date"`
	Notes                 string          `json:"notes,omitempty"`
	CreatedBy             *uuid.UUID      `json:"created_by,omitempty"`
}

// NewDraftSale creates a mutable draft invoice
func NewDraftSale(saleNumber, invoiceNumber string, invoiceType InvoiceType, saleDate time.Time) (*Sale, error) {
	if saleNumber == "" || invoiceNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale and invoice numbers are required")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown invoice type %q", invoiceType))
	}
	if saleDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale date is required")
	}
	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNumber:        saleNumber,
		InvoiceNumber:     invoiceNumber,
		InvoiceType:       invoiceType,
		Status:            InvoiceStatusDraft,
		PricingMode:       PricingModeRetail,
		TaxMode:           TaxModeExclusive,
		PaymentStatus:     PaymentStatusPending,
		SaleDate:          saleDate,
	}, nil
}

// IsDraft reports whether the sale is still mutable
func (s *Sale) IsDraft() bool {
	return s.Status == InvoiceStatusDraft
}

// EnsureMutable returns LOCKED unless the sale is a draft
func (s *Sale) EnsureMutable() error {
	if s.Status != InvoiceStatusDraft {
		return shared.NewDomainError("LOCKED",
			fmt.Sprintf("Sale %s is %s and cannot be modified directly", s.SaleNumber, s.Status))
	}
	return nil
}

// ReplaceItems swaps the item set and totals; drafts only
func (s *Sale) ReplaceItems(items []SaleItem, totals BillTotals) error {
	if err := s.EnsureMutable(); err != nil {
		return err
	}
	if len(items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "A sale needs at least one item")
	}
	s.applyItems(items, totals)
	s.touch()
	return nil
}

// applyItems writes the priced item set and derived totals
func (s *Sale) applyItems(items []SaleItem, totals BillTotals) {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	s.Items = items
	s.Subtotal = totals.Subtotal
	s.TotalTax = totals.TotalTax
	s.GrossTotal = totals.GrossTotal
	s.RoundOffAmount = totals.RoundOffAmount
	s.TotalAmount = totals.TotalAmount
	s.DiscountAmount = totals.BillDiscountAmount
	s.DiscountPercent = totals.BillDiscountPercent

	s.PriceOverrideRequired = false
	for _, item := range items {
		if item.BelowListFlag {
			s.PriceOverrideRequired = true
			break
		}
	}
}

// Post transitions draft → posted. Payment made at sale time is capped at the
// total; the remainder becomes the outstanding receivable.
func (s *Sale) Post(paidAtSale decimal.Decimal) error {
	if s.Status == InvoiceStatusPosted {
		return shared.NewDomainError("LOCKED", fmt.Sprintf("Sale %s is already posted", s.SaleNumber))
	}
	if s.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Sale %s is cancelled", s.SaleNumber))
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Cannot post a sale with no items")
	}
	if paidAtSale.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	if s.RequiresApproval() {
		return shared.NewDomainError("APPROVAL_REQUIRED",
			"Price override or discount beyond policy requires an approver")
	}

	if paidAtSale.GreaterThan(s.TotalAmount) {
		paidAtSale = s.TotalAmount
	}
	s.Status = InvoiceStatusPosted
	s.Locked = true
	s.PaidAmount = paidAtSale
	s.OutstandingAmount = s.TotalAmount.Sub(paidAtSale)
	s.refreshPaymentStatus()
	s.touch()
	return nil
}

// RequiresApproval reports whether posting needs an approver id
func (s *Sale) RequiresApproval() bool {
	return s.PriceOverrideRequired && s.ApprovedBy == nil
}

// Approve records the approver for price overrides and over-ceiling discounts
func (s *Sale) Approve(approverID uuid.UUID) error {
	if approverID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Approver ID cannot be empty")
	}
	s.ApprovedBy = &approverID
	s.touch()
	return nil
}

// RecordPayment applies a payment to a posted sale, capped at the remaining
// outstanding. Returns the amount actually applied.
func (s *Sale) RecordPayment(amount decimal.Decimal) (decimal.Decimal, error) {
	if s.Status != InvoiceStatusPosted {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Payments only apply to posted sales; sale %s is %s", s.SaleNumber, s.Status))
	}
	if !amount.IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	applied := decimal.Min(amount, s.OutstandingAmount)
	if applied.IsZero() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Sale %s has no outstanding balance", s.SaleNumber))
	}
	s.PaidAmount = s.PaidAmount.Add(applied)
	s.OutstandingAmount = s.OutstandingAmount.Sub(applied)
	s.refreshPaymentStatus()
	s.touch()
	return applied, nil
}

// ApplyCreditNote reduces the outstanding by a credit-note application,
// capped at min(requested, note balance, outstanding). Returns the applied
// amount.
func (s *Sale) ApplyCreditNote(requested, noteBalance decimal.Decimal) (decimal.Decimal, error) {
	if !requested.IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Credit application must be positive")
	}
	applied := decimal.Min(requested, decimal.Min(noteBalance, s.OutstandingAmount))
	if !applied.IsPositive() {
		return decimal.Zero, nil
	}
	s.CreditAppliedAmount = s.CreditAppliedAmount.Add(applied)
	s.OutstandingAmount = s.OutstandingAmount.Sub(applied)
	s.refreshPaymentStatus()
	s.touch()
	return applied, nil
}

// Reprice rewrites a posted sale's items and totals, re-deriving the
// outstanding from the amount already paid. Used only by the edit-posted
// workflow after stock deltas are reconciled.
func (s *Sale) Reprice(items []SaleItem, totals BillTotals) error {
	if s.Status != InvoiceStatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Only posted sales can be edited this way")
	}
	if len(items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "A sale needs at least one item")
	}
	s.applyItems(items, totals)
	outstanding := s.TotalAmount.Sub(s.PaidAmount).Sub(s.CreditAppliedAmount)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	s.OutstandingAmount = outstanding
	s.refreshPaymentStatus()
	s.touch()
	return nil
}

// Cancel voids the sale
func (s *Sale) Cancel() error {
	if s.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Sale %s is already cancelled", s.SaleNumber))
	}
	s.Status = InvoiceStatusCancelled
	s.touch()
	return nil
}

func (s *Sale) refreshPaymentStatus() {
	switch {
	case s.OutstandingAmount.IsZero():
		s.PaymentStatus = PaymentStatusCompleted
	case s.PaidAmount.IsPositive() || s.CreditAppliedAmount.IsPositive():
		s.PaymentStatus = PaymentStatusPartial
	default:
		s.PaymentStatus = PaymentStatusPending
	}
}

func (s *Sale) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
