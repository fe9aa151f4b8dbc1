package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/accounting"
)

// AccountModel is the persistence model for the Account aggregate root.
type AccountModel struct {
	AggregateModel
	Code           string                    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name           string                    `gorm:"type:varchar(200);not null"`
	NormalizedName string                    `gorm:"type:varchar(200);not null;uniqueIndex:idx_accounts_type_name"`
	Type           accounting.AccountType    `gorm:"type:varchar(20);not null;index;uniqueIndex:idx_accounts_type_name"`
	SubType        accounting.AccountSubType `gorm:"type:varchar(20);not null;index"`
	OpeningBalance decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	OpeningSide    accounting.BalanceSide    `gorm:"type:varchar(10);not null;default:'DEBIT'"`
	Active         bool                      `gorm:"not null;default:true;index"`
	System         bool                      `gorm:"not null;default:false"`
	Description    string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *accounting.Account {
	return &accounting.Account{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Type:              m.Type,
		SubType:           m.SubType,
		OpeningBalance:    m.OpeningBalance,
		OpeningSide:       m.OpeningSide,
		Active:            m.Active,
		System:            m.System,
		Description:       m.Description,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *accounting.Account) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Code = a.Code
	m.Name = a.Name
	m.NormalizedName = accounting.NormalizeAccountName(a.Name)
	m.Type = a.Type
	m.SubType = a.SubType
	m.OpeningBalance = a.OpeningBalance
	m.OpeningSide = a.OpeningSide
	m.Active = a.Active
	m.System = a.System
	m.Description = a.Description
}

// LedgerEntryModel is the persistence model for the append-only ledger.
// Rows are never updated after insert except for the reconciliation flag.
type LedgerEntryModel struct {
	BaseModel
	AccountID       uuid.UUID              `gorm:"type:uuid;not null;index:idx_ledger_account_date"`
	EntryDate       time.Time              `gorm:"not null;index:idx_ledger_account_date"`
	VoucherType     accounting.VoucherType `gorm:"type:varchar(20);not null;index"`
	VoucherID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	VoucherNumber   string                 `gorm:"type:varchar(50);not null;index"`
	ReferenceNumber string                 `gorm:"type:varchar(100)"`
	Narration       string                 `gorm:"type:text"`
	Debit           decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Credit          decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	RunningBalance  decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Reconciled      bool                   `gorm:"not null;default:false;index"`
	ReconciledAt    *time.Time
	SourceType      string     `gorm:"type:varchar(30)"`
	SourceID        *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy       *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry entity.
func (m *LedgerEntryModel) ToDomain() *accounting.LedgerEntry {
	entry := &accounting.LedgerEntry{
		BaseEntity:      m.BaseModel.ToDomain(),
		AccountID:       m.AccountID,
		EntryDate:       m.EntryDate,
		VoucherType:     m.VoucherType,
		VoucherID:       m.VoucherID,
		VoucherNumber:   m.VoucherNumber,
		ReferenceNumber: m.ReferenceNumber,
		Narration:       m.Narration,
		Debit:           m.Debit,
		Credit:          m.Credit,
		RunningBalance:  m.RunningBalance,
		Reconciled:      m.Reconciled,
		ReconciledAt:    m.ReconciledAt,
		CreatedBy:       m.CreatedBy,
	}
	if m.SourceID != nil {
		entry.Source = accounting.SourceRef{Type: m.SourceType, ID: *m.SourceID}
	}
	return entry
}

// FromDomain populates the persistence model from a domain LedgerEntry entity.
func (m *LedgerEntryModel) FromDomain(e *accounting.LedgerEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.AccountID = e.AccountID
	m.EntryDate = e.EntryDate
	m.VoucherType = e.VoucherType
	m.VoucherID = e.VoucherID
	m.VoucherNumber = e.VoucherNumber
	m.ReferenceNumber = e.ReferenceNumber
	m.Narration = e.Narration
	m.Debit = e.Debit
	m.Credit = e.Credit
	m.RunningBalance = e.RunningBalance
	m.Reconciled = e.Reconciled
	m.ReconciledAt = e.ReconciledAt
	m.CreatedBy = e.CreatedBy
	if e.Source.ID != uuid.Nil {
		m.SourceType = e.Source.Type
		sourceID := e.Source.ID
		m.SourceID = &sourceID
	}
}

// VoucherModel is the persistence model for the Voucher aggregate root.
// Lines are embedded as JSONB; the queryable per-account rows live in
// ledger_entries.
type VoucherModel struct {
	AggregateModel
	VoucherNumber   string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type            accounting.VoucherType  `gorm:"type:varchar(20);not null;index"`
	VoucherDate     time.Time               `gorm:"not null;index"`
	PaymentMode     *accounting.PaymentMode `gorm:"type:varchar(10);index"`
	ReferenceNumber string                  `gorm:"type:varchar(100)"`
	Counterparty    string                  `gorm:"type:varchar(200)"`
	Notes           string                  `gorm:"type:text"`
	TotalAmount     decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Lines           accounting.VoucherLines `gorm:"type:jsonb;not null;default:'[]'"`
	Printed         bool                    `gorm:"not null;default:false"`
	CreatedBy       *uuid.UUID              `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (VoucherModel) TableName() string {
	return "vouchers"
}

// ToDomain converts the persistence model to a domain Voucher entity.
func (m *VoucherModel) ToDomain() *accounting.Voucher {
	return &accounting.Voucher{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		VoucherNumber:     m.VoucherNumber,
		Type:              m.Type,
		VoucherDate:       m.VoucherDate,
		PaymentMode:       m.PaymentMode,
		ReferenceNumber:   m.ReferenceNumber,
		Counterparty:      m.Counterparty,
		Notes:             m.Notes,
		TotalAmount:       m.TotalAmount,
		Lines:             m.Lines,
		Printed:           m.Printed,
		CreatedBy:         m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain Voucher entity.
func (m *VoucherModel) FromDomain(v *accounting.Voucher) {
	m.FromDomainAggregateRoot(v.BaseAggregateRoot)
	m.VoucherNumber = v.VoucherNumber
	m.Type = v.Type
	m.VoucherDate = v.VoucherDate
	m.PaymentMode = v.PaymentMode
	m.ReferenceNumber = v.ReferenceNumber
	m.Counterparty = v.Counterparty
	m.Notes = v.Notes
	m.TotalAmount = v.TotalAmount
	m.Lines = v.Lines
	m.Printed = v.Printed
	m.CreatedBy = v.CreatedBy
}

// OpeningBalanceModel is the persistence model for the per-year opening
// balance setup record.
type OpeningBalanceModel struct {
	AggregateModel
	FinancialYear string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	AsOfDate      time.Time `gorm:"not null"`
	Locked        bool      `gorm:"not null;default:false"`
	LockedAt      *time.Time
	LockedBy      *uuid.UUID `gorm:"type:uuid"`
	Notes         string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OpeningBalanceModel) TableName() string {
	return "opening_balance_setups"
}

// ToDomain converts the persistence model to a domain OpeningBalanceSetup entity.
func (m *OpeningBalanceModel) ToDomain() *accounting.OpeningBalanceSetup {
	return &accounting.OpeningBalanceSetup{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FinancialYear:     m.FinancialYear,
		AsOfDate:          m.AsOfDate,
		Locked:            m.Locked,
		LockedAt:          m.LockedAt,
		LockedBy:          m.LockedBy,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain OpeningBalanceSetup entity.
func (m *OpeningBalanceModel) FromDomain(s *accounting.OpeningBalanceSetup) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.FinancialYear = s.FinancialYear
	m.AsOfDate = s.AsOfDate
	m.Locked = s.Locked
	m.LockedAt = s.LockedAt
	m.LockedBy = s.LockedBy
	m.Notes = s.Notes
}

// DayBookEntryModel is the persistence model for quick income/expense entries.
type DayBookEntryModel struct {
	AggregateModel
	EntryDate   time.Time              `gorm:"not null;index"`
	Kind        accounting.DayBookKind `gorm:"type:varchar(10);not null;index"`
	PaymentMode accounting.PaymentMode `gorm:"type:varchar(10);not null"`
	AccountID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Particulars string                 `gorm:"type:varchar(500);not null"`
	VoucherID   *uuid.UUID             `gorm:"type:uuid;index"`
	CreatedBy   *uuid.UUID             `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (DayBookEntryModel) TableName() string {
	return "daybook_entries"
}

// ToDomain converts the persistence model to a domain DayBookEntry entity.
func (m *DayBookEntryModel) ToDomain() *accounting.DayBookEntry {
	return &accounting.DayBookEntry{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		EntryDate:         m.EntryDate,
		Kind:              m.Kind,
		PaymentMode:       m.PaymentMode,
		AccountID:         m.AccountID,
		Amount:            m.Amount,
		Particulars:       m.Particulars,
		VoucherID:         m.VoucherID,
		CreatedBy:         m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain DayBookEntry entity.
func (m *DayBookEntryModel) FromDomain(e *accounting.DayBookEntry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.EntryDate = e.EntryDate
	m.Kind = e.Kind
	m.PaymentMode = e.PaymentMode
	m.AccountID = e.AccountID
	m.Amount = e.Amount
	m.Particulars = e.Particulars
	m.VoucherID = e.VoucherID
	m.CreatedBy = e.CreatedBy
}

// DocumentSequenceModel backs gap-free document numbering. One row per
// sequence key; NextValue is reserved under a row lock.
type DocumentSequenceModel struct {
	Key       string    `gorm:"type:varchar(100);primary_key"`
	NextValue int64     `gorm:"not null;default:1"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
