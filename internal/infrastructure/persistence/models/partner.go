package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spark7/backoffice/internal/domain/sales"
)

// ProductModel is the persistence model for catalog products as the sales
// engine sees them.
type ProductModel struct {
	BaseModel
	Name               string          `gorm:"type:varchar(200);not null"`
	SKU                string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	RetailPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WholesalePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate            decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	TaxScheme          sales.TaxScheme `gorm:"type:varchar(10);not null;default:'GST'"`
	StockQuantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AllowNegativeStock bool            `gorm:"not null;default:false"`
	TrackExpiry        bool            `gorm:"not null;default:false"`
	ExpiryDate         *time.Time
	Active             bool `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToInfo converts the persistence model to the catalog view the sales
// engine prices against. The customer override slot is filled by the caller.
func (m *ProductModel) ToInfo() *sales.ProductInfo {
	return &sales.ProductInfo{
		ID:   m.ID,
		Name: m.Name,
		SKU:  m.SKU,
		Prices: sales.ListPrices{
			Wholesale: m.WholesalePrice,
			Retail:    m.RetailPrice,
		},
		TaxRate:            m.TaxRate,
		TaxScheme:          m.TaxScheme,
		StockQuantity:      m.StockQuantity,
		AllowNegativeStock: m.AllowNegativeStock,
		TrackExpiry:        m.TrackExpiry,
		ExpiryDate:         m.ExpiryDate,
	}
}

// CustomerModel is the persistence model for customer records.
type CustomerModel struct {
	BaseModel
	Name               string          `gorm:"type:varchar(200);not null"`
	Phone              string          `gorm:"type:varchar(32);index"`
	CreditLimit        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Blocked            bool            `gorm:"not null;default:false"`
	BlockedReason      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToInfo converts the persistence model to the directory view used for
// credit checks.
func (m *CustomerModel) ToInfo() *sales.CustomerInfo {
	return &sales.CustomerInfo{
		ID:                 m.ID,
		Name:               m.Name,
		CreditLimit:        m.CreditLimit,
		OutstandingBalance: m.OutstandingBalance,
		Blocked:            m.Blocked,
	}
}

// CustomerPriceOverrideModel pins a negotiated unit price for one customer
// and product.
type CustomerPriceOverrideModel struct {
	BaseModel
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_override,priority:1"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_override,priority:2"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (CustomerPriceOverrideModel) TableName() string {
	return "customer_price_overrides"
}

// CreditNoteModel is the persistence model for customer credit notes.
type CreditNoteModel struct {
	BaseModel
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	NoteNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CreditNoteModel) TableName() string {
	return "credit_notes"
}

// CustomerLedgerEntryModel records one receivable movement on a customer.
type CustomerLedgerEntryModel struct {
	BaseModel
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_customer_ledger,priority:1"`
	SaleID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null"`
	Kind          string          `gorm:"type:varchar(20);not null"` // INVOICE | PAYMENT | CREDIT_NOTE
	Debit         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Credit        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	EntryDate     time.Time       `gorm:"not null;index:idx_customer_ledger,priority:2"`
}

// TableName returns the table name for GORM
func (CustomerLedgerEntryModel) TableName() string {
	return "customer_ledger_entries"
}
