package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/sales"
)

// SaleModel is the persistence model for the Sale aggregate root.
// Items are embedded as JSONB; the invoice is billed and settled as a whole.
type SaleModel struct {
	AggregateModel
	SaleNumber            string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	InvoiceNumber         string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	InvoiceType           sales.InvoiceType   `gorm:"type:varchar(10);not null;index"`
	Status                sales.InvoiceStatus `gorm:"type:varchar(15);not null;index"`
	Locked                bool                `gorm:"not null;default:false"`
	PricingMode           sales.PricingMode   `gorm:"type:varchar(15);not null"`
	TaxMode               sales.TaxMode       `gorm:"type:varchar(15);not null"`
	Items                 sales.SaleItems     `gorm:"type:jsonb;not null;default:'[]'"`
	Subtotal              decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax              decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	GrossTotal            decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	RoundOffAmount        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount           decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPercent       decimal.Decimal     `gorm:"type:decimal(8,4);not null;default:0"`
	PaymentMethod         string              `gorm:"type:varchar(20)"`
	PaymentStatus         sales.PaymentStatus `gorm:"type:varchar(15);not null;index"`
	PaidAmount            decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingAmount     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0;index"`
	CreditAppliedAmount   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	DueDate               *time.Time          `gorm:"index"`
	CustomerID            *uuid.UUID          `gorm:"type:uuid;index"`
	PriceOverrideRequired bool                `gorm:"not null;default:false"`
	ApprovedBy            *uuid.UUID          `gorm:"type:uuid"`
	SaleDate              time.Time           `gorm:"not null;index"`
	Notes                 string              `gorm:"type:text"`
	CreatedBy             *uuid.UUID          `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *sales.Sale {
	return &sales.Sale{
		BaseAggregateRoot:     m.ToDomainAggregateRoot(),
		SaleNumber:            m.SaleNumber,
		InvoiceNumber:         m.InvoiceNumber,
		InvoiceType:           m.InvoiceType,
		Status:                m.Status,
		Locked:                m.Locked,
		PricingMode:           m.PricingMode,
		TaxMode:               m.TaxMode,
		Items:                 m.Items,
		Subtotal:              m.Subtotal,
		TotalTax:              m.TotalTax,
		GrossTotal:            m.GrossTotal,
		RoundOffAmount:        m.RoundOffAmount,
		TotalAmount:           m.TotalAmount,
		DiscountAmount:        m.DiscountAmount,
		DiscountPercent:       m.DiscountPercent,
		PaymentMethod:         m.PaymentMethod,
		PaymentStatus:         m.PaymentStatus,
		PaidAmount:            m.PaidAmount,
		OutstandingAmount:     m.OutstandingAmount,
		CreditAppliedAmount:   m.CreditAppliedAmount,
		DueDate:               m.DueDate,
		CustomerID:            m.CustomerID,
		PriceOverrideRequired: m.PriceOverrideRequired,
		ApprovedBy:            m.ApprovedBy,
		SaleDate:              m.SaleDate,
		Notes:                 m.Notes,
		CreatedBy:             m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain Sale entity.
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SaleNumber = s.SaleNumber
	m.InvoiceNumber = s.InvoiceNumber
	m.InvoiceType = s.InvoiceType
	m.Status = s.Status
	m.Locked = s.Locked
	m.PricingMode = s.PricingMode
	m.TaxMode = s.TaxMode
	m.Items = s.Items
	m.Subtotal = s.Subtotal
	m.TotalTax = s.TotalTax
	m.GrossTotal = s.GrossTotal
	m.RoundOffAmount = s.RoundOffAmount
	m.TotalAmount = s.TotalAmount
	m.DiscountAmount = s.DiscountAmount
	m.DiscountPercent = s.DiscountPercent
	m.PaymentMethod = s.PaymentMethod
	m.PaymentStatus = s.PaymentStatus
	m.PaidAmount = s.PaidAmount
	m.OutstandingAmount = s.OutstandingAmount
	m.CreditAppliedAmount = s.CreditAppliedAmount
	m.DueDate = s.DueDate
	m.CustomerID = s.CustomerID
	m.PriceOverrideRequired = s.PriceOverrideRequired
	m.ApprovedBy = s.ApprovedBy
	m.SaleDate = s.SaleDate
	m.Notes = s.Notes
	m.CreatedBy = s.CreatedBy
}
