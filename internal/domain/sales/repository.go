package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/shared"
)

// SaleFilter defines filtering options for sale queries
type SaleFilter struct {
	shared.Filter
	InvoiceType   *InvoiceType   // Filter by cash or credit
	Status        *InvoiceStatus // Filter by lifecycle status
	PaymentStatus *PaymentStatus // Filter by settlement status
	CustomerID    *uuid.UUID     // Filter by customer
	FromDate      *time.Time     // Filter by sale date range start
	ToDate        *time.Time     // Filter by sale date range end
}

// SalesSummary aggregates sales activity over a period
type SalesSummary struct {
	Count            int64           `json:"count"`
	Revenue          decimal.Decimal `json:"revenue"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	CashSales        decimal.Decimal `json:"cash_sales"`
	CreditSales      decimal.Decimal `json:"credit_sales"`
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindBySaleNumber finds a sale by its sale number
	FindBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error)

	// FindAll finds sales matching the filter
	FindAll(ctx context.Context, filter SaleFilter) (*shared.Paginated[Sale], error)

	// Save creates or updates a sale with its items
	Save(ctx context.Context, sale *Sale) error

	// Summarize aggregates posted sales over a period
	Summarize(ctx context.Context, from, to time.Time) (*SalesSummary, error)

	// Count returns the number of sales matching the filter
	Count(ctx context.Context, filter SaleFilter) (int64, error)
}
