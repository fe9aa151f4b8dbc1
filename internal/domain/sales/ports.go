package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInfo is the catalog view the sales engine needs to price and
// validate one line
type ProductInfo struct {
	ID                 uuid.UUID
	Name               string
	SKU                string
	Prices             ListPrices
	TaxRate            decimal.Decimal
	TaxScheme          TaxScheme
	StockQuantity      decimal.Decimal
	AllowNegativeStock bool
	TrackExpiry        bool
	ExpiryDate         *time.Time
}

// ProductCatalog is the port to the product subsystem. TryDecrementStock must
// be an atomic conditional update so two posts cannot both pass an
// availability check only one can satisfy; it returns false when stock would
// go negative and the product does not allow it.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error)
	TryDecrementStock(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) (bool, error)
	RestoreStock(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) error
}

// CustomerInfo is the directory view needed for credit checks and pricing
type CustomerInfo struct {
	ID                 uuid.UUID
	Name               string
	CreditLimit        decimal.Decimal
	OutstandingBalance decimal.Decimal
	Blocked            bool
}

// CustomerDirectory is the port to customer records
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerInfo, error)
	PriceOverride(ctx context.Context, customerID, productID uuid.UUID) (decimal.Decimal, error)
	Block(ctx context.Context, customerID uuid.UUID, reason string) error
}

// CustomerLedgerService posts receivable movements to the customer's ledger
type CustomerLedgerService interface {
	PostInvoiceDebit(ctx context.Context, customerID, saleID uuid.UUID, invoiceNumber string, amount decimal.Decimal) error
	PostPaymentCredit(ctx context.Context, customerID, saleID uuid.UUID, invoiceNumber string, amount decimal.Decimal) error
	PostCreditAdjustment(ctx context.Context, customerID, saleID uuid.UUID, invoiceNumber string, amount decimal.Decimal) error
}

// CreditNoteService depletes credit-note balances
type CreditNoteService interface {
	Balance(ctx context.Context, noteID uuid.UUID) (decimal.Decimal, error)
	Apply(ctx context.Context, noteID, saleID uuid.UUID, amount decimal.Decimal) error
}
