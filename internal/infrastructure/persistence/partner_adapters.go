package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/spark7/backoffice/internal/domain/sales"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/spark7/backoffice/internal/infrastructure/persistence/models"
)

// GormProductCatalog implements the sales.ProductCatalog port on the
// products table.
type GormProductCatalog struct {
	db *txAwareDB
}

// NewGormProductCatalog creates a new gorm-backed product catalog
func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: &txAwareDB{db: db}}
}

// GetProduct returns the catalog view of one product, or nil when absent
func (r *GormProductCatalog) GetProduct(ctx context.Context, productID uuid.UUID) (*sales.ProductInfo, error) {
	var model models.ProductModel
	err := r.db.session(ctx).Where("id = ?", productID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToInfo(), nil
}

// TryDecrementStock conditionally decrements stock with a single atomic
// update. It reports false when stock would go negative and the product
// does not allow it.
func (r *GormProductCatalog) TryDecrementStock(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) (bool, error) {
	result := r.db.session(ctx).Model(&models.ProductModel{}).
		Where("id = ? AND (allow_negative_stock OR stock_quantity >= ?)", productID, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RestoreStock adds quantity back after an edit or cancellation
func (r *GormProductCatalog) RestoreStock(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.session(ctx).Model(&models.ProductModel{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("NOT_FOUND", "Product not found")
	}
	return nil
}

// GormCustomerDirectory implements the sales.CustomerDirectory port on the
// customers and customer_price_overrides tables.
type GormCustomerDirectory struct {
	db *txAwareDB
}

// NewGormCustomerDirectory creates a new gorm-backed customer directory
func NewGormCustomerDirectory(db *gorm.DB) *GormCustomerDirectory {
	return &GormCustomerDirectory{db: &txAwareDB{db: db}}
}

// GetCustomer returns the directory view of one customer, or nil when absent
func (r *GormCustomerDirectory) GetCustomer(ctx context.Context, customerID uuid.UUID) (*sales.CustomerInfo, error) {
	var model models.CustomerModel
	err := r.db.session(ctx).Where("id = ?", customerID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToInfo(), nil
}

// PriceOverride returns the negotiated unit price for a customer/product
// pair, or zero when none is pinned
func (r *GormCustomerDirectory) PriceOverride(ctx context.Context, customerID, productID uuid.UUID) (decimal.Decimal, error) {
	var model models.CustomerPriceOverrideModel
	err := r.db.session(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return model.UnitPrice, nil
}

// Block flags a customer so further credit sales are refused
func (r *GormCustomerDirectory) Block(ctx context.Context, customerID uuid.UUID, reason string) error {
	result := r.db.session(ctx).Model(&models.CustomerModel{}).
		Where("id = ?", customerID).
		Updates(map[string]interface{}{
			"blocked":        true,
			"blocked_reason": reason,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return nil
}

// GormCustomerLedger implements the sales.CustomerLedgerService port. Each
// posting appends a receivable movement and nudges the customer's
// outstanding balance in the same statement batch.
type GormCustomerLedger struct {
	db *txAwareDB
}

// NewGormCustomerLedger creates a new gorm-backed customer ledger
func NewGormCustomerLedger(db *gorm.DB) *GormCustomerLedger {
	return &GormCustomerLedger{db: &txAwareDB{db: db}}
}

// PostInvoiceDebit increases what the customer owes
func (r *GormCustomerLedger) PostInvoiceDebit(ctx context.Context, customerID, saleID uuid.UUID, invoiceNumber string, amount decimal.Decimal) error {
	return r.post(ctx, customerID, saleID, invoiceNumber, "INVOICE", amount, decimal.Zero)
}

// PostPaymentCredit reduces what the customer owes
func (r *GormCustomerLedger) PostPaymentCredit(ctx context.Context, customerID, saleID uuid.UUID, invoiceNumber string, amount decimal.Decimal) error {
	return r.post(ctx, customerID, saleID, invoiceNumber, "PAYMENT", decimal.Zero, amount)
}

// PostCreditAdjustment reduces the receivable by an applied credit note
func (r *GormCustomerLedger) PostCreditAdjustment(ctx context.Context, customerID, saleID uuid.UUID, invoiceNumber string, amount decimal.Decimal) error {
	return r.post(ctx, customerID, saleID, invoiceNumber, "CREDIT_NOTE", decimal.Zero, amount)
}

func (r *GormCustomerLedger) post(ctx context.Context, customerID, saleID uuid.UUID, invoiceNumber, kind string, debit, credit decimal.Decimal) error {
	session := r.db.session(ctx)

	entry := models.CustomerLedgerEntryModel{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		CustomerID:    customerID,
		SaleID:        saleID,
		InvoiceNumber: invoiceNumber,
		Kind:          kind,
		Debit:         debit,
		Credit:        credit,
		EntryDate:     time.Now(),
	}
	if err := session.Create(&entry).Error; err != nil {
		return err
	}

	result := session.Model(&models.CustomerModel{}).
		Where("id = ?", customerID).
		Updates(map[string]interface{}{
			"outstanding_balance": gorm.Expr("outstanding_balance + ? - ?", debit, credit),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return nil
}

// GormCreditNoteService implements the sales.CreditNoteService port.
type GormCreditNoteService struct {
	db *txAwareDB
}

// NewGormCreditNoteService creates a new gorm-backed credit note service
func NewGormCreditNoteService(db *gorm.DB) *GormCreditNoteService {
	return &GormCreditNoteService{db: &txAwareDB{db: db}}
}

// Balance returns the remaining balance on a credit note
func (r *GormCreditNoteService) Balance(ctx context.Context, noteID uuid.UUID) (decimal.Decimal, error) {
	var model models.CreditNoteModel
	err := r.db.session(ctx).Where("id = ?", noteID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, shared.NewDomainError("NOT_FOUND", "Credit note not found")
		}
		return decimal.Zero, err
	}
	return model.Balance, nil
}

// Apply depletes a credit note by the applied amount. The conditional
// update refuses to take the balance below zero.
func (r *GormCreditNoteService) Apply(ctx context.Context, noteID, saleID uuid.UUID, amount decimal.Decimal) error {
	result := r.db.session(ctx).Model(&models.CreditNoteModel{}).
		Where("id = ? AND balance >= ?", noteID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit note balance is insufficient")
	}
	return nil
}

// Interface conformance checks
var (
	_ sales.ProductCatalog        = (*GormProductCatalog)(nil)
	_ sales.CustomerDirectory     = (*GormCustomerDirectory)(nil)
	_ sales.CustomerLedgerService = (*GormCustomerLedger)(nil)
	_ sales.CreditNoteService     = (*GormCreditNoteService)(nil)
)
