package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appaccounting "github.com/spark7/backoffice/internal/application/accounting"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/domain/sales"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/spark7/backoffice/internal/domain/shared/service"
)

// ReceiptPoster posts money-in vouchers for sales. *accounting.VoucherService
// satisfies it.
type ReceiptPoster interface {
	SalesReceipt(ctx context.Context, req appaccounting.SalesReceiptRequest) (*appaccounting.VoucherResponse, error)
}

// SalesService drives the invoice lifecycle: pricing, posting with stock and
// ledger fan-out, payments, and analytics
type SalesService struct {
	uow            shared.UnitOfWork
	saleRepo       sales.SaleRepository
	catalog        sales.ProductCatalog
	customers      sales.CustomerDirectory
	customerLedger sales.CustomerLedgerService
	creditNotes    sales.CreditNoteService
	vouchers       ReceiptPoster
	numbers        service.NumberGenerator
	policy         *sales.DiscountPolicy
}

// NewSalesService creates a new SalesService
func NewSalesService(
	uow shared.UnitOfWork,
	saleRepo sales.SaleRepository,
	catalog sales.ProductCatalog,
	customers sales.CustomerDirectory,
	customerLedger sales.CustomerLedgerService,
	creditNotes sales.CreditNoteService,
	vouchers ReceiptPoster,
	numbers service.NumberGenerator,
	policy *sales.DiscountPolicy,
) *SalesService {
	return &SalesService{
		uow:            uow,
		saleRepo:       saleRepo,
		catalog:        catalog,
		customers:      customers,
		customerLedger: customerLedger,
		creditNotes:    creditNotes,
		vouchers:       vouchers,
		numbers:        numbers,
		policy:         policy,
	}
}

// SaleItemRequest is one requested invoice line
type SaleItemRequest struct {
	ProductID       uuid.UUID        `json:"product_id" binding:"required"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountFlat    decimal.Decimal  `json:"discount_flat"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
}

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	InvoiceType         string            `json:"invoice_type" binding:"required"` // cash | credit
	CustomerID          *uuid.UUID        `json:"customer_id"`
	SaleDate            time.Time         `json:"sale_date" binding:"required"`
	DueDate             *time.Time        `json:"due_date"`
	PricingMode         string            `json:"pricing_mode"`
	TaxMode             string            `json:"tax_mode"`
	Items               []SaleItemRequest `json:"items" binding:"required"`
	BillDiscountFlat    decimal.Decimal   `json:"bill_discount_flat"`
	BillDiscountPercent decimal.Decimal   `json:"bill_discount_percent"`
	RoundOff            bool              `json:"round_off"`
	PaymentMethod       string            `json:"payment_method"`
	PaidAmount          decimal.Decimal   `json:"paid_amount"`
	CreditNoteID        *uuid.UUID        `json:"credit_note_id"`
	CreditNoteAmount    decimal.Decimal   `json:"credit_note_amount"`
	OverrideCreditLimit bool              `json:"override_credit_limit"`
	ApprovedBy          *uuid.UUID        `json:"approved_by"`
	PostImmediately     bool              `json:"post_immediately"`
	Notes               string            `json:"notes"`
	Role                string            `json:"-"` // Set from JWT context
	CreatedBy           *uuid.UUID        `json:"-"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID                    uuid.UUID        `json:"id"`
	SaleNumber            string           `json:"sale_number"`
	InvoiceNumber         string           `json:"invoice_number"`
	InvoiceType           string           `json:"invoice_type"`
	Status                string           `json:"status"`
	PaymentStatus         string           `json:"payment_status"`
	Items                 []sales.SaleItem `json:"items"`
	Subtotal              decimal.Decimal  `json:"subtotal"`
	TotalTax              decimal.Decimal  `json:"total_tax"`
	GrossTotal            decimal.Decimal  `json:"gross_total"`
	RoundOffAmount        decimal.Decimal  `json:"round_off_amount"`
	TotalAmount           decimal.Decimal  `json:"total_amount"`
	PaidAmount            decimal.Decimal  `json:"paid_amount"`
	OutstandingAmount     decimal.Decimal  `json:"outstanding_amount"`
	CreditAppliedAmount   decimal.Decimal  `json:"credit_applied_amount"`
	CustomerID            *uuid.UUID       `json:"customer_id,omitempty"`
	PriceOverrideRequired bool             `json:"price_override_required"`
	SaleDate              time.Time        `json:"sale_date"`
	CreatedAt             time.Time        `json:"created_at"`
}

// SaleListFilter defines filtering options for sale list queries
type SaleListFilter struct {
	InvoiceType   string     `form:"invoice_type"`
	Status        string     `form:"status"`
	PaymentStatus string     `form:"payment_status"`
	CustomerID    *uuid.UUID
	FromDate      *time.Time
	ToDate        *time.Time
	SortBy        string     `form:"sort_by"`
	SortOrder     string     `form:"sort_order"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// CreateSale creates a draft sale, or prices and posts it in one step when
// PostImmediately is set
func (s *SalesService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	invoiceType := sales.InvoiceType(strings.ToUpper(req.InvoiceType))
	if invoiceType == sales.InvoiceTypeCredit && req.CustomerID == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Credit sales need a customer")
	}

	saleNumber, err := s.numbers.Next(ctx, "sale", service.NumberFormat{Prefix: "S", Pad: 6})
	if err != nil {
		return nil, err
	}
	invoiceNumber, err := s.numbers.Next(ctx, "invoice", service.NumberFormat{
		Prefix:   accounting.VoucherTypeSales.Prefix(),
		DatePart: true,
		Pad:      6,
	})
	if err != nil {
		return nil, err
	}

	sale, err := sales.NewDraftSale(saleNumber, invoiceNumber, invoiceType, req.SaleDate)
	if err != nil {
		return nil, err
	}
	sale.CustomerID = req.CustomerID
	sale.DueDate = req.DueDate
	sale.PaymentMethod = req.PaymentMethod
	sale.Notes = req.Notes
	sale.CreatedBy = req.CreatedBy
	if req.PricingMode != "" {
		sale.PricingMode = sales.PricingMode(strings.ToUpper(req.PricingMode))
	}
	if req.TaxMode != "" {
		sale.TaxMode = sales.TaxMode(strings.ToUpper(req.TaxMode))
	}

	items, priced, totals, err := s.priceItems(ctx, sale, req)
	if err != nil {
		return nil, err
	}
	if err := sale.ReplaceItems(items, totals); err != nil {
		return nil, err
	}
	if s.policy.RequiresApproval(req.Role, priced, totals.BillDiscountPercent) {
		sale.PriceOverrideRequired = true
	}
	if req.ApprovedBy != nil {
		if err := sale.Approve(*req.ApprovedBy); err != nil {
			return nil, err
		}
	}

	if !req.PostImmediately {
		if err := s.saleRepo.Save(ctx, sale); err != nil {
			return nil, err
		}
		return toSaleResponse(sale), nil
	}

	if err := s.postSale(ctx, sale, req); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// PostSaleRequest carries posting-time settlement details
type PostSaleRequest struct {
	PaidAmount          decimal.Decimal `json:"paid_amount"`
	PaymentMethod       string          `json:"payment_method"`
	CreditNoteID        *uuid.UUID      `json:"credit_note_id"`
	CreditNoteAmount    decimal.Decimal `json:"credit_note_amount"`
	OverrideCreditLimit bool            `json:"override_credit_limit"`
	CreatedBy           *uuid.UUID      `json:"-"`
}

// PostSale transitions a draft to posted with full side-effect fan-out
func (s *SalesService) PostSale(ctx context.Context, id uuid.UUID, req PostSaleRequest) (*SaleResponse, error) {
	sale, err := s.findSale(ctx, id)
	if err != nil {
		return nil, err
	}
	createReq := CreateSaleRequest{
		PaidAmount:          req.PaidAmount,
		PaymentMethod:       req.PaymentMethod,
		CreditNoteID:        req.CreditNoteID,
		CreditNoteAmount:    req.CreditNoteAmount,
		OverrideCreditLimit: req.OverrideCreditLimit,
		CreatedBy:           req.CreatedBy,
	}
	if req.PaymentMethod != "" {
		sale.PaymentMethod = req.PaymentMethod
	}
	if err := s.postSale(ctx, sale, createReq); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// postSale runs stock validation, stock decrement, the lifecycle transition,
// and ledger fan-out in one transaction
func (s *SalesService) postSale(ctx context.Context, sale *sales.Sale, req CreateSaleRequest) error {
	return s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if sale.InvoiceType == sales.InvoiceTypeCredit {
			if err := s.enforceCreditLimit(txCtx, sale, req.OverrideCreditLimit); err != nil {
				return err
			}
		}

		// expiry validation before any stock mutation
		for _, item := range sale.Items {
			product, err := s.getProduct(txCtx, item.ProductID)
			if err != nil {
				return err
			}
			if err := validateExpiry(product); err != nil {
				return err
			}
		}

		// atomic conditional decrement per line; restore is handled by the
		// transaction rollback on failure
		for _, item := range sale.Items {
			ok, err := s.catalog.TryDecrementStock(txCtx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Not enough stock of %s to post this sale", item.ProductName))
			}
		}

		if err := sale.Post(req.PaidAmount); err != nil {
			return err
		}

		if sale.InvoiceType == sales.InvoiceTypeCredit && sale.CustomerID != nil {
			if err := s.customerLedger.PostInvoiceDebit(txCtx, *sale.CustomerID, sale.ID,
				sale.InvoiceNumber, sale.TotalAmount); err != nil {
				return err
			}
		}

		if sale.PaidAmount.IsPositive() {
			if err := s.postReceipt(txCtx, sale, sale.PaidAmount, sale.SaleDate, req.CreatedBy); err != nil {
				return err
			}
			if sale.InvoiceType == sales.InvoiceTypeCredit && sale.CustomerID != nil {
				if err := s.customerLedger.PostPaymentCredit(txCtx, *sale.CustomerID, sale.ID,
					sale.InvoiceNumber, sale.PaidAmount); err != nil {
					return err
				}
			}
		}

		if req.CreditNoteID != nil && req.CreditNoteAmount.IsPositive() {
			if err := s.applyCreditNote(txCtx, sale, *req.CreditNoteID, req.CreditNoteAmount); err != nil {
				return err
			}
		}

		return s.saleRepo.Save(txCtx, sale)
	})
}

// EditSaleRequest rewrites a posted sale's items. When both discount fields
// are zero the sale's existing bill discount percentage carries forward.
type EditSaleRequest struct {
	Items               []SaleItemRequest `json:"items" binding:"required"`
	BillDiscountFlat    decimal.Decimal   `json:"bill_discount_flat"`
	BillDiscountPercent decimal.Decimal   `json:"bill_discount_percent"`
	RoundOff            bool              `json:"round_off"`
	Role                string            `json:"-"`
	CreatedBy           *uuid.UUID        `json:"-"`
}

// EditPostedSale rewrites a posted sale: stock deltas are reconciled per
// product so nothing is double-decremented, and the outstanding re-derives
// from what was already paid
func (s *SalesService) EditPostedSale(ctx context.Context, id uuid.UUID, req EditSaleRequest) (*SaleResponse, error) {
	sale, err := s.findSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Status != sales.InvoiceStatusPosted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only posted sales can be edited")
	}

	oldQty := map[uuid.UUID]decimal.Decimal{}
	for _, item := range sale.Items {
		oldQty[item.ProductID] = oldQty[item.ProductID].Add(item.Quantity)
	}

	createReq := CreateSaleRequest{
		Items:               req.Items,
		BillDiscountFlat:    req.BillDiscountFlat,
		BillDiscountPercent: req.BillDiscountPercent,
		RoundOff:            req.RoundOff,
		Role:                req.Role,
	}
	if req.BillDiscountFlat.IsZero() && req.BillDiscountPercent.IsZero() {
		createReq.BillDiscountPercent = sale.DiscountPercent
	}
	items, priced, totals, err := s.priceItems(ctx, sale, createReq)
	if err != nil {
		return nil, err
	}

	newQty := map[uuid.UUID]decimal.Decimal{}
	for _, item := range items {
		newQty[item.ProductID] = newQty[item.ProductID].Add(item.Quantity)
	}

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		// reconcile stock: decrement only the increase, restore only the decrease
		for productID, qty := range newQty {
			delta := qty.Sub(oldQty[productID])
			if delta.IsPositive() {
				ok, err := s.catalog.TryDecrementStock(txCtx, productID, delta)
				if err != nil {
					return err
				}
				if !ok {
					return shared.NewDomainError("INSUFFICIENT_STOCK",
						"Not enough stock to cover the edited quantities")
				}
			}
		}
		for productID, qty := range oldQty {
			delta := qty.Sub(newQty[productID])
			if delta.IsPositive() {
				if err := s.catalog.RestoreStock(txCtx, productID, delta); err != nil {
					return err
				}
			}
		}

		if err := sale.Reprice(items, totals); err != nil {
			return err
		}
		if s.policy.RequiresApproval(req.Role, priced, totals.BillDiscountPercent) && sale.ApprovedBy == nil {
			return shared.NewDomainError("APPROVAL_REQUIRED",
				"Edited discounts exceed the caller's ceiling")
		}
		return s.saleRepo.Save(txCtx, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// AddPaymentRequest applies a payment to a posted sale
type AddPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   *time.Time      `json:"payment_date"`
	CreatedBy     *uuid.UUID      `json:"-"`
}

// AddPayment records a payment capped at the remaining outstanding and posts
// the receipt voucher plus customer ledger credit
func (s *SalesService) AddPayment(ctx context.Context, id uuid.UUID, req AddPaymentRequest) (*SaleResponse, error) {
	sale, err := s.findSale(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		applied, err := sale.RecordPayment(req.Amount)
		if err != nil {
			return err
		}
		if req.PaymentMethod != "" {
			sale.PaymentMethod = req.PaymentMethod
		}
		receivedAt := time.Now()
		if req.PaymentDate != nil {
			receivedAt = *req.PaymentDate
		}
		if err := s.postReceipt(txCtx, sale, applied, receivedAt, req.CreatedBy); err != nil {
			return err
		}
		if sale.InvoiceType == sales.InvoiceTypeCredit && sale.CustomerID != nil {
			if err := s.customerLedger.PostPaymentCredit(txCtx, *sale.CustomerID, sale.ID,
				sale.InvoiceNumber, applied); err != nil {
				return err
			}
		}
		return s.saleRepo.Save(txCtx, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ApproveSale records an approver for price overrides
func (s *SalesService) ApproveSale(ctx context.Context, id, approverID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.findSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sale.Approve(approverID); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// GetSaleByID gets a sale by ID
func (s *SalesService) GetSaleByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.findSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ListSales lists sales with filtering and pagination
func (s *SalesService) ListSales(ctx context.Context, filter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
	repoFilter := sales.SaleFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.SortBy,
			OrderDir: filter.SortOrder,
		},
		CustomerID: filter.CustomerID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
	}
	if filter.InvoiceType != "" {
		invoiceType := sales.InvoiceType(strings.ToUpper(filter.InvoiceType))
		repoFilter.InvoiceType = &invoiceType
	}
	if filter.Status != "" {
		status := sales.InvoiceStatus(strings.ToUpper(filter.Status))
		repoFilter.Status = &status
	}
	if filter.PaymentStatus != "" {
		paymentStatus := sales.PaymentStatus(strings.ToUpper(filter.PaymentStatus))
		repoFilter.PaymentStatus = &paymentStatus
	}

	page, err := s.saleRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]SaleResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toSaleResponse(&page.Items[i])
	}
	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// GetSummary aggregates posted sales over a period
func (s *SalesService) GetSummary(ctx context.Context, from, to time.Time) (*sales.SalesSummary, error) {
	return s.saleRepo.Summarize(ctx, from, to)
}

// priceItems resolves catalog data and prices every requested line
func (s *SalesService) priceItems(
	ctx context.Context,
	sale *sales.Sale,
	req CreateSaleRequest,
) ([]sales.SaleItem, []sales.PricedLine, sales.BillTotals, error) {
	if len(req.Items) == 0 {
		return nil, nil, sales.BillTotals{}, shared.NewDomainError("VALIDATION_ERROR", "A sale needs at least one item")
	}

	items := make([]sales.SaleItem, 0, len(req.Items))
	priced := make([]sales.PricedLine, 0, len(req.Items))
	for _, ir := range req.Items {
		product, err := s.getProduct(ctx, ir.ProductID)
		if err != nil {
			return nil, nil, sales.BillTotals{}, err
		}

		prices := product.Prices
		if sale.CustomerID != nil && sale.PricingMode == sales.PricingModeCustomer {
			override, err := s.customers.PriceOverride(ctx, *sale.CustomerID, product.ID)
			if err != nil {
				return nil, nil, sales.BillTotals{}, err
			}
			if override.IsPositive() {
				prices.CustomerOverride = override
			}
		}

		line, err := sales.PriceLine(sales.LineInput{
			Quantity:        ir.Quantity,
			Prices:          prices,
			PricingMode:     sale.PricingMode,
			UnitPrice:       ir.UnitPrice,
			DiscountFlat:    ir.DiscountFlat,
			DiscountPercent: ir.DiscountPercent,
			TaxRate:         product.TaxRate,
			TaxScheme:       product.TaxScheme,
			TaxMode:         sale.TaxMode,
		})
		if err != nil {
			return nil, nil, sales.BillTotals{}, err
		}
		priced = append(priced, line)
		items = append(items, sales.SaleItem{
			ProductID:     product.ID,
			ProductName:   product.Name,
			SKU:           product.SKU,
			Quantity:      ir.Quantity,
			ListPrice:     line.ListPrice,
			UnitPrice:     line.UnitPrice,
			TaxableValue:  line.TaxableValue,
			TaxRate:       product.TaxRate,
			TaxAmount:     line.TaxAmount,
			CGSTAmount:    line.CGSTAmount,
			SGSTAmount:    line.SGSTAmount,
			LineTotal:     line.LineTotal,
			BelowListFlag: line.BelowList,
			ExpiryDate:    product.ExpiryDate,
		})
	}

	totals, err := sales.ComputeBillTotals(priced, sales.BillInput{
		DiscountFlat:    req.BillDiscountFlat,
		DiscountPercent: req.BillDiscountPercent,
		RoundOff:        req.RoundOff,
	})
	if err != nil {
		return nil, nil, sales.BillTotals{}, err
	}
	return items, priced, totals, nil
}

// enforceCreditLimit projects the customer's exposure with this sale added.
// Breaching the limit without an override blocks the customer and fails.
func (s *SalesService) enforceCreditLimit(ctx context.Context, sale *sales.Sale, override bool) error {
	if sale.CustomerID == nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit sales need a customer")
	}
	customer, err := s.customers.GetCustomer(ctx, *sale.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	if customer.Blocked {
		return shared.NewDomainError("POLICY_VIOLATION",
			fmt.Sprintf("Customer %s is blocked for credit sales", customer.Name))
	}
	if override || customer.CreditLimit.IsZero() {
		return nil
	}

	projected := customer.OutstandingBalance.Add(sale.TotalAmount)
	if projected.GreaterThan(customer.CreditLimit) {
		if err := s.customers.Block(ctx, customer.ID, "Credit limit exceeded"); err != nil {
			return err
		}
		return shared.NewDomainError("CREDIT_LIMIT_EXCEEDED",
			fmt.Sprintf("Projected outstanding %s exceeds credit limit %s", projected, customer.CreditLimit))
	}
	return nil
}

// applyCreditNote depletes a credit note against the sale's outstanding
func (s *SalesService) applyCreditNote(ctx context.Context, sale *sales.Sale, noteID uuid.UUID, requested decimal.Decimal) error {
	balance, err := s.creditNotes.Balance(ctx, noteID)
	if err != nil {
		return err
	}
	applied, err := sale.ApplyCreditNote(requested, balance)
	if err != nil {
		return err
	}
	if !applied.IsPositive() {
		return nil
	}
	if err := s.creditNotes.Apply(ctx, noteID, sale.ID, applied); err != nil {
		return err
	}
	if sale.CustomerID != nil {
		return s.customerLedger.PostCreditAdjustment(ctx, *sale.CustomerID, sale.ID,
			sale.InvoiceNumber, applied)
	}
	return nil
}

// postReceipt writes the receipt voucher for money received on a sale.
// receivedAt is the payment date, which for later settlements differs from
// the sale date.
func (s *SalesService) postReceipt(ctx context.Context, sale *sales.Sale, amount decimal.Decimal, receivedAt time.Time, createdBy *uuid.UUID) error {
	mode := "cash"
	if strings.EqualFold(sale.PaymentMethod, "bank") || strings.EqualFold(sale.PaymentMethod, "card") ||
		strings.EqualFold(sale.PaymentMethod, "upi") {
		mode = "bank"
	}
	_, err := s.vouchers.SalesReceipt(ctx, appaccounting.SalesReceiptRequest{
		Date:          receivedAt,
		Amount:        amount,
		Mode:          mode,
		SaleID:        sale.ID,
		InvoiceNumber: sale.InvoiceNumber,
		CreatedBy:     createdBy,
	})
	return err
}

func (s *SalesService) getProduct(ctx context.Context, productID uuid.UUID) (*sales.ProductInfo, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
	}
	return product, nil
}

// validateExpiry rejects expired batches and missing expiry dates on
// expiry-tracked products
func validateExpiry(product *sales.ProductInfo) error {
	if !product.TrackExpiry {
		return nil
	}
	if product.ExpiryDate == nil {
		return shared.NewDomainError("EXPIRED_BATCH",
			fmt.Sprintf("Product %s requires an expiry date", product.Name))
	}
	if product.ExpiryDate.Before(time.Now()) {
		return shared.NewDomainError("EXPIRED_BATCH",
			fmt.Sprintf("Product %s batch expired on %s", product.Name, product.ExpiryDate.Format("2006-01-02")))
	}
	return nil
}

func toSaleResponse(sale *sales.Sale) *SaleResponse {
	return &SaleResponse{
		ID:                    sale.ID,
		SaleNumber:            sale.SaleNumber,
		InvoiceNumber:         sale.InvoiceNumber,
		InvoiceType:           sale.InvoiceType.String(),
		Status:                sale.Status.String(),
		PaymentStatus:         sale.PaymentStatus.String(),
		Items:                 sale.Items,
		Subtotal:              sale.Subtotal,
		TotalTax:              sale.TotalTax,
		GrossTotal:            sale.GrossTotal,
		RoundOffAmount:        sale.RoundOffAmount,
		TotalAmount:           sale.TotalAmount,
		PaidAmount:            sale.PaidAmount,
		OutstandingAmount:     sale.OutstandingAmount,
		CreditAppliedAmount:   sale.CreditAppliedAmount,
		CustomerID:            sale.CustomerID,
		PriceOverrideRequired: sale.PriceOverrideRequired,
		SaleDate:              sale.SaleDate,
		CreatedAt:             sale.CreatedAt,
	}
}

func (s *SalesService) findSale(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}
	return sale, nil
}
