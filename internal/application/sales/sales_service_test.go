package sales

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appaccounting "github.com/spark7/backoffice/internal/application/accounting"
	"github.com/spark7/backoffice/internal/domain/sales"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/spark7/backoffice/internal/domain/shared/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughUoW struct{}

func (passthroughUoW) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeNumbers struct{ n int }

func (f *fakeNumbers) Next(_ context.Context, key string, format service.NumberFormat) (string, error) {
	f.n++
	return fmt.Sprintf("%s-%06d", format.Prefix, f.n), nil
}

type fakeSaleRepo struct {
	sales map[uuid.UUID]*sales.Sale
	saves int
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[uuid.UUID]*sales.Sale{}}
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.Sale, error) {
	return r.sales[id], nil
}

func (r *fakeSaleRepo) FindBySaleNumber(_ context.Context, number string) (*sales.Sale, error) {
	for _, s := range r.sales {
		if s.SaleNumber == number {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) FindAll(_ context.Context, filter sales.SaleFilter) (*shared.Paginated[sales.Sale], error) {
	items := make([]sales.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		items = append(items, *s)
	}
	page := shared.NewPaginated(items, int64(len(items)), 1, 20)
	return &page, nil
}

func (r *fakeSaleRepo) Save(_ context.Context, sale *sales.Sale) error {
	r.sales[sale.ID] = sale
	r.saves++
	return nil
}

func (r *fakeSaleRepo) Summarize(_ context.Context, from, to time.Time) (*sales.SalesSummary, error) {
	summary := &sales.SalesSummary{}
	for _, s := range r.sales {
		if s.Status != sales.InvoiceStatusPosted || s.SaleDate.Before(from) || s.SaleDate.After(to) {
			continue
		}
		summary.Count++
		summary.Revenue = summary.Revenue.Add(s.TotalAmount)
		summary.TotalOutstanding = summary.TotalOutstanding.Add(s.OutstandingAmount)
		summary.TotalTax = summary.TotalTax.Add(s.TotalTax)
		if s.InvoiceType == sales.InvoiceTypeCash {
			summary.CashSales = summary.CashSales.Add(s.TotalAmount)
		} else {
			summary.CreditSales = summary.CreditSales.Add(s.TotalAmount)
		}
	}
	return summary, nil
}

func (r *fakeSaleRepo) Count(_ context.Context, filter sales.SaleFilter) (int64, error) {
	var count int64
	for _, s := range r.sales {
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if filter.InvoiceType != nil && s.InvoiceType != *filter.InvoiceType {
			continue
		}
		count++
	}
	return count, nil
}

type fakeCatalog struct {
	products map[uuid.UUID]*sales.ProductInfo
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[uuid.UUID]*sales.ProductInfo{}}
}

func (c *fakeCatalog) add(name string, retail decimal.Decimal, stock int64, taxRate decimal.Decimal) uuid.UUID {
	id := uuid.New()
	c.products[id] = &sales.ProductInfo{
		ID:            id,
		Name:          name,
		Prices:        sales.ListPrices{Retail: retail, Wholesale: retail},
		TaxRate:       taxRate,
		TaxScheme:     sales.TaxSchemeGST,
		StockQuantity: decimal.NewFromInt(stock),
	}
	return id
}

func (c *fakeCatalog) GetProduct(_ context.Context, id uuid.UUID) (*sales.ProductInfo, error) {
	return c.products[id], nil
}

func (c *fakeCatalog) TryDecrementStock(_ context.Context, id uuid.UUID, qty decimal.Decimal) (bool, error) {
	p, ok := c.products[id]
	if !ok {
		return false, nil
	}
	remaining := p.StockQuantity.Sub(qty)
	if remaining.IsNegative() && !p.AllowNegativeStock {
		return false, nil
	}
	p.StockQuantity = remaining
	return true, nil
}

func (c *fakeCatalog) RestoreStock(_ context.Context, id uuid.UUID, qty decimal.Decimal) error {
	c.products[id].StockQuantity = c.products[id].StockQuantity.Add(qty)
	return nil
}

type fakeCustomers struct {
	customers map[uuid.UUID]*sales.CustomerInfo
	overrides map[uuid.UUID]decimal.Decimal // keyed by product
	blocked   []uuid.UUID
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{
		customers: map[uuid.UUID]*sales.CustomerInfo{},
		overrides: map[uuid.UUID]decimal.Decimal{},
	}
}

func (d *fakeCustomers) add(limit, outstanding decimal.Decimal) uuid.UUID {
	id := uuid.New()
	d.customers[id] = &sales.CustomerInfo{
		ID:                 id,
		Name:               "Test Customer",
		CreditLimit:        limit,
		OutstandingBalance: outstanding,
	}
	return id
}

func (d *fakeCustomers) GetCustomer(_ context.Context, id uuid.UUID) (*sales.CustomerInfo, error) {
	return d.customers[id], nil
}

func (d *fakeCustomers) PriceOverride(_ context.Context, _, productID uuid.UUID) (decimal.Decimal, error) {
	return d.overrides[productID], nil
}

func (d *fakeCustomers) Block(_ context.Context, id uuid.UUID, _ string) error {
	d.blocked = append(d.blocked, id)
	if c, ok := d.customers[id]; ok {
		c.Blocked = true
	}
	return nil
}

type ledgerPosting struct {
	kind   string
	amount decimal.Decimal
}

type fakeCustomerLedger struct {
	postings []ledgerPosting
}

func (l *fakeCustomerLedger) PostInvoiceDebit(_ context.Context, _, _ uuid.UUID, _ string, amount decimal.Decimal) error {
	l.postings = append(l.postings, ledgerPosting{"invoice", amount})
	return nil
}

func (l *fakeCustomerLedger) PostPaymentCredit(_ context.Context, _, _ uuid.UUID, _ string, amount decimal.Decimal) error {
	l.postings = append(l.postings, ledgerPosting{"payment", amount})
	return nil
}

func (l *fakeCustomerLedger) PostCreditAdjustment(_ context.Context, _, _ uuid.UUID, _ string, amount decimal.Decimal) error {
	l.postings = append(l.postings, ledgerPosting{"credit_note", amount})
	return nil
}

type fakeCreditNotes struct {
	balances map[uuid.UUID]decimal.Decimal
	applied  []decimal.Decimal
}

func (n *fakeCreditNotes) Balance(_ context.Context, id uuid.UUID) (decimal.Decimal, error) {
	return n.balances[id], nil
}

func (n *fakeCreditNotes) Apply(_ context.Context, id, _ uuid.UUID, amount decimal.Decimal) error {
	n.balances[id] = n.balances[id].Sub(amount)
	n.applied = append(n.applied, amount)
	return nil
}

type fakeReceipts struct {
	receipts []decimal.Decimal
	dates    []time.Time
}

func (r *fakeReceipts) SalesReceipt(_ context.Context, req appaccounting.SalesReceiptRequest) (*appaccounting.VoucherResponse, error) {
	r.receipts = append(r.receipts, req.Amount)
	r.dates = append(r.dates, req.Date)
	return &appaccounting.VoucherResponse{Type: "SALES", TotalAmount: req.Amount}, nil
}

type salesFixture struct {
	service     *SalesService
	saleRepo    *fakeSaleRepo
	catalog     *fakeCatalog
	customers   *fakeCustomers
	ledger      *fakeCustomerLedger
	creditNotes *fakeCreditNotes
	receipts    *fakeReceipts
}

func newSalesFixture() *salesFixture {
	f := &salesFixture{
		saleRepo:    newFakeSaleRepo(),
		catalog:     newFakeCatalog(),
		customers:   newFakeCustomers(),
		ledger:      &fakeCustomerLedger{},
		creditNotes: &fakeCreditNotes{balances: map[uuid.UUID]decimal.Decimal{}},
		receipts:    &fakeReceipts{},
	}
	f.service = NewSalesService(
		passthroughUoW{},
		f.saleRepo,
		f.catalog,
		f.customers,
		f.ledger,
		f.creditNotes,
		f.receipts,
		&fakeNumbers{},
		sales.DefaultDiscountPolicy(),
	)
	return f
}

func TestCreateSale_CashPostImmediately(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(500), 10, decimal.NewFromInt(18))

	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType: "cash",
		SaleDate:    time.Now(),
		Items: []SaleItemRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(2)},
		},
		PaidAmount:      decimal.RequireFromString("1180"),
		PostImmediately: true,
		Role:            "admin",
	})

	require.NoError(t, err)
	assert.Equal(t, "POSTED", resp.Status)
	assert.Equal(t, "COMPLETED", resp.PaymentStatus)
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("1000")))
	assert.True(t, resp.TotalTax.Equal(decimal.RequireFromString("180")))
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("1180")))
	assert.True(t, resp.OutstandingAmount.IsZero())

	// stock moved and money came in
	product, _ := f.catalog.GetProduct(context.Background(), productID)
	assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(8)))
	require.Len(t, f.receipts.receipts, 1)
	assert.True(t, f.receipts.receipts[0].Equal(decimal.RequireFromString("1180")))

	// GST split on each line
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].CGSTAmount.Equal(decimal.RequireFromString("90")))
	assert.True(t, resp.Items[0].SGSTAmount.Equal(decimal.RequireFromString("90")))
}

func TestCreateSale_DraftThenPost(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(100), 5, decimal.Zero)

	draft, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType: "cash",
		SaleDate:    time.Now(),
		Items:       []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		Role:        "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", draft.Status)

	// drafts do not touch stock
	product, _ := f.catalog.GetProduct(context.Background(), productID)
	assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(5)))

	posted, err := f.service.PostSale(context.Background(), draft.ID, PostSaleRequest{
		PaidAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "POSTED", posted.Status)
	product, _ = f.catalog.GetProduct(context.Background(), productID)
	assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(4)))
}

func TestPostSale_InsufficientStock(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(100), 1, decimal.Zero)

	_, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:     "cash",
		SaleDate:        time.Now(),
		Items:           []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(3)}},
		PostImmediately: true,
		Role:            "admin",
	})

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	assert.Empty(t, f.receipts.receipts)
}

func TestPostSale_ExpiredBatch(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Syrup", decimal.NewFromInt(100), 10, decimal.Zero)
	expired := time.Now().AddDate(0, -1, 0)
	f.catalog.products[productID].TrackExpiry = true
	f.catalog.products[productID].ExpiryDate = &expired

	_, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:     "cash",
		SaleDate:        time.Now(),
		Items:           []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		PostImmediately: true,
		Role:            "admin",
	})

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "EXPIRED_BATCH", domainErr.Code)
	// nothing was decremented
	product, _ := f.catalog.GetProduct(context.Background(), productID)
	assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(10)))
}

func TestCreditSale_PartialThenFullPayment(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(500), 10, decimal.NewFromInt(18))
	customerID := f.customers.add(decimal.NewFromInt(100000), decimal.Zero)

	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:     "credit",
		CustomerID:      &customerID,
		SaleDate:        time.Now(),
		Items:           []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(2)}},
		PaidAmount:      decimal.NewFromInt(500),
		PostImmediately: true,
		Role:            "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", resp.PaymentStatus)
	assert.True(t, resp.OutstandingAmount.Equal(decimal.NewFromInt(680)))

	// invoice debit plus payment credit hit the customer ledger
	require.Len(t, f.ledger.postings, 2)
	assert.Equal(t, "invoice", f.ledger.postings[0].kind)
	assert.True(t, f.ledger.postings[0].amount.Equal(decimal.NewFromInt(1180)))
	assert.Equal(t, "payment", f.ledger.postings[1].kind)
	assert.True(t, f.ledger.postings[1].amount.Equal(decimal.NewFromInt(500)))

	settled, err := f.service.AddPayment(context.Background(), resp.ID, AddPaymentRequest{
		Amount: decimal.NewFromInt(680),
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", settled.PaymentStatus)
	assert.True(t, settled.OutstandingAmount.IsZero())
	require.Len(t, f.receipts.receipts, 2)
}

func TestAddPayment_ReceiptDatedOnPaymentDate(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(500), 10, decimal.Zero)
	customerID := f.customers.add(decimal.NewFromInt(100000), decimal.Zero)

	saleDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:     "credit",
		CustomerID:      &customerID,
		SaleDate:        saleDate,
		Items:           []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		PostImmediately: true,
		Role:            "admin",
	})
	require.NoError(t, err)

	// money collected weeks later lands in the books on the payment date
	paidOn := time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC)
	_, err = f.service.AddPayment(context.Background(), resp.ID, AddPaymentRequest{
		Amount:      decimal.NewFromInt(500),
		PaymentDate: &paidOn,
	})
	require.NoError(t, err)

	require.Len(t, f.receipts.dates, 1)
	assert.True(t, f.receipts.dates[0].Equal(paidOn))
}

func TestAddPayment_DefaultsToCurrentDate(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(500), 10, decimal.Zero)
	customerID := f.customers.add(decimal.NewFromInt(100000), decimal.Zero)

	saleDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:     "credit",
		CustomerID:      &customerID,
		SaleDate:        saleDate,
		Items:           []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		PostImmediately: true,
		Role:            "admin",
	})
	require.NoError(t, err)

	before := time.Now()
	_, err = f.service.AddPayment(context.Background(), resp.ID, AddPaymentRequest{
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	require.Len(t, f.receipts.dates, 1)
	assert.False(t, f.receipts.dates[0].Before(before))
	assert.False(t, f.receipts.dates[0].Equal(saleDate))
}

func TestCreditSale_CreditLimitExceededBlocksCustomer(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(1000), 10, decimal.Zero)
	customerID := f.customers.add(decimal.NewFromInt(1500), decimal.NewFromInt(1000))

	_, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:     "credit",
		CustomerID:      &customerID,
		SaleDate:        time.Now(),
		Items:           []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		PostImmediately: true,
		Role:            "admin",
	})

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "CREDIT_LIMIT_EXCEEDED", domainErr.Code)
	assert.Contains(t, f.customers.blocked, customerID)

	// the same sale passes with an explicit override
	customer := f.customers.customers[customerID]
	customer.Blocked = false
	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:         "credit",
		CustomerID:          &customerID,
		SaleDate:            time.Now(),
		Items:               []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		OverrideCreditLimit: true,
		PostImmediately:     true,
		Role:                "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "POSTED", resp.Status)
}

func TestCreateSale_DiscountNeedsApproval(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(100), 10, decimal.Zero)

	// a sales role asking 15% is over its 10% ceiling
	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType: "cash",
		SaleDate:    time.Now(),
		Items: []SaleItemRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(1), DiscountPercent: decimal.NewFromInt(15)},
		},
		Role: "sales",
	})
	require.NoError(t, err)
	assert.True(t, resp.PriceOverrideRequired)

	// posting without approval fails
	_, err = f.service.PostSale(context.Background(), resp.ID, PostSaleRequest{})
	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "APPROVAL_REQUIRED", domainErr.Code)

	// approval unlocks the post
	approver := uuid.New()
	_, err = f.service.ApproveSale(context.Background(), resp.ID, approver)
	require.NoError(t, err)
	posted, err := f.service.PostSale(context.Background(), resp.ID, PostSaleRequest{
		PaidAmount: decimal.NewFromInt(85),
	})
	require.NoError(t, err)
	assert.Equal(t, "POSTED", posted.Status)

	// a manager at the same discount needs no approval
	managerResp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType: "cash",
		SaleDate:    time.Now(),
		Items: []SaleItemRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(1), DiscountPercent: decimal.NewFromInt(15)},
		},
		Role: "manager",
	})
	require.NoError(t, err)
	assert.False(t, managerResp.PriceOverrideRequired)
}

func TestCreateSale_CustomerPriceOverride(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(100), 10, decimal.Zero)
	customerID := f.customers.add(decimal.Zero, decimal.Zero)
	f.customers.overrides[productID] = decimal.NewFromInt(80)

	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType: "credit",
		CustomerID:  &customerID,
		SaleDate:    time.Now(),
		PricingMode: "customer",
		Items:       []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		Role:        "admin",
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].ListPrice.Equal(decimal.NewFromInt(80)))
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(80)))
}

func TestPostSale_AppliesCreditNote(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(1000), 10, decimal.Zero)
	customerID := f.customers.add(decimal.Zero, decimal.Zero)
	noteID := uuid.New()
	f.creditNotes.balances[noteID] = decimal.NewFromInt(300)

	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:      "credit",
		CustomerID:       &customerID,
		SaleDate:         time.Now(),
		Items:            []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		CreditNoteID:     &noteID,
		CreditNoteAmount: decimal.NewFromInt(500), // more than the note holds
		PostImmediately:  true,
		Role:             "admin",
	})

	require.NoError(t, err)
	assert.True(t, resp.CreditAppliedAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, resp.OutstandingAmount.Equal(decimal.NewFromInt(700)))
	assert.True(t, f.creditNotes.balances[noteID].IsZero())
}

func TestEditPostedSale_ReconcilesStock(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(100), 10, decimal.Zero)

	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:     "cash",
		SaleDate:        time.Now(),
		Items:           []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(4)}},
		PaidAmount:      decimal.NewFromInt(200),
		PostImmediately: true,
		Role:            "admin",
	})
	require.NoError(t, err)
	product, _ := f.catalog.GetProduct(context.Background(), productID)
	require.True(t, product.StockQuantity.Equal(decimal.NewFromInt(6)))

	// shrink the sale from 4 to 1 unit
	edited, err := f.service.EditPostedSale(context.Background(), resp.ID, EditSaleRequest{
		Items: []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		Role:  "admin",
	})
	require.NoError(t, err)
	assert.True(t, edited.TotalAmount.Equal(decimal.NewFromInt(100)))
	// 200 already paid exceeds the new total, outstanding floors at zero
	assert.True(t, edited.OutstandingAmount.IsZero())
	product, _ = f.catalog.GetProduct(context.Background(), productID)
	assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(9)))

	// grow it back to 3 units, only the delta is decremented
	edited, err = f.service.EditPostedSale(context.Background(), resp.ID, EditSaleRequest{
		Items: []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(3)}},
		Role:  "admin",
	})
	require.NoError(t, err)
	assert.True(t, edited.TotalAmount.Equal(decimal.NewFromInt(300)))
	product, _ = f.catalog.GetProduct(context.Background(), productID)
	assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(7)))
}

func TestEditPostedSale_KeepsBillDiscount(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(100), 10, decimal.Zero)

	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:         "cash",
		SaleDate:            time.Now(),
		Items:               []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		BillDiscountPercent: decimal.NewFromInt(10),
		PostImmediately:     true,
		Role:                "admin",
	})
	require.NoError(t, err)
	require.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(90)))

	// editing without discount fields keeps the 10% bill discount
	edited, err := f.service.EditPostedSale(context.Background(), resp.ID, EditSaleRequest{
		Items: []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(2)}},
		Role:  "admin",
	})
	require.NoError(t, err)
	assert.True(t, edited.TotalAmount.Equal(decimal.NewFromInt(180)))

	// an explicit discount replaces the carried one
	edited, err = f.service.EditPostedSale(context.Background(), resp.ID, EditSaleRequest{
		Items:               []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(2)}},
		BillDiscountPercent: decimal.NewFromInt(20),
		Role:                "admin",
	})
	require.NoError(t, err)
	assert.True(t, edited.TotalAmount.Equal(decimal.NewFromInt(160)))
}

func TestEditPostedSale_DraftRejected(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(100), 10, decimal.Zero)

	draft, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType: "cash",
		SaleDate:    time.Now(),
		Items:       []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		Role:        "admin",
	})
	require.NoError(t, err)

	_, err = f.service.EditPostedSale(context.Background(), draft.ID, EditSaleRequest{
		Items: []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(2)}},
		Role:  "admin",
	})
	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestGetSummary(t *testing.T) {
	f := newSalesFixture()
	productID := f.catalog.add("Soap", decimal.NewFromInt(100), 100, decimal.Zero)
	customerID := f.customers.add(decimal.Zero, decimal.Zero)

	_, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:     "cash",
		SaleDate:        time.Now(),
		Items:           []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(2)}},
		PaidAmount:      decimal.NewFromInt(200),
		PostImmediately: true,
		Role:            "admin",
	})
	require.NoError(t, err)
	_, err = f.service.CreateSale(context.Background(), CreateSaleRequest{
		InvoiceType:     "credit",
		CustomerID:      &customerID,
		SaleDate:        time.Now(),
		Items:           []SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(3)}},
		PostImmediately: true,
		Role:            "admin",
	})
	require.NoError(t, err)

	summary, err := f.service.GetSummary(context.Background(),
		time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.True(t, summary.Revenue.Equal(decimal.NewFromInt(500)))
	assert.True(t, summary.CashSales.Equal(decimal.NewFromInt(200)))
	assert.True(t, summary.CreditSales.Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.TotalOutstanding.Equal(decimal.NewFromInt(300)))
}
