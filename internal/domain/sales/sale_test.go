package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDraft(t *testing.T, invoiceType InvoiceType, total int64) *Sale {
	t.Helper()
	sale, err := NewDraftSale("S-000001", "INV-2025-000001", invoiceType,
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	items := []SaleItem{{
		ProductID:    uuid.New(),
		ProductName:  "Widget",
		Quantity:     decimal.NewFromInt(1),
		ListPrice:    decimal.NewFromInt(total),
		UnitPrice:    decimal.NewFromInt(total),
		TaxableValue: decimal.NewFromInt(total),
		LineTotal:    decimal.NewFromInt(total),
	}}
	totals := BillTotals{
		Subtotal:    decimal.NewFromInt(total),
		GrossTotal:  decimal.NewFromInt(total),
		TotalAmount: decimal.NewFromInt(total),
	}
	require.NoError(t, sale.ReplaceItems(items, totals))
	return sale
}

func TestNewDraftSale(t *testing.T) {
	sale, err := NewDraftSale("S-000001", "INV-2025-000001", InvoiceTypeCash,
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusDraft, sale.Status)
	assert.Equal(t, PaymentStatusPending, sale.PaymentStatus)
	assert.True(t, sale.IsDraft())
	assert.False(t, sale.Locked)

	_, err = NewDraftSale("", "INV-2025-000001", InvoiceTypeCash, time.Now())
	require.Error(t, err)

	_, err = NewDraftSale("S-000001", "INV-2025-000001", InvoiceType("LEASE"), time.Now())
	require.Error(t, err)
}

func TestSale_PostAndPayments(t *testing.T) {
	// credit sale of 1180, 500 paid at sale time, then settle the rest
	sale := createTestDraft(t, InvoiceTypeCredit, 1180)

	require.NoError(t, sale.Post(decimal.NewFromInt(500)))
	assert.Equal(t, InvoiceStatusPosted, sale.Status)
	assert.True(t, sale.Locked)
	assert.True(t, decimal.NewFromInt(680).Equal(sale.OutstandingAmount))
	assert.Equal(t, PaymentStatusPartial, sale.PaymentStatus)

	applied, err := sale.RecordPayment(decimal.NewFromInt(680))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(680).Equal(applied))
	assert.True(t, sale.OutstandingAmount.IsZero())
	assert.Equal(t, PaymentStatusCompleted, sale.PaymentStatus)

	_, err = sale.RecordPayment(decimal.NewFromInt(10))
	require.Error(t, err)
}

func TestSale_PaymentCappedAtOutstanding(t *testing.T) {
	sale := createTestDraft(t, InvoiceTypeCredit, 1000)
	require.NoError(t, sale.Post(decimal.Zero))

	applied, err := sale.RecordPayment(decimal.NewFromInt(5000))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(applied))
	assert.Equal(t, PaymentStatusCompleted, sale.PaymentStatus)
}

func TestSale_PostRejectsUnapprovedOverride(t *testing.T) {
	sale := createTestDraft(t, InvoiceTypeCash, 1000)
	sale.Items[0].BelowListFlag = true
	sale.PriceOverrideRequired = true

	err := sale.Post(decimal.Zero)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "APPROVAL_REQUIRED", domainErr.Code)

	require.NoError(t, sale.Approve(uuid.New()))
	require.NoError(t, sale.Post(decimal.Zero))
}

func TestSale_PostedIsImmutable(t *testing.T) {
	sale := createTestDraft(t, InvoiceTypeCash, 1000)
	require.NoError(t, sale.Post(decimal.NewFromInt(1000)))

	err := sale.ReplaceItems(sale.Items, BillTotals{})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LOCKED", domainErr.Code)

	err = sale.Post(decimal.Zero)
	require.Error(t, err)
}

func TestSale_Reprice(t *testing.T) {
	sale := createTestDraft(t, InvoiceTypeCredit, 1000)
	require.NoError(t, sale.Post(decimal.NewFromInt(400)))

	// edit posted down to 800; outstanding re-derives from the 400 paid
	newItems := []SaleItem{{
		ProductID:    uuid.New(),
		ProductName:  "Widget",
		Quantity:     decimal.NewFromInt(1),
		UnitPrice:    decimal.NewFromInt(800),
		TaxableValue: decimal.NewFromInt(800),
		LineTotal:    decimal.NewFromInt(800),
	}}
	totals := BillTotals{
		Subtotal:    decimal.NewFromInt(800),
		GrossTotal:  decimal.NewFromInt(800),
		TotalAmount: decimal.NewFromInt(800),
	}
	require.NoError(t, sale.Reprice(newItems, totals))
	assert.True(t, decimal.NewFromInt(400).Equal(sale.OutstandingAmount))

	// edit below what was already paid floors outstanding at zero
	totals.TotalAmount = decimal.NewFromInt(300)
	totals.GrossTotal = decimal.NewFromInt(300)
	require.NoError(t, sale.Reprice(newItems, totals))
	assert.True(t, sale.OutstandingAmount.IsZero())
	assert.Equal(t, PaymentStatusCompleted, sale.PaymentStatus)
}

func TestSale_ApplyCreditNote(t *testing.T) {
	sale := createTestDraft(t, InvoiceTypeCredit, 1000)
	require.NoError(t, sale.Post(decimal.Zero))

	tests := []struct {
		name        string
		requested   int64
		noteBalance int64
		wantApplied int64
	}{
		{"requested smallest", 200, 500, 200},
		{"note balance smallest", 400, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sale.OutstandingAmount
			applied, err := sale.ApplyCreditNote(decimal.NewFromInt(tt.requested), decimal.NewFromInt(tt.noteBalance))
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.wantApplied).Equal(applied))
			assert.True(t, before.Sub(applied).Equal(sale.OutstandingAmount))
		})
	}

	// outstanding smallest
	outstanding := sale.OutstandingAmount
	applied, err := sale.ApplyCreditNote(decimal.NewFromInt(100000), decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.True(t, outstanding.Equal(applied))
	assert.True(t, sale.OutstandingAmount.IsZero())
}

func TestSale_Cancel(t *testing.T) {
	sale := createTestDraft(t, InvoiceTypeCash, 100)
	require.NoError(t, sale.Cancel())
	assert.Equal(t, InvoiceStatusCancelled, sale.Status)

	require.Error(t, sale.Cancel())
	require.Error(t, sale.Post(decimal.Zero))
}
