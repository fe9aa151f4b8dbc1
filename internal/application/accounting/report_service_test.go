package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newReportFixture posts a small trading history:
//
//	May 20  receipt  cash 500  (other income)
//	Jun  1  receipt  cash 1000 (other income)
//	Jun  5  payment  cash 400  (general expense)
//	Jun 10  payment  bank 250  (general expense)
func newReportFixture(t *testing.T) (*ReportService, *voucherFixture) {
	t.Helper()
	f := newVoucherFixture(t)

	post := func(day time.Time, mode string, amount int64, moneyIn bool) {
		req := SimpleVoucherRequest{
			Date:   day,
			Amount: decimal.NewFromInt(amount),
			Mode:   mode,
		}
		var err error
		if moneyIn {
			req.CategoryAccount = accounting.CodeOtherIncome
			_, err = f.service.Receipt(context.Background(), req)
		} else {
			req.CategoryAccount = accounting.CodeGeneralExpense
			_, err = f.service.Payment(context.Background(), req)
		}
		require.NoError(t, err)
	}
	post(time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), "cash", 500, true)
	post(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "cash", 1000, true)
	post(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), "cash", 400, false)
	post(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "bank", 250, false)

	return NewReportService(f.repo, f.entries, f.accounts), f
}

func june() (time.Time, time.Time) {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
}

func TestBuildBookReport_CashBook(t *testing.T) {
	reports, _ := newReportFixture(t)
	from, to := june()

	book, err := reports.BuildBookReport(context.Background(), "cash", from, to)
	require.NoError(t, err)
	assert.Equal(t, "cash", book.Book)
	assert.True(t, book.OpeningBalance.Equal(decimal.NewFromInt(500)), "May activity carries in as opening")
	assert.True(t, book.TotalInflow.Equal(decimal.NewFromInt(1000)))
	assert.True(t, book.TotalOutflow.Equal(decimal.NewFromInt(400)))
	assert.True(t, book.ClosingBalance.Equal(decimal.NewFromInt(1100)))

	require.Len(t, book.Lines, 2)
	assert.True(t, book.Lines[0].Balance.Equal(decimal.NewFromInt(1500)))
	assert.True(t, book.Lines[1].Balance.Equal(decimal.NewFromInt(1100)))
	assert.Equal(t, "RECEIPT", book.Lines[0].VoucherType)
	assert.Equal(t, "PAYMENT", book.Lines[1].VoucherType)
}

func TestBuildBookReport_UnknownBook(t *testing.T) {
	reports, _ := newReportFixture(t)
	from, to := june()
	_, err := reports.BuildBookReport(context.Background(), "petty", from, to)
	assert.Equal(t, "VALIDATION_ERROR", domainCode(t, err))
}

func TestTrialBalance_Balances(t *testing.T) {
	reports, _ := newReportFixture(t)
	from, to := june()

	tb, err := reports.TrialBalance(context.Background(), from, to)
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebits.Equal(tb.TotalCredits))
	assert.True(t, tb.TotalDebits.Equal(decimal.NewFromInt(1750)))

	rows := map[string]TrialBalanceRow{}
	for _, row := range tb.Rows {
		rows[row.AccountCode] = row
	}

	cash := rows[accounting.CodeCash]
	assert.True(t, cash.Opening.Equal(decimal.NewFromInt(500)))
	assert.True(t, cash.PeriodDebit.Equal(decimal.NewFromInt(1000)))
	assert.True(t, cash.PeriodCredit.Equal(decimal.NewFromInt(400)))
	assert.True(t, cash.DebitBalance.Equal(decimal.NewFromInt(1100)))

	bank := rows[accounting.CodeBank]
	assert.True(t, bank.CreditBalance.Equal(decimal.NewFromInt(250)))

	income := rows[accounting.CodeOtherIncome]
	assert.True(t, income.Opening.Equal(decimal.NewFromInt(-500)))
	assert.True(t, income.CreditBalance.Equal(decimal.NewFromInt(1500)))

	// accounts with no activity are dropped from the statement
	_, present := rows[accounting.CodeSalaryExpense]
	assert.False(t, present)
}

func TestProfitAndLoss(t *testing.T) {
	reports, _ := newReportFixture(t)
	from, to := june()

	pl, err := reports.ProfitAndLoss(context.Background(), from, to)
	require.NoError(t, err)
	assert.True(t, pl.TotalIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, pl.TotalExpenses.Equal(decimal.NewFromInt(650)))
	assert.True(t, pl.NetProfit.Equal(decimal.NewFromInt(350)))

	require.Len(t, pl.Income, 1)
	assert.Equal(t, accounting.CodeOtherIncome, pl.Income[0].AccountCode)
	require.Len(t, pl.Expenses, 1)
	assert.Equal(t, accounting.CodeGeneralExpense, pl.Expenses[0].AccountCode)
}

func TestExpenseAndIncomeReports(t *testing.T) {
	reports, _ := newReportFixture(t)
	from, to := june()

	expenses, err := reports.ExpenseReport(context.Background(), from, to)
	require.NoError(t, err)
	assert.True(t, expenses.Total.Equal(decimal.NewFromInt(650)))

	income, err := reports.IncomeReport(context.Background(), from, to)
	require.NoError(t, err)
	assert.True(t, income.Total.Equal(decimal.NewFromInt(1000)))
}

func TestBalanceSheet_ZeroDifference(t *testing.T) {
	reports, _ := newReportFixture(t)
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	bs, err := reports.BalanceSheet(context.Background(), asOf)
	require.NoError(t, err)
	assert.True(t, bs.TotalAssets.Equal(decimal.NewFromInt(850)), "cash 1100 plus overdrawn bank -250")
	assert.True(t, bs.TotalLiabilities.IsZero())
	assert.True(t, bs.Equity.Equal(decimal.NewFromInt(850)))
	assert.True(t, bs.Difference.IsZero())
}
