package accounting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/domain/shared"
)

// ReportService reconstructs books and financial statements from the ledger.
// Opening balances are recomputed by scanning full history on every call;
// correctness over latency. Long histories wanting low latency need a
// snapshot strategy layered on top, the public contract stays the same.
type ReportService struct {
	accountRepo accounting.AccountRepository
	entryRepo   accounting.LedgerEntryRepository
	accounts    *AccountService
}

// NewReportService creates a new ReportService
func NewReportService(
	accountRepo accounting.AccountRepository,
	entryRepo accounting.LedgerEntryRepository,
	accounts *AccountService,
) *ReportService {
	return &ReportService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		accounts:    accounts,
	}
}

// BookLine is one movement in a cash or bank book
type BookLine struct {
	Date          time.Time       `json:"date"`
	VoucherType   string          `json:"voucher_type"`
	VoucherNumber string          `json:"voucher_number"`
	Narration     string          `json:"narration,omitempty"`
	Inflow        decimal.Decimal `json:"inflow"`
	Outflow       decimal.Decimal `json:"outflow"`
	Balance       decimal.Decimal `json:"balance"`
}

// BookReport is a reconstructed cash or bank book over a period
type BookReport struct {
	Book           string          `json:"book"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalInflow    decimal.Decimal `json:"total_inflow"`
	TotalOutflow   decimal.Decimal `json:"total_outflow"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Lines          []BookLine      `json:"lines"`
}

// BuildBookReport reconstructs the cash or bank book for [from, to].
// The opening balance reduces every event strictly before the window plus the
// account's declared opening; closing = opening + inflow - outflow.
func (s *ReportService) BuildBookReport(ctx context.Context, book string, from, to time.Time) (*BookReport, error) {
	var subType accounting.AccountSubType
	switch strings.ToLower(book) {
	case "cash":
		subType = accounting.SubTypeCash
	case "bank":
		subType = accounting.SubTypeBank
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown book %q", book))
	}
	account, err := s.accounts.GetCoreAccount(ctx, subType)
	if err != nil {
		return nil, err
	}

	beforeStart := from.Add(-time.Nanosecond)
	prior, err := s.entryRepo.SumByAccount(ctx, account.ID, nil, &beforeStart)
	if err != nil {
		return nil, err
	}
	opening := prior.Net()

	entries, err := s.entryRepo.FindByAccount(ctx, account.ID, accounting.LedgerEntryFilter{
		FromDate: &from,
		ToDate:   &to,
	})
	if err != nil {
		return nil, err
	}

	report := &BookReport{
		Book:           strings.ToLower(book),
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Lines:          make([]BookLine, 0, len(entries)),
	}
	running := opening
	for _, entry := range entries {
		report.TotalInflow = report.TotalInflow.Add(entry.Debit)
		report.TotalOutflow = report.TotalOutflow.Add(entry.Credit)
		running = running.Add(entry.Amount())
		report.Lines = append(report.Lines, BookLine{
			Date:          entry.EntryDate,
			VoucherType:   entry.VoucherType.String(),
			VoucherNumber: entry.VoucherNumber,
			Narration:     entry.Narration,
			Inflow:        entry.Debit,
			Outflow:       entry.Credit,
			Balance:       running,
		})
	}
	report.ClosingBalance = opening.Add(report.TotalInflow).Sub(report.TotalOutflow)
	return report, nil
}

// TrialBalanceRow is one account's position in a trial balance
type TrialBalanceRow struct {
	AccountCode   string          `json:"account_code"`
	AccountName   string          `json:"account_name"`
	AccountType   string          `json:"account_type"`
	Opening       decimal.Decimal `json:"opening"`
	PeriodDebit   decimal.Decimal `json:"period_debit"`
	PeriodCredit  decimal.Decimal `json:"period_credit"`
	Closing       decimal.Decimal `json:"closing"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

// TrialBalanceReport lists every active account's period activity. Balanced
// is the ledger's internal consistency check: total debit balances must equal
// total credit balances.
type TrialBalanceReport struct {
	From         time.Time         `json:"from"`
	To           time.Time         `json:"to"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"total_debits"`
	TotalCredits decimal.Decimal   `json:"total_credits"`
	Balanced     bool              `json:"balanced"`
}

// TrialBalance builds the trial balance for [from, to]
func (s *ReportService) TrialBalance(ctx context.Context, from, to time.Time) (*TrialBalanceReport, error) {
	active := true
	accounts, err := s.accountRepo.FindAll(ctx, accounting.AccountFilter{
		Filter: shared.Filter{PageSize: -1},
		Active: &active,
	})
	if err != nil {
		return nil, err
	}

	report := &TrialBalanceReport{From: from, To: to}
	beforeStart := from.Add(-time.Nanosecond)
	for i := range accounts.Items {
		account := &accounts.Items[i]

		prior, err := s.entryRepo.SumByAccount(ctx, account.ID, nil, &beforeStart)
		if err != nil {
			return nil, err
		}
		opening := prior.Net()

		period, err := s.entryRepo.SumByAccount(ctx, account.ID, &from, &to)
		if err != nil {
			return nil, err
		}
		closing := opening.Add(period.Net())

		if opening.IsZero() && period.Debit.IsZero() && period.Credit.IsZero() {
			continue
		}
		row := TrialBalanceRow{
			AccountCode:  account.Code,
			AccountName:  account.Name,
			AccountType:  account.Type.String(),
			Opening:      opening,
			PeriodDebit:  period.Debit,
			PeriodCredit: period.Credit,
			Closing:      closing,
		}
		if closing.IsPositive() {
			row.DebitBalance = closing
		} else {
			row.CreditBalance = closing.Neg()
		}
		report.Rows = append(report.Rows, row)
		report.TotalDebits = report.TotalDebits.Add(row.DebitBalance)
		report.TotalCredits = report.TotalCredits.Add(row.CreditBalance)
	}
	report.Balanced = report.TotalDebits.Equal(report.TotalCredits)
	return report, nil
}

// CategoryTotal is one category row in a P&L or detail report
type CategoryTotal struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// ProfitAndLossReport summarizes income against expenses over a period
type ProfitAndLossReport struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Income        []CategoryTotal `json:"income"`
	Expenses      []CategoryTotal `json:"expenses"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}

// ProfitAndLoss builds the P&L for [from, to]. Income accounts accumulate on
// the credit side, expenses on the debit side.
func (s *ReportService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*ProfitAndLossReport, error) {
	report := &ProfitAndLossReport{From: from, To: to}

	income, total, err := s.categoryTotals(ctx, accounting.AccountTypeIncome, &from, &to)
	if err != nil {
		return nil, err
	}
	report.Income = income
	report.TotalIncome = total

	expenses, total, err := s.categoryTotals(ctx, accounting.AccountTypeExpense, &from, &to)
	if err != nil {
		return nil, err
	}
	report.Expenses = expenses
	report.TotalExpenses = total

	report.NetProfit = report.TotalIncome.Sub(report.TotalExpenses)
	return report, nil
}

// DetailReport lists category totals of one account type over a period
type DetailReport struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Categories []CategoryTotal `json:"categories"`
	Total      decimal.Decimal `json:"total"`
}

// ExpenseReport sums expenses grouped by category over [from, to]
func (s *ReportService) ExpenseReport(ctx context.Context, from, to time.Time) (*DetailReport, error) {
	categories, total, err := s.categoryTotals(ctx, accounting.AccountTypeExpense, &from, &to)
	if err != nil {
		return nil, err
	}
	return &DetailReport{From: from, To: to, Categories: categories, Total: total}, nil
}

// IncomeReport sums income grouped by category over [from, to]
func (s *ReportService) IncomeReport(ctx context.Context, from, to time.Time) (*DetailReport, error) {
	categories, total, err := s.categoryTotals(ctx, accounting.AccountTypeIncome, &from, &to)
	if err != nil {
		return nil, err
	}
	return &DetailReport{From: from, To: to, Categories: categories, Total: total}, nil
}

// categoryTotals sums per-account activity of one account type. Income is
// reported credit-positive, expense debit-positive.
func (s *ReportService) categoryTotals(
	ctx context.Context,
	accountType accounting.AccountType,
	from, to *time.Time,
) ([]CategoryTotal, decimal.Decimal, error) {
	accounts, err := s.accountRepo.FindAll(ctx, accounting.AccountFilter{
		Filter: shared.Filter{PageSize: -1},
		Type:   &accountType,
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	var categories []CategoryTotal
	total := decimal.Zero
	for i := range accounts.Items {
		account := &accounts.Items[i]
		sum, err := s.entryRepo.SumByAccount(ctx, account.ID, from, to)
		if err != nil {
			return nil, decimal.Zero, err
		}
		amount := sum.Net()
		if accountType == accounting.AccountTypeIncome {
			amount = amount.Neg()
		}
		if amount.IsZero() {
			continue
		}
		categories = append(categories, CategoryTotal{
			AccountCode: account.Code,
			AccountName: account.Name,
			Amount:      amount,
		})
		total = total.Add(amount)
	}
	return categories, total, nil
}

// BalanceSheetSection is one side of the balance sheet
type BalanceSheetSection struct {
	Rows  []CategoryTotal `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

// BalanceSheetReport is the position statement as of a date. Difference must
// be zero on a consistent ledger; expose it as a health check, never hide it.
type BalanceSheetReport struct {
	AsOf             time.Time           `json:"as_of"`
	Assets           BalanceSheetSection `json:"assets"`
	Liabilities      BalanceSheetSection `json:"liabilities"`
	Equity           decimal.Decimal     `json:"equity"`
	TotalAssets      decimal.Decimal     `json:"total_assets"`
	TotalLiabilities decimal.Decimal     `json:"total_liabilities"`
	Difference       decimal.Decimal     `json:"difference"`
}

// BalanceSheet builds the position statement as of a date. Liability balances
// are sign-flipped so credit balances read positive; equity is net income
// from epoch.
func (s *ReportService) BalanceSheet(ctx context.Context, asOf time.Time) (*BalanceSheetReport, error) {
	report := &BalanceSheetReport{AsOf: asOf}

	assets, err := s.closingSection(ctx, accounting.AccountTypeAsset, asOf, false)
	if err != nil {
		return nil, err
	}
	report.Assets = assets
	report.TotalAssets = assets.Total

	liabilities, err := s.closingSection(ctx, accounting.AccountTypeLiability, asOf, true)
	if err != nil {
		return nil, err
	}
	report.Liabilities = liabilities
	report.TotalLiabilities = liabilities.Total

	_, income, err := s.categoryTotals(ctx, accounting.AccountTypeIncome, nil, &asOf)
	if err != nil {
		return nil, err
	}
	_, expenses, err := s.categoryTotals(ctx, accounting.AccountTypeExpense, nil, &asOf)
	if err != nil {
		return nil, err
	}
	report.Equity = income.Sub(expenses)

	report.Difference = report.TotalAssets.Sub(report.TotalLiabilities.Add(report.Equity))
	return report, nil
}

// closingSection sums closing balances of one account type as of a date
func (s *ReportService) closingSection(
	ctx context.Context,
	accountType accounting.AccountType,
	asOf time.Time,
	flipSign bool,
) (BalanceSheetSection, error) {
	accounts, err := s.accountRepo.FindAll(ctx, accounting.AccountFilter{
		Filter: shared.Filter{PageSize: -1},
		Type:   &accountType,
	})
	if err != nil {
		return BalanceSheetSection{}, err
	}

	section := BalanceSheetSection{}
	for i := range accounts.Items {
		account := &accounts.Items[i]
		sum, err := s.entryRepo.SumByAccount(ctx, account.ID, nil, &asOf)
		if err != nil {
			return BalanceSheetSection{}, err
		}
		closing := sum.Net()
		if flipSign {
			closing = closing.Neg()
		}
		if closing.IsZero() {
			continue
		}
		section.Rows = append(section.Rows, CategoryTotal{
			AccountCode: account.Code,
			AccountName: account.Name,
			Amount:      closing,
		})
		section.Total = section.Total.Add(closing)
	}
	return section, nil
}
