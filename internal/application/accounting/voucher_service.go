package accounting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/spark7/backoffice/internal/domain/shared/service"
	"github.com/spark7/backoffice/internal/domain/shared/valueobject"
)

// VoucherService groups balanced ledger postings into vouchers. The voucher
// row and every ledger entry it fans out are written in one transaction.
type VoucherService struct {
	uow         shared.UnitOfWork
	accountRepo accounting.AccountRepository
	voucherRepo accounting.VoucherRepository
	openingRepo accounting.OpeningBalanceRepository
	ledger      *LedgerService
	accounts    *AccountService
	numbers     service.NumberGenerator
}

// NewVoucherService creates a new VoucherService
func NewVoucherService(
	uow shared.UnitOfWork,
	accountRepo accounting.AccountRepository,
	voucherRepo accounting.VoucherRepository,
	openingRepo accounting.OpeningBalanceRepository,
	ledger *LedgerService,
	accounts *AccountService,
	numbers service.NumberGenerator,
) *VoucherService {
	return &VoucherService{
		uow:         uow,
		accountRepo: accountRepo,
		voucherRepo: voucherRepo,
		openingRepo: openingRepo,
		ledger:      ledger,
		accounts:    accounts,
		numbers:     numbers,
	}
}

// VoucherLineRequest is one line of a voucher creation request
type VoucherLineRequest struct {
	AccountID uuid.UUID       `json:"account_id" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration string          `json:"narration"`
}

// CreateVoucherRequest represents a request to create a voucher
type CreateVoucherRequest struct {
	Type            string               `json:"type" binding:"required"`
	Date            time.Time            `json:"date" binding:"required"`
	PaymentMode     string               `json:"payment_mode"`
	ReferenceNumber string               `json:"reference_number"`
	Counterparty    string               `json:"counterparty"`
	Notes           string               `json:"notes"`
	Lines           []VoucherLineRequest `json:"lines" binding:"required"`
	Source          accounting.SourceRef `json:"-"`
	CreatedBy       *uuid.UUID           `json:"-"` // Set from JWT context, not from request body
}

// VoucherResponse represents a voucher in API responses
type VoucherResponse struct {
	ID              uuid.UUID                `json:"id"`
	VoucherNumber   string                   `json:"voucher_number"`
	Type            string                   `json:"type"`
	Date            time.Time                `json:"date"`
	PaymentMode     string                   `json:"payment_mode,omitempty"`
	ReferenceNumber string                   `json:"reference_number,omitempty"`
	Counterparty    string                   `json:"counterparty,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
	TotalAmount     decimal.Decimal          `json:"total_amount"`
	Lines           []accounting.VoucherLine `json:"lines"`
	Printed         bool                     `json:"printed"`
	CreatedAt       time.Time                `json:"created_at"`
}

// VoucherListFilter defines filtering options for voucher list queries
type VoucherListFilter struct {
	Type      string `form:"type"`
	Mode      string `form:"mode"`
	FromDate  *time.Time
	ToDate    *time.Time
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// CreateVoucher validates, numbers, and persists a balanced voucher together
// with all of its ledger postings in one transaction
func (s *VoucherService) CreateVoucher(ctx context.Context, req CreateVoucherRequest) (*VoucherResponse, error) {
	voucherType := accounting.VoucherType(strings.ToUpper(req.Type))
	if !voucherType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown voucher type %q", req.Type))
	}

	var response *VoucherResponse
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		voucher, err := s.createVoucherTx(txCtx, voucherType, req)
		if err != nil {
			return err
		}
		response = toVoucherResponse(voucher)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// createVoucherTx does the voucher work inside an open transaction
func (s *VoucherService) createVoucherTx(
	ctx context.Context,
	voucherType accounting.VoucherType,
	req CreateVoucherRequest,
) (*accounting.Voucher, error) {
	lines := make([]accounting.VoucherLine, 0, len(req.Lines))
	for _, lr := range req.Lines {
		lines = append(lines, accounting.VoucherLine{
			AccountID: lr.AccountID,
			Debit:     lr.Debit,
			Credit:    lr.Credit,
			Narration: lr.Narration,
		})
	}

	number, err := s.numbers.Next(ctx, "voucher:"+voucherType.Prefix(), service.NumberFormat{
		Prefix:   voucherType.Prefix(),
		DatePart: true,
		Pad:      6,
	})
	if err != nil {
		return nil, err
	}

	voucher, err := accounting.NewVoucher(number, voucherType, req.Date, lines)
	if err != nil {
		return nil, err
	}
	if req.PaymentMode != "" {
		if err := voucher.SetPaymentMode(accounting.PaymentMode(strings.ToUpper(req.PaymentMode))); err != nil {
			return nil, err
		}
	}
	voucher.SetReference(req.ReferenceNumber)
	voucher.SetCounterparty(req.Counterparty)
	voucher.SetNotes(req.Notes)
	if req.CreatedBy != nil {
		voucher.SetCreatedBy(*req.CreatedBy)
	}

	// resolve every account before any write
	for _, line := range voucher.Lines {
		account, err := s.accountRepo.FindByID(ctx, line.AccountID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, shared.NewDomainError("NOT_FOUND",
				fmt.Sprintf("Account %s referenced by a voucher line does not exist", line.AccountID))
		}
	}

	if err := s.voucherRepo.Save(ctx, voucher); err != nil {
		return nil, err
	}
	for _, line := range voucher.Lines {
		if _, err := s.ledger.Post(ctx, PostRequest{
			AccountID:       line.AccountID,
			EntryDate:       voucher.VoucherDate,
			VoucherType:     voucher.Type,
			VoucherID:       voucher.ID,
			VoucherNumber:   voucher.VoucherNumber,
			ReferenceNumber: voucher.ReferenceNumber,
			Narration:       line.Narration,
			Debit:           line.Debit,
			Credit:          line.Credit,
			Source:          req.Source,
			CreatedBy:       req.CreatedBy,
		}); err != nil {
			return nil, err
		}
	}
	return voucher, nil
}

// SimpleVoucherRequest covers the one-amount entry points (receipt, payment,
// salary, contract payout)
type SimpleVoucherRequest struct {
	Date            time.Time       `json:"date" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Mode            string          `json:"mode" binding:"required"` // cash | bank
	CategoryAccount string          `json:"category_account" binding:"required"`
	ReferenceNumber string          `json:"reference_number"`
	Counterparty    string          `json:"counterparty"`
	Notes           string          `json:"notes"`
	CreatedBy       *uuid.UUID      `json:"-"`
}

// Receipt records money coming in: debit cash/bank, credit an income account
func (s *VoucherService) Receipt(ctx context.Context, req SimpleVoucherRequest) (*VoucherResponse, error) {
	return s.simpleVoucher(ctx, accounting.VoucherTypeReceipt, req, true)
}

// Payment records money going out: debit an expense account, credit cash/bank
func (s *VoucherService) Payment(ctx context.Context, req SimpleVoucherRequest) (*VoucherResponse, error) {
	return s.simpleVoucher(ctx, accounting.VoucherTypePayment, req, false)
}

// Salary records a payroll payout against the salary expense account
func (s *VoucherService) Salary(ctx context.Context, req SimpleVoucherRequest) (*VoucherResponse, error) {
	req.CategoryAccount = accounting.CodeSalaryExpense
	return s.simpleVoucher(ctx, accounting.VoucherTypeSalary, req, false)
}

// Contract records a contract payout against the contract expense account
func (s *VoucherService) Contract(ctx context.Context, req SimpleVoucherRequest) (*VoucherResponse, error) {
	req.CategoryAccount = accounting.CodeContractExpense
	return s.simpleVoucher(ctx, accounting.VoucherTypeContract, req, false)
}

// SalesReceiptRequest records money received against a posted sale
type SalesReceiptRequest struct {
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          string          `json:"mode"` // cash | bank
	SaleID        uuid.UUID       `json:"sale_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CreatedBy     *uuid.UUID      `json:"-"`
}

// SalesReceipt posts the money-in voucher for a sale: debit cash/bank, credit
// sales income, tagged with the sale as source
func (s *VoucherService) SalesReceipt(ctx context.Context, req SalesReceiptRequest) (*VoucherResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	moneyAccount, err := s.moneyAccount(ctx, req.Mode)
	if err != nil {
		return nil, err
	}
	salesAccount, err := s.accountRepo.FindByCode(ctx, accounting.CodeSalesIncome)
	if err != nil {
		return nil, err
	}
	if salesAccount == nil {
		return nil, shared.NewDomainError("CONFIGURATION_ERROR", "Sales income account is missing")
	}

	narration := fmt.Sprintf("Payment against %s", req.InvoiceNumber)
	return s.CreateVoucher(ctx, CreateVoucherRequest{
		Type:            accounting.VoucherTypeSales.String(),
		Date:            req.Date,
		PaymentMode:     strings.ToUpper(req.Mode),
		ReferenceNumber: req.InvoiceNumber,
		Notes:           narration,
		Lines: []VoucherLineRequest{
			{AccountID: moneyAccount.ID, Debit: req.Amount, Narration: narration},
			{AccountID: salesAccount.ID, Credit: req.Amount, Narration: narration},
		},
		Source:    accounting.SourceRef{Type: "sale", ID: req.SaleID},
		CreatedBy: req.CreatedBy,
	})
}

func (s *VoucherService) simpleVoucher(
	ctx context.Context,
	voucherType accounting.VoucherType,
	req SimpleVoucherRequest,
	moneyIn bool,
) (*VoucherResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	moneyAccount, err := s.moneyAccount(ctx, req.Mode)
	if err != nil {
		return nil, err
	}
	category, err := s.accountRepo.FindByCode(ctx, req.CategoryAccount)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, shared.NewDomainError("NOT_FOUND",
			fmt.Sprintf("Category account %s not found", req.CategoryAccount))
	}

	moneyLine := VoucherLineRequest{AccountID: moneyAccount.ID, Narration: req.Notes}
	categoryLine := VoucherLineRequest{AccountID: category.ID, Narration: req.Notes}
	if moneyIn {
		moneyLine.Debit = req.Amount
		categoryLine.Credit = req.Amount
	} else {
		moneyLine.Credit = req.Amount
		categoryLine.Debit = req.Amount
	}

	return s.CreateVoucher(ctx, CreateVoucherRequest{
		Type:            voucherType.String(),
		Date:            req.Date,
		PaymentMode:     strings.ToUpper(req.Mode),
		ReferenceNumber: req.ReferenceNumber,
		Counterparty:    req.Counterparty,
		Notes:           req.Notes,
		Lines:           []VoucherLineRequest{moneyLine, categoryLine},
		CreatedBy:       req.CreatedBy,
	})
}

// TransferRequest moves value between the cash and bank system accounts
type TransferRequest struct {
	Date      time.Time       `json:"date" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Direction string          `json:"direction" binding:"required"` // cash_to_bank | bank_to_cash
	Notes     string          `json:"notes"`
	CreatedBy *uuid.UUID      `json:"-"`
}

// Transfer posts a cash and bank transfer voucher
func (s *VoucherService) Transfer(ctx context.Context, req TransferRequest) (*VoucherResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	cash, err := s.accounts.GetCoreAccount(ctx, accounting.SubTypeCash)
	if err != nil {
		return nil, err
	}
	bank, err := s.accounts.GetCoreAccount(ctx, accounting.SubTypeBank)
	if err != nil {
		return nil, err
	}

	var from, to *accounting.Account
	switch strings.ToLower(req.Direction) {
	case "cash_to_bank":
		from, to = cash, bank
	case "bank_to_cash":
		from, to = bank, cash
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Unknown transfer direction %q", req.Direction))
	}

	return s.CreateVoucher(ctx, CreateVoucherRequest{
		Type:  accounting.VoucherTypeTransfer.String(),
		Date:  req.Date,
		Notes: req.Notes,
		Lines: []VoucherLineRequest{
			{AccountID: to.ID, Debit: req.Amount, Narration: req.Notes},
			{AccountID: from.ID, Credit: req.Amount, Narration: req.Notes},
		},
		CreatedBy: req.CreatedBy,
	})
}

// Journal posts arbitrary caller-specified balanced lines
func (s *VoucherService) Journal(ctx context.Context, req CreateVoucherRequest) (*VoucherResponse, error) {
	req.Type = accounting.VoucherTypeJournal.String()
	return s.CreateVoucher(ctx, req)
}

// OpeningLineRequest declares one account's opening balance
type OpeningLineRequest struct {
	AccountID uuid.UUID       `json:"account_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Side      string          `json:"side" binding:"required"` // DEBIT | CREDIT
}

// OpeningRequest posts opening balances for a financial year
type OpeningRequest struct {
	FinancialYear string               `json:"financial_year" binding:"required"`
	Date          time.Time            `json:"date" binding:"required"`
	Lines         []OpeningLineRequest `json:"lines" binding:"required"`
	Notes         string               `json:"notes"`
	CreatedBy     *uuid.UUID           `json:"-"`
}

// Opening posts declared opening balances and records them on the accounts.
// Rejected with LOCKED once the opening-balance setup is locked. The
// balancing counter-line goes to the opening stock account.
func (s *VoucherService) Opening(ctx context.Context, req OpeningRequest) (*VoucherResponse, error) {
	setup, err := s.openingRepo.FindCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if setup == nil {
		setup, err = accounting.NewOpeningBalanceSetup(req.FinancialYear, req.Date)
		if err != nil {
			return nil, err
		}
	}
	if err := setup.EnsureUnlocked(); err != nil {
		return nil, err
	}

	balancer, err := s.accounts.GetCoreAccount(ctx, accounting.SubTypeStock)
	if err != nil {
		return nil, err
	}

	lines := make([]VoucherLineRequest, 0, len(req.Lines)+1)
	net := decimal.Zero
	for _, lr := range req.Lines {
		line := accounting.OpeningBalanceLine{
			AccountID: lr.AccountID,
			Amount:    lr.Amount,
			Side:      accounting.BalanceSide(strings.ToUpper(lr.Side)),
		}
		if err := line.Validate(); err != nil {
			return nil, err
		}
		vl := VoucherLineRequest{AccountID: line.AccountID, Narration: "Opening balance"}
		if line.Side == accounting.SideDebit {
			vl.Debit = line.Amount
			net = net.Add(line.Amount)
		} else {
			vl.Credit = line.Amount
			net = net.Sub(line.Amount)
		}
		lines = append(lines, vl)
	}
	// balance the voucher through the opening stock account
	balancerLine := VoucherLineRequest{AccountID: balancer.ID, Narration: "Opening balance contra"}
	switch {
	case net.IsPositive():
		balancerLine.Credit = net
	case net.IsNegative():
		balancerLine.Debit = net.Neg()
	}
	if !net.IsZero() {
		lines = append(lines, balancerLine)
	}

	var response *VoucherResponse
	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		voucher, err := s.createVoucherTx(txCtx, accounting.VoucherTypeOpening, CreateVoucherRequest{
			Type:      accounting.VoucherTypeOpening.String(),
			Date:      req.Date,
			Notes:     req.Notes,
			Lines:     lines,
			CreatedBy: req.CreatedBy,
		})
		if err != nil {
			return err
		}

		// record the declared opening on each account
		for _, lr := range req.Lines {
			account, err := s.accountRepo.FindByID(txCtx, lr.AccountID)
			if err != nil {
				return err
			}
			if account == nil {
				return shared.NewDomainError("NOT_FOUND", "Opening balance account not found")
			}
			side := accounting.BalanceSide(strings.ToUpper(lr.Side))
			if err := account.SetOpeningBalance(valueobject.NewMoneyINR(lr.Amount), side); err != nil {
				return err
			}
			if err := s.accountRepo.Save(txCtx, account); err != nil {
				return err
			}
		}

		setup.Notes = req.Notes
		if err := s.openingRepo.Save(txCtx, setup); err != nil {
			return err
		}
		response = toVoucherResponse(voucher)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// LockOpeningBalances permanently closes opening-balance entry
func (s *VoucherService) LockOpeningBalances(ctx context.Context, lockedBy uuid.UUID) error {
	setup, err := s.openingRepo.FindCurrent(ctx)
	if err != nil {
		return err
	}
	if setup == nil {
		return shared.NewDomainError("NOT_FOUND", "No opening balances have been saved yet")
	}
	if err := setup.Lock(lockedBy); err != nil {
		return err
	}
	return s.openingRepo.Save(ctx, setup)
}

// OpeningBalanceStatus reports whether opening balances exist and are locked
type OpeningBalanceStatus struct {
	Exists        bool       `json:"exists"`
	FinancialYear string     `json:"financial_year,omitempty"`
	Locked        bool       `json:"locked"`
	LockedAt      *time.Time `json:"locked_at,omitempty"`
}

// GetOpeningBalanceStatus returns the current opening-balance state
func (s *VoucherService) GetOpeningBalanceStatus(ctx context.Context) (*OpeningBalanceStatus, error) {
	setup, err := s.openingRepo.FindCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if setup == nil {
		return &OpeningBalanceStatus{}, nil
	}
	return &OpeningBalanceStatus{
		Exists:        true,
		FinancialYear: setup.FinancialYear,
		Locked:        setup.Locked,
		LockedAt:      setup.LockedAt,
	}, nil
}

// MarkPrinted toggles the printed flag, the only post-creation voucher mutation
func (s *VoucherService) MarkPrinted(ctx context.Context, id uuid.UUID) (*VoucherResponse, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Voucher not found")
	}
	voucher.MarkPrinted()
	if err := s.voucherRepo.SavePrinted(ctx, voucher); err != nil {
		return nil, err
	}
	return toVoucherResponse(voucher), nil
}

// GetVoucherByID gets a voucher by ID
func (s *VoucherService) GetVoucherByID(ctx context.Context, id uuid.UUID) (*VoucherResponse, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Voucher not found")
	}
	return toVoucherResponse(voucher), nil
}

// ListVouchers lists vouchers with filtering and pagination
func (s *VoucherService) ListVouchers(ctx context.Context, filter VoucherListFilter) (*shared.Paginated[VoucherResponse], error) {
	repoFilter := accounting.VoucherFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.SortBy,
			OrderDir: filter.SortOrder,
		},
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}
	if filter.Type != "" {
		voucherType := accounting.VoucherType(strings.ToUpper(filter.Type))
		repoFilter.Type = &voucherType
	}
	if filter.Mode != "" {
		mode := accounting.PaymentMode(strings.ToUpper(filter.Mode))
		repoFilter.PaymentMode = &mode
	}

	page, err := s.voucherRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]VoucherResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toVoucherResponse(&page.Items[i])
	}
	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

func (s *VoucherService) moneyAccount(ctx context.Context, mode string) (*accounting.Account, error) {
	switch strings.ToLower(mode) {
	case "cash":
		return s.accounts.GetCoreAccount(ctx, accounting.SubTypeCash)
	case "bank":
		return s.accounts.GetCoreAccount(ctx, accounting.SubTypeBank)
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown payment mode %q", mode))
	}
}

func toVoucherResponse(voucher *accounting.Voucher) *VoucherResponse {
	response := &VoucherResponse{
		ID:              voucher.ID,
		VoucherNumber:   voucher.VoucherNumber,
		Type:            voucher.Type.String(),
		Date:            voucher.VoucherDate,
		ReferenceNumber: voucher.ReferenceNumber,
		Counterparty:    voucher.Counterparty,
		Notes:           voucher.Notes,
		TotalAmount:     voucher.TotalAmount,
		Lines:           voucher.Lines,
		Printed:         voucher.Printed,
		CreatedAt:       voucher.CreatedAt,
	}
	if voucher.PaymentMode != nil {
		response.PaymentMode = voucher.PaymentMode.String()
	}
	return response
}
