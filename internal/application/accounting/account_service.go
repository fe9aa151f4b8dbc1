package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/spark7/backoffice/internal/domain/shared"
)

// AccountService provides application-level chart-of-accounts operations
type AccountService struct {
	accountRepo accounting.AccountRepository
	entryRepo   accounting.LedgerEntryRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo accounting.AccountRepository,
	entryRepo accounting.LedgerEntryRepository,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	SubType        string          `json:"sub_type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpeningSide    string          `json:"opening_side"`
	Active         bool            `json:"active"`
	System         bool            `json:"system"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required"`
	SubType     string `json:"sub_type" binding:"required"`
	Description string `json:"description"`
}

// UpdateAccountRequest represents a request to update an account
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	SubType     *string `json:"sub_type"`
	Active      *bool   `json:"active"`
	Description *string `json:"description"`
}

// AccountListFilter defines filtering options for account list queries
type AccountListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type"`
	SubType  string `form:"sub_type"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// EnsureDefaultAccounts idempotently seeds the system accounts. Existing codes
// are left untouched.
func (s *AccountService) EnsureDefaultAccounts(ctx context.Context) error {
	for _, spec := range accounting.DefaultAccounts() {
		existing, err := s.accountRepo.FindByCode(ctx, spec.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		account, err := accounting.NewSystemAccount(spec.Code, spec.Name, spec.Type, spec.SubType)
		if err != nil {
			return err
		}
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return err
		}
	}
	return nil
}

// GetCoreAccount returns the active system account for a money or control
// sub-type. A missing core account is a deployment problem, not user error.
func (s *AccountService) GetCoreAccount(ctx context.Context, subType accounting.AccountSubType) (*accounting.Account, error) {
	accounts, err := s.accountRepo.FindBySubType(ctx, subType)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].System && accounts[i].Active {
			return &accounts[i], nil
		}
	}
	return nil, shared.NewDomainError("CONFIGURATION_ERROR",
		fmt.Sprintf("No active system account configured for sub-type %s", subType))
}

// GetOrCreateAccount looks up an account case-insensitively by (type, name)
// and creates it with a generated code when absent. Used to materialize
// ad-hoc expense and income categories.
func (s *AccountService) GetOrCreateAccount(
	ctx context.Context,
	name string,
	accountType accounting.AccountType,
	subType accounting.AccountSubType,
) (*accounting.Account, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account name cannot be empty")
	}
	normalized := accounting.NormalizeAccountName(name)
	existing, err := s.accountRepo.FindByTypeAndNormalizedName(ctx, accountType, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	code, err := s.nextCode(ctx, accountType)
	if err != nil {
		return nil, err
	}
	account, err := accounting.NewAccount(code, name, accountType, subType)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// nextCode generates the next free code in the type's number range
func (s *AccountService) nextCode(ctx context.Context, accountType accounting.AccountType) (string, error) {
	base := map[accounting.AccountType]int{
		accounting.AccountTypeAsset:     1900,
		accounting.AccountTypeLiability: 2900,
		accounting.AccountTypeIncome:    4900,
		accounting.AccountTypeExpense:   5900,
	}[accountType]

	for i := 1; i < 1000; i++ {
		code := fmt.Sprintf("%d", base+i)
		existing, err := s.accountRepo.FindByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", shared.NewDomainError("CONFIGURATION_ERROR",
		fmt.Sprintf("Account code range exhausted for type %s", accountType))
}

// CreateAccount explicitly creates an account
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	accountType := accounting.AccountType(req.Type)
	subType := accounting.AccountSubType(req.SubType)

	code := req.Code
	if code != "" {
		existing, err := s.accountRepo.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Account code %s is already in use", code))
		}
	} else {
		generated, err := s.nextCode(ctx, accountType)
		if err != nil {
			return nil, err
		}
		code = generated
	}

	account, err := accounting.NewAccount(code, req.Name, accountType, subType)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		account.Description = req.Description
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// UpdateAccount renames an account and toggles activation. Sub-type changes
// and deactivation are rejected for system accounts by the aggregate.
func (s *AccountService) UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.findAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := account.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.SubType != nil {
		if err := account.ChangeSubType(accounting.AccountSubType(*req.SubType)); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			account.Activate()
		} else if err := account.Deactivate(); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		account.Description = *req.Description
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// GetAccountByID gets an account by ID
func (s *AccountService) GetAccountByID(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.findAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// ListAccounts lists accounts with filtering and pagination
func (s *AccountService) ListAccounts(ctx context.Context, filter AccountListFilter) (*shared.Paginated[AccountResponse], error) {
	repoFilter := accounting.AccountFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
		Active: filter.Active,
	}
	if filter.Type != "" {
		accountType := accounting.AccountType(filter.Type)
		repoFilter.Type = &accountType
	}
	if filter.SubType != "" {
		subType := accounting.AccountSubType(filter.SubType)
		repoFilter.SubType = &subType
	}

	page, err := s.accountRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]AccountResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toAccountResponse(&page.Items[i])
	}
	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// LedgerEntryResponse represents one ledger line in API responses
type LedgerEntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"account_id"`
	EntryDate       time.Time       `json:"entry_date"`
	VoucherType     string          `json:"voucher_type"`
	VoucherNumber   string          `json:"voucher_number"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Narration       string          `json:"narration,omitempty"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	RunningBalance  decimal.Decimal `json:"running_balance"`
	Reconciled      bool            `json:"reconciled"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AccountLedgerFilter defines filtering options for account ledger queries
type AccountLedgerFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// GetAccountLedger lists an account's ledger entries over a date range
func (s *AccountService) GetAccountLedger(ctx context.Context, id uuid.UUID, filter AccountLedgerFilter) ([]LedgerEntryResponse, error) {
	if _, err := s.findAccount(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindByAccount(ctx, id, accounting.LedgerEntryFilter{
		Filter:   shared.Filter{Page: filter.Page, PageSize: filter.PageSize},
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	})
	if err != nil {
		return nil, err
	}
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = toLedgerEntryResponse(&entries[i])
	}
	return responses, nil
}

func toLedgerEntryResponse(entry *accounting.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              entry.ID,
		AccountID:       entry.AccountID,
		EntryDate:       entry.EntryDate,
		VoucherType:     entry.VoucherType.String(),
		VoucherNumber:   entry.VoucherNumber,
		ReferenceNumber: entry.ReferenceNumber,
		Narration:       entry.Narration,
		Debit:           entry.Debit,
		Credit:          entry.Credit,
		RunningBalance:  entry.RunningBalance,
		Reconciled:      entry.Reconciled,
		CreatedAt:       entry.CreatedAt,
	}
}

func (s *AccountService) findAccount(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Account not found")
	}
	return account, nil
}

func toAccountResponse(account *accounting.Account) *AccountResponse {
	return &AccountResponse{
		ID:             account.ID,
		Code:           account.Code,
		Name:           account.Name,
		Type:           account.Type.String(),
		SubType:        account.SubType.String(),
		OpeningBalance: account.OpeningBalance,
		OpeningSide:    account.OpeningSide.String(),
		Active:         account.Active,
		System:         account.System,
		Description:    account.Description,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
		Version:        account.GetVersion(),
	}
}
