package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/shared"
	"github.com/spark7/backoffice/internal/domain/shared/valueobject"
)

// AccountType classifies an account in the chart of accounts
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// AccountSubType is a closed classification used for routing postings.
// Cash/bank routing dispatches on this tag, never on name matching.
type AccountSubType string

const (
	SubTypeCash     AccountSubType = "CASH"
	SubTypeBank     AccountSubType = "BANK"
	SubTypeCustomer AccountSubType = "CUSTOMER"
	SubTypeSupplier AccountSubType = "SUPPLIER"
	SubTypeStock    AccountSubType = "STOCK"
	SubTypeGeneral  AccountSubType = "GENERAL"
)

// IsValid checks if the sub-type is a valid AccountSubType
func (s AccountSubType) IsValid() bool {
	switch s {
	case SubTypeCash, SubTypeBank, SubTypeCustomer, SubTypeSupplier, SubTypeStock, SubTypeGeneral:
		return true
	}
	return false
}

// String returns the string representation of AccountSubType
func (s AccountSubType) String() string {
	return string(s)
}

// BalanceSide indicates which side of the ledger a balance sits on
type BalanceSide string

const (
	SideDebit  BalanceSide = "DEBIT"
	SideCredit BalanceSide = "CREDIT"
)

// IsValid checks if the side is a valid BalanceSide
func (s BalanceSide) IsValid() bool {
	return s == SideDebit || s == SideCredit
}

// String returns the string representation of BalanceSide
func (s BalanceSide) String() string {
	return string(s)
}

// Account is one entry in the chart of accounts.
// System accounts are seeded on first use and can never be deleted or
// re-classified; user accounts are auto-vivified by (type, name) or created
// explicitly. Accounts are only ever deactivated, never hard-deleted.
type Account struct {
	shared.BaseAggregateRoot
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	SubType        AccountSubType  `json:"sub_type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpeningSide    BalanceSide     `json:"opening_side"`
	Active         bool            `json:"active"`
	System         bool            `json:"system"`
	Description    string          `json:"description,omitempty"`
}

// NewAccount creates a new chart-of-accounts entry
func NewAccount(code, name string, accountType AccountType, subType AccountSubType) (*Account, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot exceed 20 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot exceed 200 characters")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("Unknown account type %q", accountType))
	}
	if subType == "" {
		subType = SubTypeGeneral
	}
	if !subType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_SUBTYPE", fmt.Sprintf("Unknown account sub-type %q", subType))
	}

	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		Type:              accountType,
		SubType:           subType,
		OpeningBalance:    decimal.Zero,
		OpeningSide:       SideDebit,
		Active:            true,
	}, nil
}

// NewSystemAccount creates a system-owned account seeded by the registry
func NewSystemAccount(code, name string, accountType AccountType, subType AccountSubType) (*Account, error) {
	a, err := NewAccount(code, name, accountType, subType)
	if err != nil {
		return nil, err
	}
	a.System = true
	return a, nil
}

// Rename changes the display name
func (a *Account) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot exceed 200 characters")
	}
	a.Name = name
	a.touch()
	return nil
}

// ChangeSubType reclassifies the account; rejected for system accounts
func (a *Account) ChangeSubType(subType AccountSubType) error {
	if a.System {
		return shared.NewDomainError("POLICY_VIOLATION", "System accounts cannot be re-classified")
	}
	if !subType.IsValid() {
		return shared.NewDomainError("INVALID_ACCOUNT_SUBTYPE", fmt.Sprintf("Unknown account sub-type %q", subType))
	}
	a.SubType = subType
	a.touch()
	return nil
}

// SetOpeningBalance records the declared opening balance and side
func (a *Account) SetOpeningBalance(amount valueobject.Money, side BalanceSide) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Opening balance cannot be negative")
	}
	if !side.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown balance side %q", side))
	}
	a.OpeningBalance = amount.Amount()
	a.OpeningSide = side
	a.touch()
	return nil
}

// Deactivate marks the account inactive; system accounts stay active
func (a *Account) Deactivate() error {
	if a.System {
		return shared.NewDomainError("POLICY_VIOLATION", "System accounts cannot be deactivated")
	}
	a.Active = false
	a.touch()
	return nil
}

// Activate marks the account active again
func (a *Account) Activate() {
	a.Active = true
	a.touch()
}

// SetDescription sets the free-text description
func (a *Account) SetDescription(description string) {
	a.Description = description
	a.touch()
}

// IsDebitNormal returns true for account types whose balance grows on the debit side
func (a *Account) IsDebitNormal() bool {
	return a.Type == AccountTypeAsset || a.Type == AccountTypeExpense
}

// SignedOpeningBalance returns the opening balance with debit positive, credit negative
func (a *Account) SignedOpeningBalance() decimal.Decimal {
	if a.OpeningSide == SideCredit {
		return a.OpeningBalance.Neg()
	}
	return a.OpeningBalance
}

func (a *Account) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// NormalizeAccountName lowers and trims a name for case-insensitive lookup
func NormalizeAccountName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
