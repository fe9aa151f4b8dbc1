package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/shared"
)

// OpeningBalanceSetup tracks the one-time opening-balance entry process for a
// financial year. Once locked it can never be unlocked; subsequent opening
// adjustments must go through journal vouchers instead.
type OpeningBalanceSetup struct {
	shared.BaseAggregateRoot
	FinancialYear string     `json:"financial_year"`
	AsOfDate      time.Time  `json:"as_of_date"`
	Locked        bool       `json:"locked"`
	LockedAt      *time.Time `json:"locked_at,omitempty"`
	LockedBy      *uuid.UUID `json:"locked_by,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// NewOpeningBalanceSetup creates an unlocked setup for the given financial year
func NewOpeningBalanceSetup(financialYear string, asOfDate time.Time) (*OpeningBalanceSetup, error) {
	if financialYear == "" {
		return nil, shared.NewDomainError("INVALID_FINANCIAL_YEAR", "Financial year cannot be empty")
	}
	if asOfDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "As-of date is required")
	}
	return &OpeningBalanceSetup{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FinancialYear:     financialYear,
		AsOfDate:          asOfDate,
	}, nil
}

// Lock permanently closes opening-balance entry for the year
func (s *OpeningBalanceSetup) Lock(lockedBy uuid.UUID) error {
	if s.Locked {
		return shared.NewDomainError("LOCKED", "Opening balances are already locked for this financial year")
	}
	now := time.Now()
	s.Locked = true
	s.LockedAt = &now
	s.LockedBy = &lockedBy
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}

// EnsureUnlocked returns LOCKED when opening-balance entry is closed
func (s *OpeningBalanceSetup) EnsureUnlocked() error {
	if s.Locked {
		return shared.NewDomainError("LOCKED", "Opening balances are locked; use a journal voucher for adjustments")
	}
	return nil
}

// OpeningBalanceLine is one account's opening position captured during setup
type OpeningBalanceLine struct {
	AccountID uuid.UUID       `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Side      BalanceSide     `json:"side"`
}

// Validate checks the line carries a usable amount and side
func (l OpeningBalanceLine) Validate() error {
	if l.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Opening balance line account ID cannot be empty")
	}
	if l.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Opening balance cannot be negative; flip the side instead")
	}
	if !l.Side.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Opening balance side must be DEBIT or CREDIT")
	}
	return nil
}
