package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spark7/backoffice/internal/domain/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerPost_UnknownAccount(t *testing.T) {
	ledger := NewLedgerService(newMemAccountRepo(), &memEntryRepo{})
	_, err := ledger.Post(context.Background(), PostRequest{
		AccountID:   uuid.New(),
		EntryDate:   time.Now(),
		VoucherType: accounting.VoucherTypeJournal,
		Debit:       decimal.NewFromInt(100),
	})
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestLedgerPost_InactiveAccount(t *testing.T) {
	repo := newMemAccountRepo()
	account, err := accounting.NewAccount("5901", "Old Rent", accounting.AccountTypeExpense, accounting.SubTypeGeneral)
	require.NoError(t, err)
	require.NoError(t, account.Deactivate())
	require.NoError(t, repo.Save(context.Background(), account))

	ledger := NewLedgerService(repo, &memEntryRepo{})
	_, err = ledger.Post(context.Background(), PostRequest{
		AccountID:   account.ID,
		EntryDate:   time.Now(),
		VoucherType: accounting.VoucherTypeJournal,
		Debit:       decimal.NewFromInt(100),
	})
	assert.Equal(t, "INVALID_STATE", domainCode(t, err))
}

func TestLedgerPost_RunningBalanceFromPriorEntries(t *testing.T) {
	repo := newMemAccountRepo()
	entries := &memEntryRepo{}
	account, err := accounting.NewAccount("1501", "Petty Cash", accounting.AccountTypeAsset, accounting.SubTypeCash)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), account))

	ledger := NewLedgerService(repo, entries)
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	first, err := ledger.Post(context.Background(), PostRequest{
		AccountID:   account.ID,
		EntryDate:   date,
		VoucherType: accounting.VoucherTypeReceipt,
		Debit:       decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.True(t, first.RunningBalance.Equal(decimal.NewFromInt(1000)))

	second, err := ledger.Post(context.Background(), PostRequest{
		AccountID:   account.ID,
		EntryDate:   date.AddDate(0, 0, 1),
		VoucherType: accounting.VoucherTypePayment,
		Credit:      decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assert.True(t, second.RunningBalance.Equal(decimal.NewFromInt(700)))

	closing, err := ledger.AccountClosing(context.Background(), account.ID, nil)
	require.NoError(t, err)
	assert.True(t, closing.Equal(decimal.NewFromInt(700)))

	asOf := date
	early, err := ledger.AccountClosing(context.Background(), account.ID, &asOf)
	require.NoError(t, err)
	assert.True(t, early.Equal(decimal.NewFromInt(1000)))
}

func TestLedgerReconcile(t *testing.T) {
	repo := newMemAccountRepo()
	entries := &memEntryRepo{}
	account, err := accounting.NewAccount("1501", "Petty Cash", accounting.AccountTypeAsset, accounting.SubTypeCash)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), account))

	ledger := NewLedgerService(repo, entries)
	posted, err := ledger.Post(context.Background(), PostRequest{
		AccountID:   account.ID,
		EntryDate:   time.Now(),
		VoucherType: accounting.VoucherTypeReceipt,
		Debit:       decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.False(t, posted.Reconciled)

	reconciled, err := ledger.Reconcile(context.Background(), posted.ID, true)
	require.NoError(t, err)
	assert.True(t, reconciled.Reconciled)
	assert.NotNil(t, reconciled.ReconciledAt)

	cleared, err := ledger.Reconcile(context.Background(), posted.ID, false)
	require.NoError(t, err)
	assert.False(t, cleared.Reconciled)

	_, err = ledger.Reconcile(context.Background(), uuid.New(), true)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}
