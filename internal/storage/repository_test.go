package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "bilancio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createAccount(t *testing.T, repo *Repository, initialCents int64) int64 {
	t.Helper()
	id, err := repo.CreateAccount(context.Background(), core.Account{
		Name:           "Checking",
		InitialBalance: core.Money{Cents: initialCents},
		IsActive:       true,
	})
	require.NoError(t, err)
	return id
}

func TestRepository_AccountRoundtrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := createAccount(t, repo, -25000)

	got, err := repo.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Checking", got.Name)
	assert.Equal(t, int64(-25000), got.InitialBalance.Cents)
	assert.True(t, got.IsActive)

	require.NoError(t, repo.SetAccountActive(ctx, id, false))
	got, err = repo.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := repo.ListAccounts(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRepository_GetAccount_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetAccount(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ObligationCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	accountID := createAccount(t, repo, 0)

	ob := core.RecurringObligation{
		Label:         "Rent",
		Amount:        core.Money{Cents: 80000},
		DayOfMonth:    1,
		Frequency:     core.Monthly,
		AccountID:     accountID,
		SubCategoryID: 1,
		Flow:          core.FlowExpense,
		IsActive:      true,
	}
	id, err := repo.CreateObligation(ctx, ob)
	require.NoError(t, err)

	got, err := repo.GetObligation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Rent", got.Label)
	assert.Equal(t, core.Monthly, got.Frequency)
	assert.NotEmpty(t, got.SubCategory, "subcategory label joined from seed data")

	got.Amount.Cents = 85000
	require.NoError(t, repo.UpdateObligation(ctx, *got))
	got, err = repo.GetObligation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(85000), got.Amount.Cents)

	// Soft-deactivation drops it from the active listing but the row
	// survives.
	require.NoError(t, repo.SetObligationActive(ctx, id, false))
	active, err := repo.ListObligations(ctx, accountID, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := repo.ListObligations(ctx, accountID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_CreateObligation_RejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	accountID := createAccount(t, repo, 0)

	ob := core.RecurringObligation{
		Label:         "Bad",
		Amount:        core.Money{Cents: 1000},
		DayOfMonth:    32,
		Frequency:     core.Monthly,
		AccountID:     accountID,
		SubCategoryID: 1,
		Flow:          core.FlowExpense,
	}
	_, err := repo.CreateObligation(context.Background(), ob)
	assert.ErrorIs(t, err, core.ErrInvalidDay)
}

func TestRepository_TransactionLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	accountID := createAccount(t, repo, 0)

	linked := core.Transaction{
		Date:          core.NewDate(2024, 3, 1),
		Amount:        core.Money{Cents: 80000},
		AccountID:     accountID,
		Flow:          core.FlowExpense,
		SubCategoryID: 1,
		ObligationID:  0,
	}
	id, err := repo.CreateTransaction(ctx, linked)
	require.NoError(t, err)

	txs, err := repo.ListTransactions(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2024-03-01", txs[0].Date.ISO())
	assert.Zero(t, txs[0].ObligationID, "unlinked transaction scans back as zero")

	require.NoError(t, repo.DeleteTransaction(ctx, id))
	txs, err = repo.ListTransactions(ctx, accountID)
	require.NoError(t, err)
	assert.Empty(t, txs)

	assert.ErrorIs(t, repo.DeleteTransaction(ctx, id), ErrNotFound)
}

func TestRepository_LoadSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	accountID := createAccount(t, repo, 100000)

	obligationID, err := repo.CreateObligation(ctx, core.RecurringObligation{
		Label:         "Rent",
		Amount:        core.Money{Cents: 80000},
		DayOfMonth:    1,
		Frequency:     core.Monthly,
		AccountID:     accountID,
		SubCategoryID: 1,
		Flow:          core.FlowExpense,
		IsActive:      true,
	})
	require.NoError(t, err)

	_, err = repo.CreateTransaction(ctx, core.Transaction{
		Date:          core.NewDate(2024, 3, 1),
		Amount:        core.Money{Cents: 80000},
		AccountID:     accountID,
		Flow:          core.FlowExpense,
		SubCategoryID: 1,
		ObligationID:  obligationID,
	})
	require.NoError(t, err)

	snap, err := repo.LoadSnapshot(ctx, accountID, core.NewDate(2024, 3, 10))
	require.NoError(t, err)
	require.NotNil(t, snap.Account)
	assert.Len(t, snap.Obligations, 1)
	assert.Len(t, snap.Transactions, 1)
	assert.Equal(t, obligationID, snap.Transactions[0].ObligationID)

	_, err = repo.LoadSnapshot(ctx, 999, core.NewDate(2024, 3, 10))
	assert.ErrorIs(t, err, ErrNotFound)
}
