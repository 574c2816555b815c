package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

func seedTransaction(t *testing.T, db *testingDB, transaction domain.Transaction) {
	t.Helper()
	require.NoError(t, db.transactions.Save(context.Background(), transaction))
}

type testingDB struct {
	accounts     *AccountRepository
	categories   *CategoryRepository
	transactions *TransactionRepository
}

func newFinanceFixture(t *testing.T) *testingDB {
	db := newTestDB(t)
	seedAccount(t, db, "acc-1", "user-1", "Checking")
	seedAccount(t, db, "acc-2", "user-1", "Savings")
	seedAccount(t, db, "acc-3", "user-2", "Foreign")
	seedCategory(t, db, "cat-1", "user-1", "Food")
	seedCategory(t, db, "cat-2", "user-2", "Foreign Food")

	return &testingDB{
		accounts:     NewAccountRepository(db, SQLite()),
		categories:   NewCategoryRepository(db, SQLite()),
		transactions: NewTransactionRepository(db, SQLite()),
	}
}

func txn(id, userID, accountID string, categoryID *string, date time.Time, amount int64) domain.Transaction {
	return domain.Transaction{
		ID:         id,
		UserID:     userID,
		Date:       date,
		Amount:     amount,
		Payee:      "Payee " + id,
		AccountID:  accountID,
		CategoryID: categoryID,
	}
}

func TestTransactionRepository_FindByUser_JoinsNames(t *testing.T) {
	fixture := newFinanceFixture(t)
	categoryID := "cat-1"
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, fixture, txn("t1", "user-1", "acc-1", &categoryID, date, -500))
	seedTransaction(t, fixture, txn("t2", "user-1", "acc-2", nil, date.AddDate(0, 0, 1), 2000))

	transactions, err := fixture.transactions.FindByUser(context.Background(), "user-1", domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	// newest first
	assert.Equal(t, "t2", transactions[0].ID)
	assert.Equal(t, "Savings", transactions[0].Account)
	assert.Nil(t, transactions[0].Category)

	assert.Equal(t, "t1", transactions[1].ID)
	assert.Equal(t, "Checking", transactions[1].Account)
	require.NotNil(t, transactions[1].Category)
	assert.Equal(t, "Food", *transactions[1].Category)
}

func TestTransactionRepository_FindByUser_Filters(t *testing.T) {
	fixture := newFinanceFixture(t)
	base := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, fixture, txn("t1", "user-1", "acc-1", nil, base, 100))
	seedTransaction(t, fixture, txn("t2", "user-1", "acc-1", nil, base.AddDate(0, 0, 10), 200))
	seedTransaction(t, fixture, txn("t3", "user-1", "acc-2", nil, base.AddDate(0, 0, 20), 300))

	transactions, err := fixture.transactions.FindByUser(context.Background(), "user-1", domain.TransactionFilter{
		From: base.AddDate(0, 0, 5),
		To:   base.AddDate(0, 0, 15),
	})
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "t2", transactions[0].ID)

	transactions, err = fixture.transactions.FindByUser(context.Background(), "user-1", domain.TransactionFilter{AccountID: "acc-2"})
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "t3", transactions[0].ID)
}

func TestTransactionRepository_FindByUser_NeverSeesForeignRows(t *testing.T) {
	fixture := newFinanceFixture(t)
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, fixture, txn("t1", "user-2", "acc-3", nil, date, -500))

	transactions, err := fixture.transactions.FindByUser(context.Background(), "user-1", domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, transactions)

	detail, err := fixture.transactions.FindByID(context.Background(), "user-1", "t1")
	assert.ErrorIs(t, err, financeErrors.ErrNotFound)
	assert.Nil(t, detail)
}

func TestTransactionRepository_SaveBulk_AtomicInsert(t *testing.T) {
	fixture := newFinanceFixture(t)
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	rows := []domain.Transaction{
		txn("t1", "user-1", "acc-1", nil, date, 100),
		txn("t2", "user-1", "missing-account", nil, date, 200),
	}
	err := fixture.transactions.SaveBulk(context.Background(), rows)
	require.Error(t, err)

	transactions, findErr := fixture.transactions.FindByUser(context.Background(), "user-1", domain.TransactionFilter{})
	require.NoError(t, findErr)
	assert.Empty(t, transactions)
}

func TestTransactionRepository_Update_CannotMoveToForeignRow(t *testing.T) {
	fixture := newFinanceFixture(t)
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, fixture, txn("t1", "user-1", "acc-1", nil, date, 100))

	row := txn("t1", "user-2", "acc-3", nil, date, 100)
	updated, err := fixture.transactions.Update(context.Background(), row)
	assert.ErrorIs(t, err, financeErrors.ErrNotFound)
	assert.Nil(t, updated)
}

func TestTransactionRepository_DeleteBulk_OwnedIntersection(t *testing.T) {
	fixture := newFinanceFixture(t)
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, fixture, txn("t1", "user-1", "acc-1", nil, date, 100))
	seedTransaction(t, fixture, txn("t2", "user-2", "acc-3", nil, date, 100))

	deleted, err := fixture.transactions.DeleteBulk(context.Background(), "user-1", []string{"t1", "t2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, deleted)

	foreign, err := fixture.transactions.FindByID(context.Background(), "user-2", "t2")
	require.NoError(t, err)
	assert.Equal(t, "t2", foreign.ID)
}

func TestTransactionRepository_DeletingAccountRemovesItsTransactions(t *testing.T) {
	fixture := newFinanceFixture(t)
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, fixture, txn("t1", "user-1", "acc-1", nil, date, 100))
	seedTransaction(t, fixture, txn("t2", "user-1", "acc-2", nil, date, 100))

	require.NoError(t, fixture.accounts.Delete(context.Background(), "user-1", "acc-1"))

	transactions, err := fixture.transactions.FindByUser(context.Background(), "user-1", domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "t2", transactions[0].ID)
}

func TestTransactionRepository_DeletingCategoryDetachesTransactions(t *testing.T) {
	fixture := newFinanceFixture(t)
	categoryID := "cat-1"
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, fixture, txn("t1", "user-1", "acc-1", &categoryID, date, -100))

	require.NoError(t, fixture.categories.Delete(context.Background(), "user-1", "cat-1"))

	detail, err := fixture.transactions.FindByID(context.Background(), "user-1", "t1")
	require.NoError(t, err)
	assert.Nil(t, detail.CategoryID)
	assert.Nil(t, detail.Category)
}
