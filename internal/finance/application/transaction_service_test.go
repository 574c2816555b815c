package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
	"github.com/mwalkowiak/BudgetTracker/internal/finance/infrastructure"
)

func newTransactionServiceFixture() (*TransactionService, *infrastructure.MockTransactionRepository) {
	accountRepo := &infrastructure.MockAccountRepository{
		Accounts: []domain.Account{
			{ID: "acc-1", UserID: "user-1", Name: "Checking"},
			{ID: "acc-2", UserID: "user-2", Name: "Foreign"},
		},
	}
	categoryRepo := &infrastructure.MockCategoryRepository{
		Categories: []domain.Category{
			{ID: "cat-1", UserID: "user-1", Name: "Food"},
			{ID: "cat-2", UserID: "user-2", Name: "Foreign"},
		},
	}
	repo := &infrastructure.MockTransactionRepository{}
	service := NewTransactionService(repo, NewAccountService(accountRepo), NewCategoryService(categoryRepo))
	return service, repo
}

func validTransaction() *domain.Transaction {
	return &domain.Transaction{
		Date:      time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		Amount:    -1250,
		Payee:     "Grocery Store",
		AccountID: "acc-1",
	}
}

func TestCreateTransaction_AssignsIdentity(t *testing.T) {
	service, repo := newTransactionServiceFixture()

	transaction := validTransaction()
	err := service.CreateTransaction(context.Background(), "user-1", transaction)
	assert.NoError(t, err)
	assert.NotEmpty(t, transaction.ID)
	assert.Equal(t, "user-1", transaction.UserID)
	assert.Len(t, repo.Saved, 1)
}

func TestCreateTransaction_ForeignAccountIsConflict(t *testing.T) {
	service, repo := newTransactionServiceFixture()

	transaction := validTransaction()
	transaction.AccountID = "acc-2"
	err := service.CreateTransaction(context.Background(), "user-1", transaction)
	assert.ErrorIs(t, err, financeErrors.ErrAccountNotOwned)
	assert.True(t, financeErrors.IsConflictError(err))
	assert.Empty(t, repo.Saved)
}

func TestCreateTransaction_ForeignCategoryIsConflict(t *testing.T) {
	service, repo := newTransactionServiceFixture()

	categoryID := "cat-2"
	transaction := validTransaction()
	transaction.CategoryID = &categoryID
	err := service.CreateTransaction(context.Background(), "user-1", transaction)
	assert.ErrorIs(t, err, financeErrors.ErrCategoryNotOwned)
	assert.Empty(t, repo.Saved)
}

func TestCreateTransaction_NilCategoryIsAllowed(t *testing.T) {
	service, _ := newTransactionServiceFixture()

	transaction := validTransaction()
	transaction.CategoryID = nil
	err := service.CreateTransaction(context.Background(), "user-1", transaction)
	assert.NoError(t, err)
}

func TestCreateTransactionsBulk_AllRowsSavedTogether(t *testing.T) {
	service, repo := newTransactionServiceFixture()

	first := validTransaction()
	second := validTransaction()
	second.Amount = 5000
	err := service.CreateTransactionsBulk(context.Background(), "user-1", []*domain.Transaction{first, second})
	assert.NoError(t, err)
	assert.Len(t, repo.SavedBulk, 1)
	assert.Len(t, repo.SavedBulk[0], 2)
}

func TestCreateTransactionsBulk_ReportsRowErrorsByPosition(t *testing.T) {
	service, repo := newTransactionServiceFixture()

	good := validTransaction()
	foreignAccount := validTransaction()
	foreignAccount.AccountID = "acc-2"
	missingPayee := validTransaction()
	missingPayee.Payee = ""

	err := service.CreateTransactionsBulk(context.Background(), "user-1", []*domain.Transaction{good, foreignAccount, missingPayee})
	assert.True(t, financeErrors.IsValidationErrors(err))
	assert.Contains(t, err.Error(), "transaction 2")
	assert.Contains(t, err.Error(), "transaction 3")
	assert.NotContains(t, err.Error(), "transaction 1")

	// nothing written when any row fails
	assert.Empty(t, repo.SavedBulk)
	assert.Empty(t, repo.Saved)
}

func TestUpdateTransaction_ChecksReferences(t *testing.T) {
	service, _ := newTransactionServiceFixture()

	transaction := validTransaction()
	assert.NoError(t, service.CreateTransaction(context.Background(), "user-1", transaction))

	update := *validTransaction()
	update.AccountID = "acc-2"
	_, err := service.UpdateTransaction(context.Background(), "user-1", transaction.ID, update)
	assert.ErrorIs(t, err, financeErrors.ErrAccountNotOwned)

	update.AccountID = "acc-1"
	update.Payee = "Renamed"
	updated, err := service.UpdateTransaction(context.Background(), "user-1", transaction.ID, update)
	assert.NoError(t, err)
	assert.Equal(t, transaction.ID, updated.ID)
	assert.Equal(t, "Renamed", updated.Payee)
}

func TestDeleteTransactionsBulk_SkipsForeignRows(t *testing.T) {
	service, repo := newTransactionServiceFixture()
	repo.Transactions = []domain.TransactionDetail{
		{Transaction: domain.Transaction{ID: "t1", UserID: "user-1"}},
		{Transaction: domain.Transaction{ID: "t2", UserID: "user-2"}},
	}

	deleted, err := service.DeleteTransactionsBulk(context.Background(), "user-1", []string{"t1", "t2"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"t1"}, deleted)
	assert.Len(t, repo.Transactions, 1)
	assert.Equal(t, "t2", repo.Transactions[0].ID)
}
