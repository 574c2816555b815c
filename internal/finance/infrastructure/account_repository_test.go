package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

func TestAccountRepository_FindByUser_ScopedAndOrdered(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "acc-1", "user-1", "Savings")
	seedAccount(t, db, "acc-2", "user-1", "Checking")
	seedAccount(t, db, "acc-3", "user-2", "Foreign")

	repo := NewAccountRepository(db, SQLite())
	accounts, err := repo.FindByUser(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, accounts, 2)
	assert.Equal(t, "Checking", accounts[0].Name)
	assert.Equal(t, "Savings", accounts[1].Name)
}

func TestAccountRepository_FindByID_OtherUsersRowIsNotFound(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "acc-1", "user-2", "Foreign")

	repo := NewAccountRepository(db, SQLite())
	account, err := repo.FindByID(context.Background(), "user-1", "acc-1")
	assert.ErrorIs(t, err, financeErrors.ErrNotFound)
	assert.Nil(t, account)
}

func TestAccountRepository_Update_ReturnsUpdatedRow(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "acc-1", "user-1", "Old")

	repo := NewAccountRepository(db, SQLite())
	updated, err := repo.Update(context.Background(), domain.Account{ID: "acc-1", UserID: "user-1", Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)

	_, err = repo.Update(context.Background(), domain.Account{ID: "acc-1", UserID: "user-2", Name: "Hijack"})
	assert.ErrorIs(t, err, financeErrors.ErrNotFound)
}

func TestAccountRepository_Delete_SecondCallIsNotFound(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "acc-1", "user-1", "Checking")

	repo := NewAccountRepository(db, SQLite())
	require.NoError(t, repo.Delete(context.Background(), "user-1", "acc-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "user-1", "acc-1"), financeErrors.ErrNotFound)
}

func TestAccountRepository_DeleteBulk_OwnedIntersection(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "a", "user-1", "A")
	seedAccount(t, db, "b", "user-2", "B")
	seedAccount(t, db, "c", "user-1", "C")

	repo := NewAccountRepository(db, SQLite())
	deleted, err := repo.DeleteBulk(context.Background(), "user-1", []string{"a", "b", "c", "missing"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, deleted)

	foreign, err := repo.FindByID(context.Background(), "user-2", "b")
	require.NoError(t, err)
	assert.Equal(t, "B", foreign.Name)
}

func TestAccountRepository_DeleteBulk_EmptyInput(t *testing.T) {
	db := newTestDB(t)

	repo := NewAccountRepository(db, SQLite())
	deleted, err := repo.DeleteBulk(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.NotNil(t, deleted)
	assert.Empty(t, deleted)
}

func TestAccountRepository_ExistsForUser(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "acc-1", "user-1", "Checking")

	repo := NewAccountRepository(db, SQLite())

	exists, err := repo.ExistsForUser(context.Background(), "user-1", "acc-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForUser(context.Background(), "user-2", "acc-1")
	require.NoError(t, err)
	assert.False(t, exists)
}
