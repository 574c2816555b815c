package infrastructure

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

// newPostgresDB starts a throwaway Postgres container. The test is opt-in
// because it needs a Docker daemon; set INTEGRATION_DB=1 to run it.
func newPostgresDB(t *testing.T) *sql.DB {
	t.Helper()
	if os.Getenv("INTEGRATION_DB") == "" {
		t.Skip("set INTEGRATION_DB=1 to run Postgres integration tests")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("budgettracker"),
		postgres.WithUsername("budgettracker"),
		postgres.WithPassword("budgettracker"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("could not terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestPostgres_AccountRoundTrip(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewAccountRepository(db, Postgres())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.Account{ID: "acc-1", UserID: "user-1", Name: "Checking"}))

	account, err := repo.FindByID(ctx, "user-1", "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "Checking", account.Name)

	_, err = repo.FindByID(ctx, "user-2", "acc-1")
	assert.ErrorIs(t, err, financeErrors.ErrNotFound)
}

func TestPostgres_TransactionLifecycle(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(db, Postgres())
	categories := NewCategoryRepository(db, Postgres())
	transactions := NewTransactionRepository(db, Postgres())

	require.NoError(t, accounts.Save(ctx, domain.Account{ID: "acc-1", UserID: "user-1", Name: "Checking"}))
	require.NoError(t, categories.Save(ctx, domain.Category{ID: "cat-1", UserID: "user-1", Name: "Food"}))
	require.NoError(t, categories.Save(ctx, domain.Category{ID: "cat-2", UserID: "user-2", Name: "Foreign"}))

	categoryID := "cat-1"
	row := domain.Transaction{
		ID:         "t1",
		UserID:     "user-1",
		Date:       time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Amount:     -1250,
		Payee:      "Grocery Store",
		AccountID:  "acc-1",
		CategoryID: &categoryID,
	}
	require.NoError(t, transactions.Save(ctx, row))

	detail, err := transactions.FindByID(ctx, "user-1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Checking", detail.Account)
	require.NotNil(t, detail.Category)
	assert.Equal(t, "Food", *detail.Category)

	// user-2 deleting user-1's category must not touch the row
	require.NoError(t, categories.Save(ctx, domain.Category{ID: "cat-3", UserID: "user-2", Name: "Decoy"}))
	assert.ErrorIs(t, categories.Delete(ctx, "user-2", "cat-1"), financeErrors.ErrNotFound)

	detail, err = transactions.FindByID(ctx, "user-1", "t1")
	require.NoError(t, err)
	require.NotNil(t, detail.CategoryID)

	// the owner deleting it detaches the transaction
	require.NoError(t, categories.Delete(ctx, "user-1", "cat-1"))
	detail, err = transactions.FindByID(ctx, "user-1", "t1")
	require.NoError(t, err)
	assert.Nil(t, detail.CategoryID)

	deleted, err := transactions.DeleteBulk(ctx, "user-1", []string{"t1", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, deleted)
}
