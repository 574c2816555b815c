package infrastructure

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
)

// newTestDB opens an in-memory sqlite database with the production schema.
// The schema DDL sticks to the dialect subset sqlite and Postgres share, so
// the repositories run against it unchanged apart from the placeholder format.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func seedAccount(t *testing.T, db *sql.DB, id, userID, name string) {
	t.Helper()
	repo := NewAccountRepository(db, SQLite())
	require.NoError(t, repo.Save(context.Background(), domain.Account{ID: id, UserID: userID, Name: name}))
}

func seedCategory(t *testing.T, db *sql.DB, id, userID, name string) {
	t.Helper()
	repo := NewCategoryRepository(db, SQLite())
	require.NoError(t, repo.Save(context.Background(), domain.Category{ID: id, UserID: userID, Name: name}))
}
