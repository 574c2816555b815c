package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	log "github.com/sirupsen/logrus"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

type TransactionRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewTransactionRepository(db *sql.DB, sb sq.StatementBuilderType) *TransactionRepository {
	return &TransactionRepository{db: db, sb: sb}
}

// detailSelect joins account and category names into the result. The join
// conditions repeat the owner match so the enrichment can never surface
// another user's account or category names.
func (r *TransactionRepository) detailSelect(userID string) sq.SelectBuilder {
	return r.sb.
		Select(
			"transactions.id", "transactions.user_id", "transactions.date",
			"transactions.amount", "transactions.payee", "transactions.notes",
			"transactions.account_id", "transactions.category_id",
			"accounts.name", "categories.name",
		).
		From("transactions").
		Join("accounts ON accounts.id = transactions.account_id AND accounts.user_id = transactions.user_id").
		LeftJoin("categories ON categories.id = transactions.category_id AND categories.user_id = transactions.user_id").
		Where(ownedBy("transactions", userID))
}

func scanDetail(row interface{ Scan(...any) error }) (*domain.TransactionDetail, error) {
	var detail domain.TransactionDetail
	err := row.Scan(
		&detail.ID, &detail.UserID, &detail.Date,
		&detail.Amount, &detail.Payee, &detail.Notes,
		&detail.AccountID, &detail.CategoryID,
		&detail.Account, &detail.Category,
	)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *TransactionRepository) FindByUser(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	builder := r.detailSelect(userID)
	if !filter.From.IsZero() {
		builder = builder.Where(sq.GtOrEq{"transactions.date": filter.From})
	}
	if !filter.To.IsZero() {
		builder = builder.Where(sq.LtOrEq{"transactions.date": filter.To})
	}
	if filter.AccountID != "" {
		builder = builder.Where(sq.Eq{"transactions.account_id": filter.AccountID})
	}

	query, args, err := builder.
		OrderBy("transactions.date DESC", "transactions.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.TransactionDetail
	for rows.Next() {
		detail, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *detail)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) FindByID(ctx context.Context, userID, id string) (*domain.TransactionDetail, error) {
	query, args, err := r.detailSelect(userID).
		Where(sq.Eq{"transactions.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	detail, err := scanDetail(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *TransactionRepository) Save(ctx context.Context, transaction domain.Transaction) error {
	query, args, err := r.insertStatement(transaction)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// SaveBulk inserts all rows in one SQL transaction: either every row lands or
// none does.
func (r *TransactionRepository) SaveBulk(ctx context.Context, transactions []domain.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, transaction := range transactions {
		query, args, err := r.insertStatement(transaction)
		if err != nil {
			safeRollback(tx)
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			safeRollback(tx)
			return err
		}
	}
	return tx.Commit()
}

func (r *TransactionRepository) insertStatement(transaction domain.Transaction) (string, []any, error) {
	return r.sb.
		Insert("transactions").
		Columns("id", "user_id", "date", "amount", "payee", "notes", "account_id", "category_id").
		Values(
			transaction.ID, transaction.UserID, transaction.Date, transaction.Amount,
			transaction.Payee, transaction.Notes, transaction.AccountID, transaction.CategoryID,
		).
		ToSql()
}

func (r *TransactionRepository) Update(ctx context.Context, transaction domain.Transaction) (*domain.Transaction, error) {
	query, args, err := r.sb.
		Update("transactions").
		Set("date", transaction.Date).
		Set("amount", transaction.Amount).
		Set("payee", transaction.Payee).
		Set("notes", transaction.Notes).
		Set("account_id", transaction.AccountID).
		Set("category_id", transaction.CategoryID).
		Where(ownedRow("transactions", transaction.UserID, transaction.ID)).
		Suffix("RETURNING id, user_id, date, amount, payee, notes, account_id, category_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var updated domain.Transaction
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&updated.ID, &updated.UserID, &updated.Date, &updated.Amount,
		&updated.Payee, &updated.Notes, &updated.AccountID, &updated.CategoryID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id string) error {
	query, args, err := r.sb.
		Delete("transactions").
		Where(ownedRow("transactions", userID, id)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}

	var deleted string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return financeErrors.ErrNotFound
	}
	return err
}

func (r *TransactionRepository) DeleteBulk(ctx context.Context, userID string, ids []string) ([]string, error) {
	deleted := []string{}
	if len(ids) == 0 {
		return deleted, nil
	}

	query, args, err := r.sb.
		Delete("transactions").
		Where(ownedSet("transactions", userID, ids)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		deleted = append(deleted, id)
	}
	return deleted, rows.Err()
}

func safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Errorf("transaction rollback failed: %v", err)
	}
}
