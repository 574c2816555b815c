package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

type AccountRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewAccountRepository(db *sql.DB, sb sq.StatementBuilderType) *AccountRepository {
	return &AccountRepository{db: db, sb: sb}
}

func (r *AccountRepository) FindByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query, args, err := r.sb.
		Select("id", "user_id", "name").
		From("accounts").
		Where(ownedBy("accounts", userID)).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.UserID, &account.Name); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) FindByID(ctx context.Context, userID, id string) (*domain.Account, error) {
	query, args, err := r.sb.
		Select("id", "user_id", "name").
		From("accounts").
		Where(ownedRow("accounts", userID, id)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var account domain.Account
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&account.ID, &account.UserID, &account.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) Save(ctx context.Context, account domain.Account) error {
	query, args, err := r.sb.
		Insert("accounts").
		Columns("id", "user_id", "name").
		Values(account.ID, account.UserID, account.Name).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *AccountRepository) Update(ctx context.Context, account domain.Account) (*domain.Account, error) {
	query, args, err := r.sb.
		Update("accounts").
		Set("name", account.Name).
		Where(ownedRow("accounts", account.UserID, account.ID)).
		Suffix("RETURNING id, user_id, name").
		ToSql()
	if err != nil {
		return nil, err
	}

	var updated domain.Account
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&updated.ID, &updated.UserID, &updated.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *AccountRepository) Delete(ctx context.Context, userID, id string) error {
	query, args, err := r.sb.
		Delete("accounts").
		Where(ownedRow("accounts", userID, id)).
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

// DeleteBulk removes the intersection of the requested ids and the caller's
// rows, and reports the ids it actually removed.
func (r *AccountRepository) DeleteBulk(ctx context.Context, userID string, ids []string) ([]string, error) {
	deleted := []string{}
	if len(ids) == 0 {
		return deleted, nil
	}

	query, args, err := r.sb.
		Delete("accounts").
		Where(ownedSet("accounts", userID, ids)).
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

func (r *AccountRepository) ExistsForUser(ctx context.Context, userID, id string) (bool, error) {
	query, args, err := r.sb.
		Select("1").
		From("accounts").
		Where(ownedRow("accounts", userID, id)).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
