package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

type CategoryRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewCategoryRepository(db *sql.DB, sb sq.StatementBuilderType) *CategoryRepository {
	return &CategoryRepository{db: db, sb: sb}
}

func (r *CategoryRepository) FindByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	query, args, err := r.sb.
		Select("id", "user_id", "name").
		From("categories").
		Where(ownedBy("categories", userID)).
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

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindByID(ctx context.Context, userID, id string) (*domain.Category, error) {
	query, args, err := r.sb.
		Select("id", "user_id", "name").
		From("categories").
		Where(ownedRow("categories", userID, id)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var category domain.Category
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&category.ID, &category.UserID, &category.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Save(ctx context.Context, category domain.Category) error {
	query, args, err := r.sb.
		Insert("categories").
		Columns("id", "user_id", "name").
		Values(category.ID, category.UserID, category.Name).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) (*domain.Category, error) {
	query, args, err := r.sb.
		Update("categories").
		Set("name", category.Name).
		Where(ownedRow("categories", category.UserID, category.ID)).
		Suffix("RETURNING id, user_id, name").
		ToSql()
	if err != nil {
		return nil, err
	}

	var updated domain.Category
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&updated.ID, &updated.UserID, &updated.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, userID, id string) error {
	query, args, err := r.sb.
		Delete("categories").
		Where(ownedRow("categories", userID, id)).
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

func (r *CategoryRepository) DeleteBulk(ctx context.Context, userID string, ids []string) ([]string, error) {
	deleted := []string{}
	if len(ids) == 0 {
		return deleted, nil
	}

	query, args, err := r.sb.
		Delete("categories").
		Where(ownedSet("categories", userID, ids)).
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

func (r *CategoryRepository) ExistsForUser(ctx context.Context, userID, id string) (bool, error) {
	query, args, err := r.sb.
		Select("1").
		From("categories").
		Where(ownedRow("categories", userID, id)).
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
