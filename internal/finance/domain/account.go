package domain

import (
	"context"
	"strings"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

type Account struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.NewValidationError("name", "is required")
	}
	if len(a.Name) > 100 {
		return errors.NewValidationError("name", "must be at most 100 characters")
	}
	return nil
}

// AccountRepository operations other than Save carry the owner predicate in
// their WHERE clause, so a caller can never observe or mutate foreign rows.
type AccountRepository interface {
	FindByUser(ctx context.Context, userID string) ([]Account, error)
	FindByID(ctx context.Context, userID, id string) (*Account, error)
	Save(ctx context.Context, account Account) error
	Update(ctx context.Context, account Account) (*Account, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteBulk(ctx context.Context, userID string, ids []string) ([]string, error)
	ExistsForUser(ctx context.Context, userID, id string) (bool, error)
}
