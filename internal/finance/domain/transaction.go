package domain

import (
	"context"
	"strings"
	"time"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

// Transaction amounts are signed integers in minor currency units: income is
// positive, expenses are negative.
type Transaction struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Date       time.Time `json:"date"`
	Amount     int64     `json:"amount"`
	Payee      string    `json:"payee"`
	Notes      *string   `json:"notes"`
	AccountID  string    `json:"accountId"`
	CategoryID *string   `json:"categoryId"`
}

// TransactionDetail is the joined read model: the row plus the display names
// of its account and category, resolved within the owner's rows only.
type TransactionDetail struct {
	Transaction
	Account  string  `json:"account"`
	Category *string `json:"category"`
}

// TransactionFilter narrows list queries. Zero values mean "no bound".
type TransactionFilter struct {
	From      time.Time
	To        time.Time
	AccountID string
}

func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return errors.NewValidationError("date", "is required")
	}
	if strings.TrimSpace(t.Payee) == "" {
		return errors.NewValidationError("payee", "is required")
	}
	if t.AccountID == "" {
		return errors.NewValidationError("accountId", "is required")
	}
	if t.Notes != nil && len(*t.Notes) > 500 {
		return errors.NewValidationError("notes", "must be at most 500 characters")
	}
	return nil
}

type TransactionRepository interface {
	FindByUser(ctx context.Context, userID string, filter TransactionFilter) ([]TransactionDetail, error)
	FindByID(ctx context.Context, userID, id string) (*TransactionDetail, error)
	Save(ctx context.Context, transaction Transaction) error
	SaveBulk(ctx context.Context, transactions []Transaction) error
	Update(ctx context.Context, transaction Transaction) (*Transaction, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteBulk(ctx context.Context, userID string, ids []string) ([]string, error)
}
