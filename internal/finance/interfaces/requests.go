package interfaces

import (
	"time"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

const dateLayout = "2006-01-02"

// AccountRequest is the accepted body for account create and update. Server
// assigned fields (id, userId) are never part of it.
type AccountRequest struct {
	Name string `json:"name"`
}

func (r *AccountRequest) Validate() error {
	if r.Name == "" {
		return financeErrors.NewValidationError("name", "is required")
	}
	return nil
}

type CategoryRequest struct {
	Name string `json:"name"`
}

func (r *CategoryRequest) Validate() error {
	if r.Name == "" {
		return financeErrors.NewValidationError("name", "is required")
	}
	return nil
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (r *BulkDeleteRequest) Validate() error {
	if r.IDs == nil {
		return financeErrors.NewValidationError("ids", "is required")
	}
	return nil
}

// TransactionRequest is the accepted body for transaction create and update.
// Amount is a pointer so a missing field is distinguishable from zero.
type TransactionRequest struct {
	Date       string  `json:"date"`
	Amount     *int64  `json:"amount"`
	Payee      string  `json:"payee"`
	Notes      *string `json:"notes"`
	AccountID  string  `json:"accountId"`
	CategoryID *string `json:"categoryId"`
}

// Parse validates the request and converts it into a domain transaction; it
// never reaches the store on failure.
func (r *TransactionRequest) Parse() (*domain.Transaction, error) {
	if r.Date == "" {
		return nil, financeErrors.NewValidationError("date", "is required")
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return nil, financeErrors.NewValidationError("date", "must be a date in YYYY-MM-DD format")
	}
	if r.Amount == nil {
		return nil, financeErrors.NewValidationError("amount", "is required")
	}

	transaction := &domain.Transaction{
		Date:       date,
		Amount:     *r.Amount,
		Payee:      r.Payee,
		Notes:      r.Notes,
		AccountID:  r.AccountID,
		CategoryID: r.CategoryID,
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	return transaction, nil
}

type BulkCreateTransactionsRequest struct {
	Transactions []TransactionRequest `json:"transactions"`
}

func (r *BulkCreateTransactionsRequest) Validate() error {
	if len(r.Transactions) == 0 {
		return financeErrors.NewValidationError("transactions", "is required")
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	if date, err := time.Parse(dateLayout, value); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, value)
}
