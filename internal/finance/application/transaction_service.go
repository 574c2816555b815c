package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

type AccountServiceInterface interface {
	GetUserAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	DoesAccountExist(ctx context.Context, userID, id string) (bool, error)
}

type CategoryServiceInterface interface {
	GetUserCategories(ctx context.Context, userID string) ([]domain.Category, error)
	DoesCategoryExist(ctx context.Context, userID, id string) (bool, error)
}

type TransactionService struct {
	repo            domain.TransactionRepository
	accountService  AccountServiceInterface
	categoryService CategoryServiceInterface
}

func NewTransactionService(repo domain.TransactionRepository, accountService AccountServiceInterface, categoryService CategoryServiceInterface) *TransactionService {
	return &TransactionService{repo: repo, accountService: accountService, categoryService: categoryService}
}

func (s *TransactionService) GetUserTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	transactions, err := s.repo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		return []domain.TransactionDetail{}, nil
	}
	return transactions, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, userID, id string) (*domain.TransactionDetail, error) {
	return s.repo.FindByID(ctx, userID, id)
}

func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, transaction *domain.Transaction) error {
	transaction.ID = uuid.NewString()
	transaction.UserID = userID
	if err := transaction.Validate(); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, userID, transaction); err != nil {
		return err
	}
	return s.repo.Save(ctx, *transaction)
}

// CreateTransactionsBulk validates every row before anything is written and
// inserts all of them in one database transaction. Validation failures are
// reported per row, by 1-based position.
func (s *TransactionService) CreateTransactionsBulk(ctx context.Context, userID string, transactions []*domain.Transaction) error {
	accounts, err := s.accountService.GetUserAccounts(ctx, userID)
	if err != nil {
		return err
	}
	categories, err := s.categoryService.GetUserCategories(ctx, userID)
	if err != nil {
		return err
	}

	ownedAccounts := make(map[string]bool, len(accounts))
	for _, account := range accounts {
		ownedAccounts[account.ID] = true
	}
	ownedCategories := make(map[string]bool, len(categories))
	for _, category := range categories {
		ownedCategories[category.ID] = true
	}

	validationErrors := &financeErrors.ValidationErrors{}
	rows := make([]domain.Transaction, 0, len(transactions))
	for i, transaction := range transactions {
		transaction.ID = uuid.NewString()
		transaction.UserID = userID
		if err := transaction.Validate(); err != nil {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i+1, err.Error()))
			continue
		}
		if !ownedAccounts[transaction.AccountID] {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i+1, financeErrors.ErrAccountNotOwned.Error()))
			continue
		}
		if transaction.CategoryID != nil && !ownedCategories[*transaction.CategoryID] {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i+1, financeErrors.ErrCategoryNotOwned.Error()))
			continue
		}
		rows = append(rows, *transaction)
	}

	if len(validationErrors.Errors) > 0 {
		return validationErrors
	}
	return s.repo.SaveBulk(ctx, rows)
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, id string, transaction domain.Transaction) (*domain.Transaction, error) {
	transaction.ID = id
	transaction.UserID = userID
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, &transaction); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, transaction)
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *TransactionService) DeleteTransactionsBulk(ctx context.Context, userID string, ids []string) ([]string, error) {
	return s.repo.DeleteBulk(ctx, userID, ids)
}

// checkReferences confirms the referenced account and category belong to the
// caller. The check runs before the write, so a transaction can never be
// attached to another user's rows.
func (s *TransactionService) checkReferences(ctx context.Context, userID string, transaction *domain.Transaction) error {
	exists, err := s.accountService.DoesAccountExist(ctx, userID, transaction.AccountID)
	if err != nil {
		return err
	}
	if !exists {
		return financeErrors.ErrAccountNotOwned
	}

	if transaction.CategoryID != nil {
		exists, err = s.categoryService.DoesCategoryExist(ctx, userID, *transaction.CategoryID)
		if err != nil {
			return err
		}
		if !exists {
			return financeErrors.ErrCategoryNotOwned
		}
	}
	return nil
}
