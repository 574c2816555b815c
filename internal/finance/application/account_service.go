package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
)

type AccountService struct {
	repo domain.AccountRepository
}

func NewAccountService(repo domain.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) GetUserAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *AccountService) GetAccount(ctx context.Context, userID, id string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, userID, id)
}

func (s *AccountService) CreateAccount(ctx context.Context, userID string, account *domain.Account) error {
	account.ID = uuid.NewString()
	account.UserID = userID
	if err := account.Validate(); err != nil {
		return err
	}
	return s.repo.Save(ctx, *account)
}

func (s *AccountService) UpdateAccount(ctx context.Context, userID, id string, account domain.Account) (*domain.Account, error) {
	account.ID = id
	account.UserID = userID
	if err := account.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, account)
}

func (s *AccountService) DeleteAccount(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *AccountService) DeleteAccountsBulk(ctx context.Context, userID string, ids []string) ([]string, error) {
	return s.repo.DeleteBulk(ctx, userID, ids)
}

func (s *AccountService) DoesAccountExist(ctx context.Context, userID, id string) (bool, error) {
	return s.repo.ExistsForUser(ctx, userID, id)
}
