package infrastructure

import (
	"context"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

// MockAccountRepository is an in-memory AccountRepository used by service
// tests. It applies the same ownership filtering as the SQL implementation.
type MockAccountRepository struct {
	Accounts []domain.Account
	SaveErr  error
}

func (m *MockAccountRepository) FindByUser(_ context.Context, userID string) ([]domain.Account, error) {
	var accounts []domain.Account
	for _, account := range m.Accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) FindByID(_ context.Context, userID, id string) (*domain.Account, error) {
	for _, account := range m.Accounts {
		if account.UserID == userID && account.ID == id {
			found := account
			return &found, nil
		}
	}
	return nil, financeErrors.ErrNotFound
}

func (m *MockAccountRepository) Save(_ context.Context, account domain.Account) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Accounts = append(m.Accounts, account)
	return nil
}

func (m *MockAccountRepository) Update(_ context.Context, account domain.Account) (*domain.Account, error) {
	for i := range m.Accounts {
		if m.Accounts[i].UserID == account.UserID && m.Accounts[i].ID == account.ID {
			m.Accounts[i].Name = account.Name
			updated := m.Accounts[i]
			return &updated, nil
		}
	}
	return nil, financeErrors.ErrNotFound
}

func (m *MockAccountRepository) Delete(_ context.Context, userID, id string) error {
	for i := range m.Accounts {
		if m.Accounts[i].UserID == userID && m.Accounts[i].ID == id {
			m.Accounts = append(m.Accounts[:i], m.Accounts[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrNotFound
}

func (m *MockAccountRepository) DeleteBulk(_ context.Context, userID string, ids []string) ([]string, error) {
	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	deleted := []string{}
	var remaining []domain.Account
	for _, account := range m.Accounts {
		if account.UserID == userID && requested[account.ID] {
			deleted = append(deleted, account.ID)
			continue
		}
		remaining = append(remaining, account)
	}
	m.Accounts = remaining
	return deleted, nil
}

func (m *MockAccountRepository) ExistsForUser(_ context.Context, userID, id string) (bool, error) {
	for _, account := range m.Accounts {
		if account.UserID == userID && account.ID == id {
			return true, nil
		}
	}
	return false, nil
}
