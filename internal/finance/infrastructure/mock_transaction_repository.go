package infrastructure

import (
	"context"
	"sort"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

type MockTransactionRepository struct {
	Transactions []domain.TransactionDetail
	SaveErr      error
	Saved        []domain.Transaction
	SavedBulk    [][]domain.Transaction
}

func (m *MockTransactionRepository) FindByUser(_ context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	var transactions []domain.TransactionDetail
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		if !filter.From.IsZero() && transaction.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && transaction.Date.After(filter.To) {
			continue
		}
		if filter.AccountID != "" && transaction.AccountID != filter.AccountID {
			continue
		}
		transactions = append(transactions, transaction)
	}
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	return transactions, nil
}

func (m *MockTransactionRepository) FindByID(_ context.Context, userID, id string) (*domain.TransactionDetail, error) {
	for _, transaction := range m.Transactions {
		if transaction.UserID == userID && transaction.ID == id {
			found := transaction
			return &found, nil
		}
	}
	return nil, financeErrors.ErrNotFound
}

func (m *MockTransactionRepository) Save(_ context.Context, transaction domain.Transaction) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, transaction)
	m.Transactions = append(m.Transactions, domain.TransactionDetail{Transaction: transaction})
	return nil
}

func (m *MockTransactionRepository) SaveBulk(_ context.Context, transactions []domain.Transaction) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SavedBulk = append(m.SavedBulk, transactions)
	for _, transaction := range transactions {
		m.Transactions = append(m.Transactions, domain.TransactionDetail{Transaction: transaction})
	}
	return nil
}

func (m *MockTransactionRepository) Update(_ context.Context, transaction domain.Transaction) (*domain.Transaction, error) {
	for i := range m.Transactions {
		if m.Transactions[i].UserID == transaction.UserID && m.Transactions[i].ID == transaction.ID {
			m.Transactions[i].Transaction = transaction
			updated := transaction
			return &updated, nil
		}
	}
	return nil, financeErrors.ErrNotFound
}

func (m *MockTransactionRepository) Delete(_ context.Context, userID, id string) error {
	for i := range m.Transactions {
		if m.Transactions[i].UserID == userID && m.Transactions[i].ID == id {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrNotFound
}

func (m *MockTransactionRepository) DeleteBulk(_ context.Context, userID string, ids []string) ([]string, error) {
	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	deleted := []string{}
	var remaining []domain.TransactionDetail
	for _, transaction := range m.Transactions {
		if transaction.UserID == userID && requested[transaction.ID] {
			deleted = append(deleted, transaction.ID)
			continue
		}
		remaining = append(remaining, transaction)
	}
	m.Transactions = remaining
	return deleted, nil
}
