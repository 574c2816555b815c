package infrastructure

import (
	"context"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

type MockCategoryRepository struct {
	Categories []domain.Category
	SaveErr    error
}

func (m *MockCategoryRepository) FindByUser(_ context.Context, userID string) ([]domain.Category, error) {
	var categories []domain.Category
	for _, category := range m.Categories {
		if category.UserID == userID {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

func (m *MockCategoryRepository) FindByID(_ context.Context, userID, id string) (*domain.Category, error) {
	for _, category := range m.Categories {
		if category.UserID == userID && category.ID == id {
			found := category
			return &found, nil
		}
	}
	return nil, financeErrors.ErrNotFound
}

func (m *MockCategoryRepository) Save(_ context.Context, category domain.Category) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Categories = append(m.Categories, category)
	return nil
}

func (m *MockCategoryRepository) Update(_ context.Context, category domain.Category) (*domain.Category, error) {
	for i := range m.Categories {
		if m.Categories[i].UserID == category.UserID && m.Categories[i].ID == category.ID {
			m.Categories[i].Name = category.Name
			updated := m.Categories[i]
			return &updated, nil
		}
	}
	return nil, financeErrors.ErrNotFound
}

func (m *MockCategoryRepository) Delete(_ context.Context, userID, id string) error {
	for i := range m.Categories {
		if m.Categories[i].UserID == userID && m.Categories[i].ID == id {
			m.Categories = append(m.Categories[:i], m.Categories[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrNotFound
}

func (m *MockCategoryRepository) DeleteBulk(_ context.Context, userID string, ids []string) ([]string, error) {
	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	deleted := []string{}
	var remaining []domain.Category
	for _, category := range m.Categories {
		if category.UserID == userID && requested[category.ID] {
			deleted = append(deleted, category.ID)
			continue
		}
		remaining = append(remaining, category)
	}
	m.Categories = remaining
	return deleted, nil
}

func (m *MockCategoryRepository) ExistsForUser(_ context.Context, userID, id string) (bool, error) {
	for _, category := range m.Categories {
		if category.UserID == userID && category.ID == id {
			return true, nil
		}
	}
	return false, nil
}
