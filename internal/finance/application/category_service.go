package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
)

type CategoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) GetUserCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, userID, id string) (*domain.Category, error) {
	return s.repo.FindByID(ctx, userID, id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID string, category *domain.Category) error {
	category.ID = uuid.NewString()
	category.UserID = userID
	if err := category.Validate(); err != nil {
		return err
	}
	return s.repo.Save(ctx, *category)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, id string, category domain.Category) (*domain.Category, error) {
	category.ID = id
	category.UserID = userID
	if err := category.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, category)
}

func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *CategoryService) DeleteCategoriesBulk(ctx context.Context, userID string, ids []string) ([]string, error) {
	return s.repo.DeleteBulk(ctx, userID, ids)
}

func (s *CategoryService) DoesCategoryExist(ctx context.Context, userID, id string) (bool, error) {
	return s.repo.ExistsForUser(ctx, userID, id)
}
