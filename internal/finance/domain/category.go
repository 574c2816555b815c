package domain

import (
	"context"
	"strings"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

type Category struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.NewValidationError("name", "is required")
	}
	if len(c.Name) > 100 {
		return errors.NewValidationError("name", "must be at most 100 characters")
	}
	return nil
}

type CategoryRepository interface {
	FindByUser(ctx context.Context, userID string) ([]Category, error)
	FindByID(ctx context.Context, userID, id string) (*Category, error)
	Save(ctx context.Context, category Category) error
	Update(ctx context.Context, category Category) (*Category, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteBulk(ctx context.Context, userID string, ids []string) ([]string, error)
	ExistsForUser(ctx context.Context, userID, id string) (bool, error)
}
