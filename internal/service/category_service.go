package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"expensetracker/internal/models"
	"expensetracker/internal/storage"
)

// CategoryService manages expense categories.
type CategoryService struct {
	store storage.Store
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(store storage.Store) *CategoryService {
	return &CategoryService{store: store}
}

// CreateCategory adds a category. Names are unique case-insensitively.
func (s *CategoryService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	category := &models.Category{Name: name, Description: description}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	slog.Info("Category created", "category_id", category.ID, "name", name)
	return category, nil
}

// ListCategories returns all categories ordered by name.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.store.ListCategories(ctx)
}

// SeedDefaults creates any of the given categories that do not exist yet.
// Existing names are left untouched.
func (s *CategoryService) SeedDefaults(ctx context.Context, names []string) error {
	for _, name := range names {
		err := s.store.CreateCategory(ctx, &models.Category{Name: name})
		if errors.Is(err, models.ErrDuplicateCategory) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", name, err)
		}
	}
	return nil
}
