package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"expensetracker/internal/models"
)

// CreateCategory inserts a new category. Names collide case-insensitively.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, description, created_at) VALUES (?, ?, ?, ?)",
		category.ID, category.Name, category.Description, category.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", models.ErrDuplicateCategory, category.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetCategoryByName retrieves a category by name, case-insensitively.
func (s *SQLiteStore) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	return s.getCategory(ctx, "name = ? COLLATE NOCASE", name)
}

// GetCategoryByID retrieves a category by ID.
func (s *SQLiteStore) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return s.getCategory(ctx, "id = ?", id)
}

func (s *SQLiteStore) getCategory(ctx context.Context, where string, arg any) (*models.Category, error) {
	category := &models.Category{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at FROM categories WHERE "+where, arg,
	).Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories ordered by name.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, created_at FROM categories ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}
