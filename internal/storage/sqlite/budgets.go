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

// UpsertBudget creates the budget for its cell or replaces the amount of
// the existing row, keyed on (user_id, category_id, month, year).
func (s *SQLiteStore) UpsertBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	if budget.CreatedAt == 0 {
		budget.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, category_id, amount_cents, month, year, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, category_id, month, year)
		 DO UPDATE SET amount_cents = excluded.amount_cents`,
		budget.ID, budget.UserID, budget.CategoryID, int64(budget.Amount),
		budget.Month, budget.Year, budget.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

// GetBudget retrieves the budget for one (user, category, month, year) cell.
func (s *SQLiteStore) GetBudget(ctx context.Context, userID, categoryID string, month, year int) (*models.Budget, error) {
	budget := &models.Budget{}
	var cents int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, amount_cents, month, year, created_at
		 FROM budgets
		 WHERE user_id = ? AND category_id = ? AND month = ? AND year = ?`,
		userID, categoryID, month, year,
	).Scan(&budget.ID, &budget.UserID, &budget.CategoryID, &cents,
		&budget.Month, &budget.Year, &budget.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	budget.Amount = moneyFromCents(cents)
	return budget, nil
}

// ListBudgets returns a user's budgets for one month, ordered by category
// name.
func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string, month, year int) ([]*models.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.category_id, b.amount_cents, b.month, b.year, b.created_at
		 FROM budgets b
		 JOIN categories c ON c.id = b.category_id
		 WHERE b.user_id = ? AND b.month = ? AND b.year = ?
		 ORDER BY c.name`,
		userID, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		budget := &models.Budget{}
		var cents int64
		if err := rows.Scan(&budget.ID, &budget.UserID, &budget.CategoryID, &cents,
			&budget.Month, &budget.Year, &budget.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budget.Amount = moneyFromCents(cents)
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}
