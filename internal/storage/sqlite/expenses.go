package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"expensetracker/internal/models"
	"expensetracker/internal/money"
	"expensetracker/internal/storage"
)

// CreateExpense persists the expense and all of its splits in a single
// transaction. Either everything lands or nothing does.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now.Unix()
	}
	if expense.Date.IsZero() {
		expense.Date = now.UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID any
	if expense.GroupID != "" {
		groupID = expense.GroupID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, category_id, amount_cents, description, date, group_id, is_shared, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.UserID, expense.CategoryID, int64(expense.Amount),
		expense.Description, expense.Date.Unix(), groupID, expense.IsShared, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID
		if split.CreatedAt == 0 {
			split.CreatedAt = expense.CreatedAt
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_splits (id, expense_id, user_id, amount_cents, paid, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			split.ID, split.ExpenseID, split.UserID, int64(split.Amount), split.Paid, split.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses returns a user's expenses, newest first. A zero month/year
// means no date filter; an empty categoryID means all categories.
func (s *SQLiteStore) ListExpenses(ctx context.Context, userID string, month, year int, categoryID string) ([]*models.Expense, error) {
	query := `SELECT id, user_id, category_id, amount_cents, description, date, group_id, is_shared, created_at
		 FROM expenses WHERE user_id = ?`
	args := []any{userID}

	if month != 0 && year != 0 {
		start, end := storage.MonthRange(month, year)
		query += " AND date >= ? AND date < ?"
		args = append(args, start.Unix(), end.Unix())
	}
	if categoryID != "" {
		query += " AND category_id = ?"
		args = append(args, categoryID)
	}
	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

// SumSpent totals the spending attributed to one (user, category, month,
// year) budget cell. Personal expenses count in full; shared expenses count
// only the payer's own split share, so a shared dinner consumes the payer's
// budget by their portion rather than the whole bill.
func (s *SQLiteStore) SumSpent(ctx context.Context, userID, categoryID string, month, year int) (money.Money, error) {
	start, end := storage.MonthRange(month, year)

	var personal int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
		 WHERE user_id = ? AND category_id = ? AND is_shared = 0
		   AND date >= ? AND date < ?`,
		userID, categoryID, start.Unix(), end.Unix(),
	).Scan(&personal)
	if err != nil {
		return 0, fmt.Errorf("failed to sum personal spending: %w", err)
	}

	var sharedOwn int64
	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(s.amount_cents), 0)
		 FROM expense_splits s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE s.user_id = ? AND e.user_id = ? AND e.category_id = ?
		   AND e.is_shared = 1 AND e.date >= ? AND e.date < ?`,
		userID, userID, categoryID, start.Unix(), end.Unix(),
	).Scan(&sharedOwn)
	if err != nil {
		return 0, fmt.Errorf("failed to sum shared spending: %w", err)
	}

	return moneyFromCents(personal + sharedOwn), nil
}

// SpendingByCategory aggregates a user's attributed spending per category
// for one month, using the same attribution rule as SumSpent.
func (s *SQLiteStore) SpendingByCategory(ctx context.Context, userID string, month, year int) ([]storage.CategorySpend, error) {
	start, end := storage.MonthRange(month, year)

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, SUM(t.cents) FROM (
		     SELECT category_id, amount_cents AS cents FROM expenses
		      WHERE user_id = ? AND is_shared = 0 AND date >= ? AND date < ?
		     UNION ALL
		     SELECT e.category_id, s.amount_cents FROM expense_splits s
		       JOIN expenses e ON e.id = s.expense_id
		      WHERE s.user_id = ? AND e.user_id = ? AND e.is_shared = 1
		        AND e.date >= ? AND e.date < ?
		 ) t
		 JOIN categories c ON c.id = t.category_id
		 GROUP BY c.id, c.name
		 ORDER BY c.name`,
		userID, start.Unix(), end.Unix(),
		userID, userID, start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spending: %w", err)
	}
	defer rows.Close()

	var result []storage.CategorySpend
	for rows.Next() {
		var row storage.CategorySpend
		var cents int64
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan spending row: %w", err)
		}
		row.Amount = moneyFromCents(cents)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spending rows: %w", err)
	}
	return result, nil
}

func scanExpenses(rows *sql.Rows) ([]*models.Expense, error) {
	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var cents, date int64
		var groupID sql.NullString
		if err := rows.Scan(&expense.ID, &expense.UserID, &expense.CategoryID, &cents,
			&expense.Description, &date, &groupID, &expense.IsShared, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Amount = moneyFromCents(cents)
		expense.Date = time.Unix(date, 0).UTC()
		if groupID.Valid {
			expense.GroupID = groupID.String
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}
