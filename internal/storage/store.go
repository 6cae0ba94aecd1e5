// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/money"
)

// Store defines the persistence contract for the expense tracker. The
// abstraction allows swapping storage backends without changing the service
// layer. Implementations translate uniqueness violations into the matching
// domain error from models and never leak raw driver errors.
type Store interface {
	// CreateUser persists a new user. The ID and CreatedAt fields are
	// populated by the store. Fails with models.ErrDuplicateUser when the
	// username or email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns models.ErrUserNotFound when absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns models.ErrUserNotFound when absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns all users ordered by username.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateCategory persists a new category. Names are unique
	// case-insensitively; fails with models.ErrDuplicateCategory.
	CreateCategory(ctx context.Context, category *models.Category) error

	// GetCategoryByName matches case-insensitively and returns
	// models.ErrCategoryNotFound when absent.
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)

	// GetCategoryByID returns models.ErrCategoryNotFound when absent.
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)

	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]*models.Category, error)

	// UpsertBudget creates the budget for its (user, category, month,
	// year) cell or replaces the amount of the existing row. At most one
	// row ever exists per cell.
	UpsertBudget(ctx context.Context, budget *models.Budget) error

	// GetBudget returns models.ErrBudgetNotFound when the cell has no
	// budget.
	GetBudget(ctx context.Context, userID, categoryID string, month, year int) (*models.Budget, error)

	// ListBudgets returns a user's budgets for one month, ordered by
	// category name.
	ListBudgets(ctx context.Context, userID string, month, year int) ([]*models.Budget, error)

	// CreateExpense persists the expense and all of its splits in a
	// single transaction; partial creation is never observable.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns a user's expenses, newest first. Zero month/
	// year means no date filter; empty categoryID means all categories.
	ListExpenses(ctx context.Context, userID string, month, year int, categoryID string) ([]*models.Expense, error)

	// SumSpent totals the user's spending attributed to one budget cell:
	// personal expenses count in full, shared expenses count only the
	// payer's own split share.
	SumSpent(ctx context.Context, userID, categoryID string, month, year int) (money.Money, error)

	// SpendingByCategory aggregates a user's attributed spending per
	// category for one month.
	SpendingByCategory(ctx context.Context, userID string, month, year int) ([]CategorySpend, error)

	// CreateGroup persists the group and its membership atomically.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with its members loaded in join order,
	// or models.ErrGroupNotFound.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroupsByUser returns the groups a user belongs to.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// ListGroupExpenses returns a group's shared expenses with their
	// splits populated, oldest first.
	ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// UpsertAlert creates or replaces the alert for (user, category).
	// An empty CategoryID is the user's global alert.
	UpsertAlert(ctx context.Context, alert *models.Alert) error

	// ResolveAlert picks the active alert that applies to the category:
	// the category-specific alert wins over the global one. Returns
	// (nil, nil) when no active alert matches.
	ResolveAlert(ctx context.Context, userID, categoryID string) (*models.Alert, error)

	// Close releases any resources held by the store.
	Close() error
}

// CategorySpend is one row of a per-category spending aggregate.
type CategorySpend struct {
	CategoryID   string
	CategoryName string
	Amount       money.Money
}

// MonthRange returns the [start, end) time bounds of a calendar month in UTC.
// Expense dates are stored as Unix timestamps; all month bucketing uses UTC.
func MonthRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
