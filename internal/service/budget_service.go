package service

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/models"
	"expensetracker/internal/money"
	"expensetracker/internal/storage"
)

// BudgetService manages budgets, alert settings, and the monthly report.
type BudgetService struct {
	store storage.Store
	cells *keyedMutex
}

// NewBudgetService creates a BudgetService.
func NewBudgetService(store storage.Store) *BudgetService {
	return &BudgetService{store: store, cells: newKeyedMutex()}
}

// SetBudget creates or replaces the budget for (user, category, month,
// year). Setting the same cell twice leaves exactly one row holding the
// latest amount.
func (s *BudgetService) SetBudget(ctx context.Context, userID, categoryName string, amount money.Money, month, year int) (*models.Budget, error) {
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, models.ErrInvalidMonth
	}

	category, err := s.store.GetCategoryByName(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	unlock := s.cells.lock(budgetCellKey(userID, category.ID, month, year))
	defer unlock()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Amount:     amount,
		Month:      month,
		Year:       year,
	}
	if err := s.store.UpsertBudget(ctx, budget); err != nil {
		return nil, err
	}

	slog.Info("Budget set",
		"user_id", userID,
		"category", category.Name,
		"amount", amount.String(),
		"month", month,
		"year", year,
	)
	return budget, nil
}

// ListBudgets returns the user's budgets for one month.
func (s *BudgetService) ListBudgets(ctx context.Context, userID string, month, year int) ([]*models.Budget, error) {
	if month < 1 || month > 12 {
		return nil, models.ErrInvalidMonth
	}
	return s.store.ListBudgets(ctx, userID, month, year)
}

// SetAlert creates or updates a budget alert. An empty categoryName sets
// the user's global alert.
func (s *BudgetService) SetAlert(ctx context.Context, userID, categoryName string, thresholdPct int, emailEnabled bool) (*models.Alert, error) {
	if thresholdPct < 0 || thresholdPct > 100 {
		return nil, models.ErrInvalidThreshold
	}

	var categoryID string
	if categoryName != "" {
		category, err := s.store.GetCategoryByName(ctx, categoryName)
		if err != nil {
			return nil, err
		}
		categoryID = category.ID
	}

	alert := &models.Alert{
		UserID:       userID,
		CategoryID:   categoryID,
		ThresholdPct: thresholdPct,
		Active:       true,
		EmailEnabled: emailEnabled,
	}
	if err := s.store.UpsertAlert(ctx, alert); err != nil {
		return nil, err
	}

	slog.Info("Alert configured",
		"user_id", userID,
		"category", categoryName,
		"threshold_pct", thresholdPct,
		"email", emailEnabled,
	)
	return alert, nil
}

// BudgetComparison is one row of the monthly budget-vs-spending report.
type BudgetComparison struct {
	CategoryName string
	Budget       money.Money
	Spent        money.Money
	Remaining    money.Money
	PercentUsed  float64
}

// MonthlyReport summarizes one month of a user's spending.
type MonthlyReport struct {
	Month      int
	Year       int
	TotalSpent money.Money
	Categories []storage.CategorySpend
	Budgets    []BudgetComparison
}

// MonthlyReport builds the spending summary for one month: the attributed
// total, the per-category breakdown, and a comparison row for every budget
// set in that month.
func (s *BudgetService) MonthlyReport(ctx context.Context, userID string, month, year int) (*MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, models.ErrInvalidMonth
	}

	spending, err := s.store.SpendingByCategory(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spending: %w", err)
	}

	spentByCategory := make(map[string]money.Money, len(spending))
	report := &MonthlyReport{Month: month, Year: year, Categories: spending}
	for _, row := range spending {
		report.TotalSpent = report.TotalSpent.Add(row.Amount)
		spentByCategory[row.CategoryID] = row.Amount
	}

	budgets, err := s.store.ListBudgets(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	for _, budget := range budgets {
		category, err := s.store.GetCategoryByID(ctx, budget.CategoryID)
		if err != nil {
			return nil, err
		}
		spent := spentByCategory[budget.CategoryID]
		report.Budgets = append(report.Budgets, BudgetComparison{
			CategoryName: category.Name,
			Budget:       budget.Amount,
			Spent:        spent,
			Remaining:    budget.Amount.Sub(spent),
			PercentUsed:  float64(spent) / float64(budget.Amount) * 100,
		})
	}

	return report, nil
}

func budgetCellKey(userID, categoryID string, month, year int) string {
	return fmt.Sprintf("%s|%s|%d|%d", userID, categoryID, month, year)
}
