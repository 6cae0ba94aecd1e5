package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"expensetracker/internal/calculator"
	"expensetracker/internal/metrics"
	"expensetracker/internal/models"
	"expensetracker/internal/money"
	"expensetracker/internal/storage"
)

// ExpenseService records personal and shared expenses. Every successful
// creation synchronously re-evaluates the payer's budget cell.
type ExpenseService struct {
	store     storage.Store
	evaluator *AlertEvaluator
	groups    *keyedMutex
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(store storage.Store, evaluator *AlertEvaluator) *ExpenseService {
	return &ExpenseService{
		store:     store,
		evaluator: evaluator,
		groups:    newKeyedMutex(),
	}
}

// AddExpense records a personal expense. The date defaults to now and is
// deliberately not validated against the future. All validation happens
// before anything is persisted.
func (s *ExpenseService) AddExpense(ctx context.Context, userID, categoryName string, amount money.Money, description string, date time.Time) (*models.Expense, error) {
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	category, err := s.store.GetCategoryByName(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  category.ID,
		Amount:      amount,
		Description: description,
		Date:        date,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	metrics.ExpensesRecorded.WithLabelValues("personal").Inc()
	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"user_id", userID,
		"category", category.Name,
		"amount", amount.String(),
	)

	s.evaluate(ctx, userID, category.ID, date)
	return expense, nil
}

// AddSharedExpense records a group expense together with one split per
// member, atomically. A nil customShares splits the amount equally in
// member order; otherwise customShares must name only members and sum to
// amount exactly. The payer's split row is marked paid.
func (s *ExpenseService) AddSharedExpense(ctx context.Context, payerID, groupID, categoryName string, amount money.Money, description string, customShares map[string]money.Money) (*models.Expense, error) {
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	category, err := s.store.GetCategoryByName(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	// Serialize mutations per group so concurrent additions cannot
	// interleave between membership read and expense write.
	unlock := s.groups.lock(groupID)
	defer unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(payerID) {
		return nil, fmt.Errorf("%w: payer %s", models.ErrNotAMember, payerID)
	}

	memberIDs := group.MemberIDs()
	var shares []calculator.Share
	if customShares == nil {
		shares, err = calculator.EqualShares(amount, memberIDs)
	} else {
		shares, err = calculator.CustomShares(amount, memberIDs, customShares)
	}
	if err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	expense := &models.Expense{
		UserID:      payerID,
		CategoryID:  category.ID,
		Amount:      amount,
		Description: description,
		Date:        date,
		GroupID:     groupID,
		IsShared:    true,
	}
	for _, share := range shares {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{
			UserID: share.UserID,
			Amount: share.Amount,
			Paid:   share.UserID == payerID,
		})
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	metrics.ExpensesRecorded.WithLabelValues("shared").Inc()
	slog.Info("Shared expense recorded",
		"expense_id", expense.ID,
		"group_id", groupID,
		"payer_id", payerID,
		"amount", amount.String(),
		"splits", len(expense.Splits),
	)

	s.evaluate(ctx, payerID, category.ID, date)
	return expense, nil
}

// ListExpenses returns a user's expenses with optional month/year and
// category filters.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string, month, year int, categoryName string) ([]*models.Expense, error) {
	var categoryID string
	if categoryName != "" {
		category, err := s.store.GetCategoryByName(ctx, categoryName)
		if err != nil {
			return nil, err
		}
		categoryID = category.ID
	}
	return s.store.ListExpenses(ctx, userID, month, year, categoryID)
}

// evaluate runs the budget alert check for the expense's cell. The expense
// itself is already persisted; evaluation trouble is logged, never
// propagated as a mutation failure.
func (s *ExpenseService) evaluate(ctx context.Context, userID, categoryID string, date time.Time) {
	month, year := int(date.Month()), date.Year()
	if err := s.evaluator.Evaluate(ctx, userID, categoryID, month, year); err != nil {
		slog.Warn("Budget alert evaluation failed",
			"user_id", userID,
			"category_id", categoryID,
			"month", month,
			"year", year,
			"error", err,
		)
	}
}
