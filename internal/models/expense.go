package models

import (
	"time"

	"expensetracker/internal/money"
)

// Expense is a single spending record. A personal expense has no group and
// no splits; a shared expense references its group and is created atomically
// with one split row per group member. Expenses are immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// UserID is the user who paid.
	UserID string

	// CategoryID is the expense category.
	CategoryID string

	// Amount is the full expense amount in minor units. Always positive.
	Amount money.Money

	// Description is optional free text.
	Description string

	// Date is when the expense occurred. Defaults to creation time.
	// Future dates are accepted; recording is permissive.
	Date time.Time

	// GroupID is set for shared expenses, empty for personal ones.
	GroupID string

	// IsShared mirrors GroupID being set.
	IsShared bool

	// Splits holds the per-member shares of a shared expense.
	// Empty for personal expenses.
	Splits []ExpenseSplit

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}

// ExpenseSplit is one group member's share of a shared expense. For a given
// expense the split amounts sum to the expense amount exactly, and every
// group member has exactly one row (possibly zero).
type ExpenseSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// ExpenseID is the shared expense this split belongs to.
	ExpenseID string

	// UserID is the member who owes this share.
	UserID string

	// Amount is the share in minor units. Never negative.
	Amount money.Money

	// Paid is true for the payer's own share, which is already covered.
	Paid bool

	// CreatedAt is the Unix timestamp when the split was created.
	CreatedAt int64
}
