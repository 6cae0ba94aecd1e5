package models

import "expensetracker/internal/money"

// Budget is a spending limit for one (user, category, month, year) cell.
// At most one budget exists per cell; setting it again replaces the amount.
type Budget struct {
	// ID is the unique identifier for the budget (UUID format).
	ID string

	// UserID is the owning user.
	UserID string

	// CategoryID is the budgeted category.
	CategoryID string

	// Amount is the limit in minor units. Always positive.
	Amount money.Money

	// Month is the calendar month, 1-12.
	Month int

	// Year is the calendar year.
	Year int

	// CreatedAt is the Unix timestamp when the budget was first set.
	CreatedAt int64
}
