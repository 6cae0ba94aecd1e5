// Package calculator holds the pure computation core: share allocation for
// shared expenses, group balance aggregation, and settlement planning. It
// touches no storage and no clocks, so every function is deterministic over
// its inputs.
package calculator

import (
	"fmt"

	"expensetracker/internal/models"
	"expensetracker/internal/money"
)

// Share is one member's allocated portion of a shared expense.
type Share struct {
	UserID string
	Amount money.Money
}

// EqualShares splits total evenly across memberIDs. Rounding remainders go
// to the leading members in the supplied order, so the result is stable and
// sums to total exactly.
func EqualShares(total money.Money, memberIDs []string) ([]Share, error) {
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("%w: group has no members", models.ErrInvalidGroup)
	}

	amounts, err := total.SplitEven(len(memberIDs))
	if err != nil {
		return nil, err
	}

	shares := make([]Share, len(memberIDs))
	for i, id := range memberIDs {
		shares[i] = Share{UserID: id, Amount: amounts[i]}
	}
	return shares, nil
}

// CustomShares validates caller-supplied amounts against the group
// membership and the expense total. Every key of amounts must be a member
// (ErrNotAMember otherwise) and the amounts must sum to total exactly
// (ErrSplitMismatch otherwise). Members omitted from amounts get a zero
// share, so the result always has one entry per member, in member order.
func CustomShares(total money.Money, memberIDs []string, amounts map[string]money.Money) ([]Share, error) {
	members := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}
	for id := range amounts {
		if !members[id] {
			return nil, fmt.Errorf("%w: %s", models.ErrNotAMember, id)
		}
	}

	var sum money.Money
	for _, amt := range amounts {
		if amt < 0 {
			return nil, fmt.Errorf("%w: negative share", money.ErrInvalidAmount)
		}
		sum = sum.Add(amt)
	}
	if sum != total {
		return nil, fmt.Errorf("%w: shares total %s, expense is %s",
			models.ErrSplitMismatch, sum, total)
	}

	shares := make([]Share, len(memberIDs))
	for i, id := range memberIDs {
		shares[i] = Share{UserID: id, Amount: amounts[id]}
	}
	return shares, nil
}
