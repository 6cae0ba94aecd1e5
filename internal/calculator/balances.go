package calculator

import (
	"sort"

	"expensetracker/internal/money"
)

// ExpenseForBalance carries the minimal view of a shared expense needed for
// balance computation: who paid the full amount and how it was shared.
type ExpenseForBalance struct {
	PayerID string
	Amount  money.Money
	Shares  []Share
}

// MemberBalance is one group member's position across all group expenses.
type MemberBalance struct {
	UserID    string
	TotalPaid money.Money // full amounts of expenses this member paid
	TotalOwed money.Money // this member's own shares, including of their own expenses
	Net       money.Money // TotalPaid - TotalOwed; positive means the group owes them
}

// Transfer is a single settlement payment between two members.
type Transfer struct {
	FromUserID string
	ToUserID   string
	Amount     money.Money
}

// GroupBalances aggregates the group's accumulated expenses into per-member
// net balances. It is a pure recomputation: no running balance is kept
// anywhere, so the result is consistent after any sequence of additions.
// The returned slice is sorted by user ID; the nets always sum to zero
// because every expense contributes its amount once to TotalPaid and once,
// spread over shares, to TotalOwed.
func GroupBalances(expenses []ExpenseForBalance) []MemberBalance {
	balances := make(map[string]*MemberBalance)
	get := func(id string) *MemberBalance {
		if b, ok := balances[id]; ok {
			return b
		}
		b := &MemberBalance{UserID: id}
		balances[id] = b
		return b
	}

	for _, exp := range expenses {
		if exp.PayerID == "" {
			continue
		}
		get(exp.PayerID).TotalPaid = get(exp.PayerID).TotalPaid.Add(exp.Amount)
		for _, share := range exp.Shares {
			b := get(share.UserID)
			b.TotalOwed = b.TotalOwed.Add(share.Amount)
		}
	}

	result := make([]MemberBalance, 0, len(balances))
	for _, b := range balances {
		b.Net = b.TotalPaid.Sub(b.TotalOwed)
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result
}

// SuggestSettlement produces a minimal set of transfers that zeroes all net
// balances: it repeatedly matches the largest creditor with the largest
// debtor, transferring min(credit, debt). Since the nets sum to zero this
// terminates in at most len(balances)-1 transfers. Ties break on user ID so
// the plan is reproducible.
func SuggestSettlement(balances []MemberBalance) []Transfer {
	type position struct {
		userID string
		amount money.Money
	}

	var creditors, debtors []position
	for _, b := range balances {
		switch {
		case b.Net > 0:
			creditors = append(creditors, position{b.UserID, b.Net})
		case b.Net < 0:
			debtors = append(debtors, position{b.UserID, -b.Net})
		}
	}

	byMagnitude := func(ps []position) {
		sort.Slice(ps, func(i, j int) bool {
			if ps[i].amount != ps[j].amount {
				return ps[i].amount > ps[j].amount
			}
			return ps[i].userID < ps[j].userID
		})
	}
	byMagnitude(creditors)
	byMagnitude(debtors)

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		if amount > 0 {
			transfers = append(transfers, Transfer{
				FromUserID: debtors[i].userID,
				ToUserID:   creditors[j].userID,
				Amount:     amount,
			})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}

	return transfers
}
