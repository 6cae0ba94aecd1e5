package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"expensetracker/internal/calculator"
	"expensetracker/internal/metrics"
	"expensetracker/internal/models"
	"expensetracker/internal/money"
	"expensetracker/internal/storage"
)

// GroupService manages expense-sharing groups and resolves their balances.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// MemberBalance is one member's position with usernames resolved for
// presentation.
type MemberBalance struct {
	UserID    string
	Username  string
	TotalPaid money.Money
	TotalOwed money.Money
	Net       money.Money
}

// Transfer is a settlement payment with usernames resolved.
type Transfer struct {
	FromUserID   string
	FromUsername string
	ToUserID     string
	ToUsername   string
	Amount       money.Money
}

// CreateGroup creates a group. memberIDs must include the creator, contain
// no duplicates, and reference only existing users; violations fail with
// ErrInvalidGroup before anything is persisted.
func (s *GroupService) CreateGroup(ctx context.Context, name, description, creatorID string, memberIDs []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", models.ErrInvalidGroup)
	}
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("%w: no members", models.ErrInvalidGroup)
	}

	seen := make(map[string]bool, len(memberIDs))
	creatorIncluded := false
	var members []models.User
	for _, id := range memberIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate member %s", models.ErrInvalidGroup, id)
		}
		seen[id] = true
		if id == creatorID {
			creatorIncluded = true
		}

		user, err := s.store.GetUserByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: member %s", models.ErrInvalidGroup, id)
		}
		members = append(members, *user)
	}
	if !creatorIncluded {
		return nil, fmt.Errorf("%w: creator must be a member", models.ErrInvalidGroup)
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
		Members:     members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group created",
		"group_id", group.ID,
		"name", name,
		"members", len(members),
	)
	return group, nil
}

// GetGroup returns a group with its members.
func (s *GroupService) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// ListGroups returns the groups a user belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByUser(ctx, userID)
}

// GroupBalances recomputes the group's member balances from its accumulated
// expenses and splits. Members with no activity appear with zero balances.
func (s *GroupService) GroupBalances(ctx context.Context, groupID string) ([]MemberBalance, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListGroupExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}

	input := make([]calculator.ExpenseForBalance, 0, len(expenses))
	for _, expense := range expenses {
		shares := make([]calculator.Share, len(expense.Splits))
		for i, split := range expense.Splits {
			shares[i] = calculator.Share{UserID: split.UserID, Amount: split.Amount}
		}
		input = append(input, calculator.ExpenseForBalance{
			PayerID: expense.UserID,
			Amount:  expense.Amount,
			Shares:  shares,
		})
	}

	computed := calculator.GroupBalances(input)
	byUser := make(map[string]calculator.MemberBalance, len(computed))
	for _, b := range computed {
		byUser[b.UserID] = b
	}

	// Present every member in membership order, including inactive ones.
	balances := make([]MemberBalance, len(group.Members))
	for i, member := range group.Members {
		b := byUser[member.ID]
		balances[i] = MemberBalance{
			UserID:    member.ID,
			Username:  member.Username,
			TotalPaid: b.TotalPaid,
			TotalOwed: b.TotalOwed,
			Net:       b.Net,
		}
	}
	return balances, nil
}

// SuggestSettlement computes the minimal transfer plan that zeroes the
// group's net balances.
func (s *GroupService) SuggestSettlement(ctx context.Context, groupID string) ([]Transfer, error) {
	balances, err := s.GroupBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(balances))
	input := make([]calculator.MemberBalance, len(balances))
	for i, b := range balances {
		names[b.UserID] = b.Username
		input[i] = calculator.MemberBalance{
			UserID:    b.UserID,
			TotalPaid: b.TotalPaid,
			TotalOwed: b.TotalOwed,
			Net:       b.Net,
		}
	}

	plan := calculator.SuggestSettlement(input)
	metrics.SettlementPlans.Inc()

	transfers := make([]Transfer, len(plan))
	for i, tr := range plan {
		transfers[i] = Transfer{
			FromUserID:   tr.FromUserID,
			FromUsername: names[tr.FromUserID],
			ToUserID:     tr.ToUserID,
			ToUsername:   names[tr.ToUserID],
			Amount:       tr.Amount,
		}
	}
	return transfers, nil
}
