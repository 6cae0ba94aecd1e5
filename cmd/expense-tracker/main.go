package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"expensetracker/internal/config"
	"expensetracker/internal/metrics"
	"expensetracker/internal/models"
	"expensetracker/internal/money"
	"expensetracker/internal/notify"
	"expensetracker/internal/service"
	"expensetracker/internal/storage/sqlite"
	"expensetracker/pkg/logging"
)

// app holds the wired services plus the logged-in user for the menu loop.
type app struct {
	users      *service.UserService
	categories *service.CategoryService
	budgets    *service.BudgetService
	expenses   *service.ExpenseService
	groups     *service.GroupService

	in      *bufio.Scanner
	current *models.User
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	logSink := &notify.LogNotifier{}
	var emailer notify.Notifier
	if cfg.EmailConfigured() {
		emailer = notify.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromEmail)
		slog.Info("Email notifications enabled", "from", cfg.FromEmail)
	}
	evaluator := service.NewAlertEvaluator(store, logSink, emailer)

	a := &app{
		users:      service.NewUserService(store, cfg.DefaultAlertThreshold, cfg.EmailConfigured()),
		categories: service.NewCategoryService(store),
		budgets:    service.NewBudgetService(store),
		expenses:   service.NewExpenseService(store, evaluator),
		groups:     service.NewGroupService(store),
		in:         bufio.NewScanner(os.Stdin),
	}

	ctx := context.Background()
	if err := a.categories.SeedDefaults(ctx, config.DefaultCategories); err != nil {
		slog.Error("Failed to seed categories", "error", err)
		os.Exit(1)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			slog.Info("Metrics listener starting", "address", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Error("Metrics listener failed", "error", err)
			}
		}()
	}

	a.run(ctx)
}

func (a *app) run(ctx context.Context) {
	fmt.Println("=== Expense Tracker ===")
	for a.current == nil {
		fmt.Println("\n1. Login")
		fmt.Println("2. Register")
		fmt.Println("3. Exit")
		switch a.prompt("Choice: ") {
		case "1":
			a.login(ctx)
		case "2":
			a.register(ctx)
		case "3":
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
	a.mainMenu(ctx)
}

func (a *app) mainMenu(ctx context.Context) {
	for {
		fmt.Printf("\n--- %s ---\n", a.current.Username)
		fmt.Println("1. Add expense")
		fmt.Println("2. View expenses")
		fmt.Println("3. Set budget")
		fmt.Println("4. View budgets")
		fmt.Println("5. Monthly report")
		fmt.Println("6. Configure alerts")
		fmt.Println("7. Groups")
		fmt.Println("8. Categories")
		fmt.Println("9. Exit")
		switch a.prompt("Choice: ") {
		case "1":
			a.addExpense(ctx)
		case "2":
			a.viewExpenses(ctx)
		case "3":
			a.setBudget(ctx)
		case "4":
			a.viewBudgets(ctx)
		case "5":
			a.monthlyReport(ctx)
		case "6":
			a.configureAlert(ctx)
		case "7":
			a.groupMenu(ctx)
		case "8":
			a.categoryMenu(ctx)
		case "9":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func (a *app) login(ctx context.Context) {
	username := a.prompt("Username: ")
	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	a.current = user
	fmt.Printf("Welcome back, %s!\n", user.Username)
}

func (a *app) register(ctx context.Context) {
	username := a.prompt("Username: ")
	email := a.prompt("Email: ")
	user, err := a.users.CreateUser(ctx, username, email)
	if err != nil {
		fmt.Println("Registration failed:", err)
		return
	}
	a.current = user
	fmt.Printf("Welcome, %s!\n", user.Username)
}

func (a *app) addExpense(ctx context.Context) {
	a.listCategories(ctx)
	category := a.prompt("Category: ")
	amount, err := money.Parse(a.prompt("Amount: "))
	if err != nil {
		fmt.Println("Invalid amount:", err)
		return
	}
	description := a.prompt("Description (optional): ")
	date, err := parseDate(a.prompt("Date (YYYY-MM-DD, blank for today): "))
	if err != nil {
		fmt.Println("Invalid date:", err)
		return
	}

	expense, err := a.expenses.AddExpense(ctx, a.current.ID, category, amount, description, date)
	if err != nil {
		fmt.Println("Failed to add expense:", err)
		return
	}
	fmt.Printf("Recorded %s for %s on %s.\n", expense.Amount, category, expense.Date.Format("2006-01-02"))
}

func (a *app) viewExpenses(ctx context.Context) {
	fmt.Println("1. All expenses")
	fmt.Println("2. By month")
	fmt.Println("3. By category")

	var month, year int
	var category string
	switch a.prompt("Choice: ") {
	case "1":
	case "2":
		var ok bool
		if month, year, ok = a.promptMonthYear(); !ok {
			return
		}
	case "3":
		category = a.prompt("Category: ")
	default:
		fmt.Println("Invalid choice.")
		return
	}

	expenses, err := a.expenses.ListExpenses(ctx, a.current.ID, month, year, category)
	if err != nil {
		fmt.Println("Failed to list expenses:", err)
		return
	}
	if len(expenses) == 0 {
		fmt.Println("No expenses found.")
		return
	}
	var total money.Money
	for _, e := range expenses {
		shared := ""
		if e.IsShared {
			shared = " [shared]"
		}
		fmt.Printf("%s  %8s  %s%s\n", e.Date.Format("2006-01-02"), e.Amount, e.Description, shared)
		total = total.Add(e.Amount)
	}
	fmt.Printf("Total: %s (%d expenses)\n", total, len(expenses))
}

func (a *app) setBudget(ctx context.Context) {
	a.listCategories(ctx)
	category := a.prompt("Category: ")
	amount, err := money.Parse(a.prompt("Monthly budget: "))
	if err != nil {
		fmt.Println("Invalid amount:", err)
		return
	}
	month, year, ok := a.promptMonthYear()
	if !ok {
		return
	}

	budget, err := a.budgets.SetBudget(ctx, a.current.ID, category, amount, month, year)
	if err != nil {
		fmt.Println("Failed to set budget:", err)
		return
	}
	fmt.Printf("Budget for %s set to %s (%d/%d).\n", category, budget.Amount, month, year)
}

func (a *app) viewBudgets(ctx context.Context) {
	month, year, ok := a.promptMonthYear()
	if !ok {
		return
	}
	report, err := a.budgets.MonthlyReport(ctx, a.current.ID, month, year)
	if err != nil {
		fmt.Println("Failed to load budgets:", err)
		return
	}
	if len(report.Budgets) == 0 {
		fmt.Println("No budgets set for this month.")
		return
	}
	for _, row := range report.Budgets {
		fmt.Printf("%-15s budget %8s  spent %8s  remaining %8s (%.1f%% used)\n",
			row.CategoryName, row.Budget, row.Spent, row.Remaining, row.PercentUsed)
	}
}

func (a *app) monthlyReport(ctx context.Context) {
	month, year, ok := a.promptMonthYear()
	if !ok {
		return
	}
	report, err := a.budgets.MonthlyReport(ctx, a.current.ID, month, year)
	if err != nil {
		fmt.Println("Failed to build report:", err)
		return
	}
	fmt.Printf("\nReport for %d/%d\n", month, year)
	fmt.Printf("Total spent: %s\n", report.TotalSpent)
	for _, row := range report.Categories {
		fmt.Printf("  %-15s %8s\n", row.CategoryName, row.Amount)
	}
	for _, row := range report.Budgets {
		fmt.Printf("  %-15s %8s of %8s (%.1f%%)\n", row.CategoryName, row.Spent, row.Budget, row.PercentUsed)
	}
}

func (a *app) configureAlert(ctx context.Context) {
	fmt.Println("1. Global alert (all categories)")
	fmt.Println("2. Category alert")
	var category string
	switch a.prompt("Choice: ") {
	case "1":
	case "2":
		a.listCategories(ctx)
		category = a.prompt("Category: ")
	default:
		fmt.Println("Invalid choice.")
		return
	}
	threshold, err := strconv.Atoi(a.prompt("Warn when remaining budget drops below (%): "))
	if err != nil {
		fmt.Println("Invalid threshold.")
		return
	}
	emailEnabled := strings.EqualFold(a.prompt("Send email alerts? (y/n): "), "y")

	if _, err := a.budgets.SetAlert(ctx, a.current.ID, category, threshold, emailEnabled); err != nil {
		fmt.Println("Failed to configure alert:", err)
		return
	}
	fmt.Println("Alert configured.")
}

func (a *app) groupMenu(ctx context.Context) {
	fmt.Println("1. Create group")
	fmt.Println("2. My groups")
	fmt.Println("3. Add shared expense")
	fmt.Println("4. Group balances")
	switch a.prompt("Choice: ") {
	case "1":
		a.createGroup(ctx)
	case "2":
		a.listGroups(ctx)
	case "3":
		a.addSharedExpense(ctx)
	case "4":
		a.groupBalances(ctx)
	default:
		fmt.Println("Invalid choice.")
	}
}

func (a *app) createGroup(ctx context.Context) {
	name := a.prompt("Group name: ")
	description := a.prompt("Description (optional): ")

	memberIDs := []string{a.current.ID}
	for {
		username := a.prompt("Add member username (blank to finish): ")
		if username == "" {
			break
		}
		user, err := a.users.GetUserByUsername(ctx, username)
		if err != nil {
			fmt.Println("User not found:", username)
			continue
		}
		memberIDs = append(memberIDs, user.ID)
	}

	group, err := a.groups.CreateGroup(ctx, name, description, a.current.ID, memberIDs)
	if err != nil {
		fmt.Println("Failed to create group:", err)
		return
	}
	fmt.Printf("Group %q created with %d members.\n", group.Name, len(group.Members))
}

func (a *app) listGroups(ctx context.Context) []*models.Group {
	groups, err := a.groups.ListGroups(ctx, a.current.ID)
	if err != nil {
		fmt.Println("Failed to list groups:", err)
		return nil
	}
	if len(groups) == 0 {
		fmt.Println("You are not in any groups.")
		return nil
	}
	for i, g := range groups {
		fmt.Printf("%d. %s\n", i+1, g.Name)
	}
	return groups
}

// pickGroup lists the user's groups and returns the selected one. The list
// carries bare group rows, so the selection is re-fetched to load its
// members.
func (a *app) pickGroup(ctx context.Context) *models.Group {
	groups := a.listGroups(ctx)
	if groups == nil {
		return nil
	}
	idx, err := strconv.Atoi(a.prompt("Group number: "))
	if err != nil || idx < 1 || idx > len(groups) {
		fmt.Println("Invalid selection.")
		return nil
	}
	group, err := a.groups.GetGroup(ctx, groups[idx-1].ID)
	if err != nil {
		fmt.Println("Failed to load group:", err)
		return nil
	}
	return group
}

func (a *app) addSharedExpense(ctx context.Context) {
	group := a.pickGroup(ctx)
	if group == nil {
		return
	}
	a.listCategories(ctx)
	category := a.prompt("Category: ")
	amount, err := money.Parse(a.prompt("Amount: "))
	if err != nil {
		fmt.Println("Invalid amount:", err)
		return
	}
	description := a.prompt("Description (optional): ")

	var customShares map[string]money.Money
	if strings.EqualFold(a.prompt("Split equally? (y/n): "), "n") {
		customShares = make(map[string]money.Money, len(group.Members))
		for _, member := range group.Members {
			raw := a.prompt(fmt.Sprintf("Share for %s (blank for none): ", member.Username))
			if raw == "" {
				continue
			}
			share, err := money.Parse(raw)
			if err != nil {
				fmt.Println("Invalid share:", err)
				return
			}
			customShares[member.ID] = share
		}
	}

	expense, err := a.expenses.AddSharedExpense(ctx, a.current.ID, group.ID, category, amount, description, customShares)
	if err != nil {
		fmt.Println("Failed to add shared expense:", err)
		return
	}
	fmt.Printf("Recorded %s split across %d members.\n", expense.Amount, len(expense.Splits))
}

func (a *app) groupBalances(ctx context.Context) {
	group := a.pickGroup(ctx)
	if group == nil {
		return
	}
	balances, err := a.groups.GroupBalances(ctx, group.ID)
	if err != nil {
		fmt.Println("Failed to compute balances:", err)
		return
	}
	fmt.Printf("\nBalances for %s:\n", group.Name)
	for _, b := range balances {
		state := "settled up"
		switch {
		case b.Net > 0:
			state = fmt.Sprintf("is owed %s", b.Net)
		case b.Net < 0:
			state = fmt.Sprintf("owes %s", -b.Net)
		}
		fmt.Printf("  %-12s paid %8s, share %8s: %s\n", b.Username, b.TotalPaid, b.TotalOwed, state)
	}

	transfers, err := a.groups.SuggestSettlement(ctx, group.ID)
	if err != nil {
		fmt.Println("Failed to suggest settlement:", err)
		return
	}
	if len(transfers) == 0 {
		fmt.Println("Everyone is settled up.")
		return
	}
	fmt.Println("Suggested settlement:")
	for _, tr := range transfers {
		fmt.Printf("  %s pays %s %s\n", tr.FromUsername, tr.ToUsername, tr.Amount)
	}
}

func (a *app) categoryMenu(ctx context.Context) {
	fmt.Println("1. List categories")
	fmt.Println("2. Add category")
	switch a.prompt("Choice: ") {
	case "1":
		a.listCategories(ctx)
	case "2":
		name := a.prompt("Name: ")
		description := a.prompt("Description (optional): ")
		if _, err := a.categories.CreateCategory(ctx, name, description); err != nil {
			fmt.Println("Failed to add category:", err)
			return
		}
		fmt.Println("Category added.")
	default:
		fmt.Println("Invalid choice.")
	}
}

func (a *app) listCategories(ctx context.Context) {
	categories, err := a.categories.ListCategories(ctx)
	if err != nil {
		fmt.Println("Failed to list categories:", err)
		return
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	fmt.Println("Categories:", strings.Join(names, ", "))
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

// promptMonthYear reads a month and year, defaulting to the current ones on
// blank input.
func (a *app) promptMonthYear() (int, int, bool) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	if raw := a.prompt(fmt.Sprintf("Month (1-12, blank for %d): ", month)); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			fmt.Println("Invalid month.")
			return 0, 0, false
		}
		month = m
	}
	if raw := a.prompt(fmt.Sprintf("Year (blank for %d): ", year)); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Println("Invalid year.")
			return 0, 0, false
		}
		year = y
	}
	return month, year, true
}

// parseDate accepts a few common layouts. Blank means today.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", "01-02-2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
