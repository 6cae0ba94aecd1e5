package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/notify"
)

// fakeNotifier records delivered events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (f *fakeNotifier) Notify(_ context.Context, ev notify.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func (f *fakeNotifier) last() notify.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[len(f.events)-1]
}

func (f *fakeNotifier) all() []notify.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Event(nil), f.events...)
}

// waitForEmails polls for asynchronous email dispatch.
func waitForEmails(t *testing.T, f *fakeNotifier, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.count() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d emails, got %d", want, f.count())
}

func TestAlertScenario(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	env.category(t, "Food")

	// Budget Food=$100 for March 2024, default global alert threshold 10%.
	if _, err := env.budgets.SetBudget(ctx, alice.ID, "Food", 10000, 3, 2024); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}

	march := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	// $95 spent: 5% remaining < 10% threshold -> WARNING.
	if _, err := env.expenses.AddExpense(ctx, alice.ID, "Food", 9500, "", march); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if env.sink.count() != 1 {
		t.Fatalf("got %d alert events, want 1", env.sink.count())
	}
	if got := env.sink.last(); got.Severity != models.SeverityWarning {
		t.Errorf("severity = %v, want WARNING", got.Severity)
	}

	// Another $10: total $105 > $100 budget -> EXCEEDED.
	if _, err := env.expenses.AddExpense(ctx, alice.ID, "Food", 1000, "", march); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if env.sink.count() != 2 {
		t.Fatalf("got %d alert events, want 2", env.sink.count())
	}
	if got := env.sink.last(); got.Severity != models.SeverityExceeded {
		t.Errorf("severity = %v, want EXCEEDED", got.Severity)
	}
	if got := env.sink.last(); got.Spent != 10500 || got.Budget != 10000 {
		t.Errorf("event amounts = spent %d / budget %d, want 10500 / 10000", got.Spent, got.Budget)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	food := env.category(t, "Food")

	if _, err := env.budgets.SetBudget(ctx, alice.ID, "Food", 10000, 3, 2024); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}

	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := env.expenses.AddExpense(ctx, alice.ID, "Food", 9900, "", march); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if env.sink.count() != 1 {
		t.Fatalf("got %d alert events, want 1", env.sink.count())
	}

	// Re-evaluating with no intervening expense must emit nothing.
	if err := env.evaluator.Evaluate(ctx, alice.ID, food.ID, 3, 2024); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if env.sink.count() != 1 {
		t.Errorf("re-evaluation re-emitted: got %d events, want 1", env.sink.count())
	}

	// Staying EXCEEDED across repeated small expenses emits exactly once.
	for i := 0; i < 3; i++ {
		if _, err := env.expenses.AddExpense(ctx, alice.ID, "Food", 500, "", march); err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
	}
	if env.sink.count() != 2 {
		t.Errorf("got %d alert events, want 2 (one WARNING, one EXCEEDED)", env.sink.count())
	}
}

func TestEvaluateNoBudgetIsNoop(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	env.category(t, "Food")

	if _, err := env.expenses.AddExpense(ctx, alice.ID, "Food", 99999, "", time.Time{}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if env.sink.count() != 0 {
		t.Errorf("got %d alert events without a budget, want 0", env.sink.count())
	}
}

func TestEvaluateNoAlertIsNoop(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	food := env.category(t, "Food")

	// Deactivate the registration-time global alert.
	if err := env.store.UpsertAlert(ctx, &models.Alert{
		UserID: alice.ID, ThresholdPct: 10, Active: false,
	}); err != nil {
		t.Fatalf("UpsertAlert failed: %v", err)
	}

	if _, err := env.budgets.SetBudget(ctx, alice.ID, "Food", 100, 3, 2024); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := env.expenses.AddExpense(ctx, alice.ID, "Food", 99999, "", march); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if env.sink.count() != 0 {
		t.Errorf("got %d alert events without an active alert, want 0", env.sink.count())
	}
	_ = food
}

func TestCategoryAlertPrecedence(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	env.category(t, "Food")

	// Category alert with a generous 50% threshold overrides the global 10%.
	if _, err := env.budgets.SetAlert(ctx, alice.ID, "Food", 50, false); err != nil {
		t.Fatalf("SetAlert failed: %v", err)
	}
	if _, err := env.budgets.SetBudget(ctx, alice.ID, "Food", 10000, 3, 2024); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}

	// $60 spent: 40% remaining, below the category alert's 50% threshold
	// but well above the global 10%.
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := env.expenses.AddExpense(ctx, alice.ID, "Food", 6000, "", march); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if env.sink.count() != 1 {
		t.Fatalf("got %d alert events, want 1 (category threshold applies)", env.sink.count())
	}
	if got := env.sink.last(); got.Severity != models.SeverityWarning {
		t.Errorf("severity = %v, want WARNING", got.Severity)
	}
}

func TestEmailSinkGating(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	env.category(t, "Food")
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	if _, err := env.budgets.SetBudget(ctx, alice.ID, "Food", 10000, 3, 2024); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}

	// Default alert has email disabled: the log sink fires, email does not.
	if _, err := env.expenses.AddExpense(ctx, alice.ID, "Food", 9500, "", march); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if env.sink.count() != 1 {
		t.Fatalf("got %d log events, want 1", env.sink.count())
	}
	if env.emails.count() != 0 {
		t.Fatalf("got %d emails with email disabled, want 0", env.emails.count())
	}

	// Enable email on the global alert; the next transition also emails.
	if _, err := env.budgets.SetAlert(ctx, alice.ID, "", 10, true); err != nil {
		t.Fatalf("SetAlert failed: %v", err)
	}
	if _, err := env.expenses.AddExpense(ctx, alice.ID, "Food", 1000, "", march); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	waitForEmails(t, env.emails, 1)
	if got := env.emails.last(); got.RecipientEmail != "alice@example.com" {
		t.Errorf("email recipient = %s, want alice@example.com", got.RecipientEmail)
	}
}

// Concurrent expense additions to one budget cell must never emit events out
// of severity order or regress the stored state: spending only grows, so the
// event stream has to be monotone with at most one event per severity.
func TestConcurrentAdditionsEmitMonotoneEvents(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	env.category(t, "Food")
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	if _, err := env.budgets.SetBudget(ctx, alice.ID, "Food", 10000, 3, 2024); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}

	// $160 across 8 concurrent additions pushes the $100 budget through
	// WARNING into EXCEEDED.
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.expenses.AddExpense(ctx, alice.ID, "Food", 2000, "", march); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("AddExpense failed: %v", err)
	}

	events := env.sink.all()
	if len(events) == 0 || len(events) > 2 {
		t.Fatalf("got %d events, want 1 or 2", len(events))
	}
	seen := make(map[models.Severity]bool)
	previous := models.SeverityOK
	for _, ev := range events {
		if seen[ev.Severity] {
			t.Errorf("severity %s emitted twice", ev.Severity)
		}
		seen[ev.Severity] = true
		if ev.Severity < previous {
			t.Errorf("severity %s emitted after %s", ev.Severity, previous)
		}
		previous = ev.Severity
	}
	if last := events[len(events)-1]; last.Severity != models.SeverityExceeded {
		t.Errorf("final severity = %s, want EXCEEDED", last.Severity)
	}
	if last := env.sink.last(); last.Spent <= 10000 || last.Spent > 16000 {
		t.Errorf("exceeded event spent = %d, want in (10000, 16000]", last.Spent)
	}
}
