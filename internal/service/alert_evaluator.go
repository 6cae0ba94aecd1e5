package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"expensetracker/internal/metrics"
	"expensetracker/internal/models"
	"expensetracker/internal/notify"
	"expensetracker/internal/storage"
)

// cellKey identifies one budget cell: the unit of alert-state tracking.
type cellKey struct {
	UserID     string
	CategoryID string
	Month      int
	Year       int
}

// AlertEvaluator recomputes spend-vs-budget after every expense-adding
// mutation and emits alert events on severity transitions. Evaluation is a
// pure recomputation over the store; the only state kept here is the last
// emitted severity per cell, which makes repeated evaluation at an unchanged
// severity a no-op instead of alert spam.
type AlertEvaluator struct {
	store   storage.Store
	logSink notify.Notifier
	emailer notify.Notifier // nil when email is not configured

	// cells serializes whole evaluations per budget cell so concurrent
	// expense additions cannot read-then-store severities out of order.
	cells *keyedMutex

	mu    sync.Mutex
	state map[cellKey]models.Severity
}

// NewAlertEvaluator creates an evaluator. emailer may be nil, in which case
// email-enabled alerts degrade to log-only delivery.
func NewAlertEvaluator(store storage.Store, logSink notify.Notifier, emailer notify.Notifier) *AlertEvaluator {
	return &AlertEvaluator{
		store:   store,
		logSink: logSink,
		emailer: emailer,
		cells:   newKeyedMutex(),
		state:   make(map[cellKey]models.Severity),
	}
}

// Evaluate recomputes the severity of one (user, category, month, year)
// budget cell and emits an event if the severity changed. Cells without a
// budget, and users without an applicable active alert, are no-ops.
func (e *AlertEvaluator) Evaluate(ctx context.Context, userID, categoryID string, month, year int) error {
	// Spending only ever grows within a cell, so serialized evaluations
	// read monotonically non-decreasing sums and the stored severity can
	// never be regressed by a stale read.
	unlock := e.cells.lock(budgetCellKey(userID, categoryID, month, year))
	defer unlock()

	budget, err := e.store.GetBudget(ctx, userID, categoryID, month, year)
	if errors.Is(err, models.ErrBudgetNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load budget: %w", err)
	}

	alert, err := e.store.ResolveAlert(ctx, userID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}
	if alert == nil {
		return nil
	}

	spent, err := e.store.SumSpent(ctx, userID, categoryID, month, year)
	if err != nil {
		return fmt.Errorf("failed to sum spending: %w", err)
	}

	remainingPct := 0.0
	if spent < budget.Amount {
		remainingPct = float64(budget.Amount-spent) / float64(budget.Amount) * 100
	}

	var severity models.Severity
	switch {
	case spent > budget.Amount:
		severity = models.SeverityExceeded
	case remainingPct < float64(alert.ThresholdPct):
		severity = models.SeverityWarning
	default:
		severity = models.SeverityOK
	}

	key := cellKey{UserID: userID, CategoryID: categoryID, Month: month, Year: year}

	e.mu.Lock()
	previous := e.state[key]
	if severity == previous {
		e.mu.Unlock()
		return nil
	}
	e.state[key] = severity
	e.mu.Unlock()

	// A severity can only drop when the budget itself was raised; there is
	// nothing to warn about then.
	if severity == models.SeverityOK {
		return nil
	}

	user, err := e.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user for alert: %w", err)
	}
	category, err := e.store.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to load category for alert: %w", err)
	}

	ev := notify.Event{
		RecipientEmail: user.Email,
		Username:       user.Username,
		Category:       category.Name,
		Severity:       severity,
		Budget:         budget.Amount,
		Spent:          spent,
		RemainingPct:   remainingPct,
		Month:          month,
		Year:           year,
	}

	metrics.AlertEvents.WithLabelValues(severity.String()).Inc()

	if err := e.logSink.Notify(ctx, ev); err != nil {
		slog.Warn("Alert log sink failed", "error", err)
	}

	// Email delivery is fire-and-forget: a failed or slow send must never
	// roll back or delay the expense creation that triggered it.
	if alert.EmailEnabled && e.emailer != nil {
		go func() {
			if err := e.emailer.Notify(context.Background(), ev); err != nil {
				slog.Warn("Alert email delivery failed",
					"user", ev.Username,
					"category", ev.Category,
					"error", err,
				)
			}
		}()
	}

	return nil
}
