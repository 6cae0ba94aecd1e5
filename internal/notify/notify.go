// Package notify delivers budget alert events to their sinks. The evaluator
// depends only on the Notifier contract; transport details live here.
package notify

import (
	"context"
	"log/slog"

	"expensetracker/internal/models"
	"expensetracker/internal/money"
)

// Event carries everything a sink needs to render a budget alert.
type Event struct {
	RecipientEmail string
	Username       string
	Category       string
	Severity       models.Severity
	Budget         money.Money
	Spent          money.Money
	RemainingPct   float64
	Month          int
	Year           int
}

// Notifier delivers one alert event. Delivery is best-effort: a failed
// Notify never affects the mutation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// LogNotifier writes alert events to the structured log. It is the
// unconditional sink: every emitted event passes through it.
type LogNotifier struct{}

// Notify logs the event at a level matching its severity.
func (LogNotifier) Notify(_ context.Context, ev Event) error {
	attrs := []any{
		"user", ev.Username,
		"category", ev.Category,
		"severity", ev.Severity.String(),
		"budget", ev.Budget.String(),
		"spent", ev.Spent.String(),
		"remaining_pct", ev.RemainingPct,
		"month", ev.Month,
		"year", ev.Year,
	}
	if ev.Severity == models.SeverityExceeded {
		slog.Error("Budget exceeded", attrs...)
	} else {
		slog.Warn("Budget alert", attrs...)
	}
	return nil
}
