package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"expensetracker/internal/models"
)

// EmailSender delivers alert events over SMTP.
type EmailSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewEmailSender creates an SMTP-backed notifier.
func NewEmailSender(host, port, username, password, from string) *EmailSender {
	return &EmailSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Notify composes and sends the alert email. Callers treat failures as
// best-effort; the error is returned for logging only.
func (s *EmailSender) Notify(_ context.Context, ev Event) error {
	e := email.NewEmail()
	e.From = s.from
	e.To = []string{ev.RecipientEmail}

	remaining := ev.Budget.Sub(ev.Spent)
	if ev.Severity == models.SeverityExceeded {
		e.Subject = fmt.Sprintf("Budget exceeded: %s", ev.Category)
		e.Text = []byte(fmt.Sprintf(
			"Dear %s,\n\n"+
				"You have exceeded your %s budget for %d/%d.\n"+
				"Budget: %s\n"+
				"Spent: %s\n"+
				"Over by: %s\n\n"+
				"Consider reviewing your recent expenses.\n\n"+
				"Best regards,\nExpense Tracker",
			ev.Username, ev.Category, ev.Month, ev.Year,
			ev.Budget, ev.Spent, ev.Spent.Sub(ev.Budget),
		))
	} else {
		e.Subject = fmt.Sprintf("Budget alert: %s", ev.Category)
		e.Text = []byte(fmt.Sprintf(
			"Dear %s,\n\n"+
				"Only %.1f%% of your %s budget remains for %d/%d.\n"+
				"Budget: %s\n"+
				"Spent: %s\n"+
				"Remaining: %s\n\n"+
				"Best regards,\nExpense Tracker",
			ev.Username, ev.RemainingPct, ev.Category, ev.Month, ev.Year,
			ev.Budget, ev.Spent, remaining,
		))
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}
