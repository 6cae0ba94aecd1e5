// Package metrics exposes Prometheus instrumentation for the core domain
// operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExpensesRecorded counts created expenses by kind (personal/shared).
	ExpensesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "expensetracker_expenses_recorded_total",
		Help: "Number of expenses recorded, by kind.",
	}, []string{"kind"})

	// AlertEvents counts emitted budget alert events by severity.
	AlertEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "expensetracker_alert_events_total",
		Help: "Number of budget alert events emitted, by severity.",
	}, []string{"severity"})

	// SettlementPlans counts computed settlement suggestions.
	SettlementPlans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expensetracker_settlement_plans_total",
		Help: "Number of settlement plans computed.",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
