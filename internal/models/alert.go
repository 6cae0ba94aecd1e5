package models

// Alert configures budget warnings for a user. A nil category (empty
// CategoryID) applies to all categories; a category-specific alert takes
// precedence over the global one.
type Alert struct {
	// ID is the unique identifier for the alert (UUID format).
	ID string

	// UserID is the owning user.
	UserID string

	// CategoryID scopes the alert to one category. Empty means global.
	CategoryID string

	// ThresholdPct is the remaining-budget percentage below which a
	// warning fires. Always within [0, 100].
	ThresholdPct int

	// Active disables the alert without deleting it when false.
	Active bool

	// EmailEnabled controls whether events are also sent by email.
	EmailEnabled bool

	// CreatedAt is the Unix timestamp when the alert was created.
	CreatedAt int64
}

// Severity classifies a budget cell's state after an expense lands.
type Severity int

const (
	// SeverityOK means the remaining budget is at or above the threshold.
	SeverityOK Severity = iota

	// SeverityWarning means the remaining budget dropped below the
	// threshold but spending has not exceeded the budget.
	SeverityWarning

	// SeverityExceeded means spending is strictly over the budget.
	SeverityExceeded
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarning:
		return "WARNING"
	case SeverityExceeded:
		return "EXCEEDED"
	default:
		return "UNKNOWN"
	}
}
