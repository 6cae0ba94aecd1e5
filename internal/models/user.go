package models

// User represents a registered account. There is no authentication beyond
// username lookup; the username is how a session picks its actor.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name.
	Username string

	// Email is the user's unique email address, used for alert delivery.
	Email string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
