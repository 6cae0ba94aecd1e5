package models

// Category classifies expenses and budgets. Names are unique
// case-insensitively and immutable once created.
type Category struct {
	// ID is the unique identifier for the category (UUID format).
	ID string

	// Name is the display name, e.g. "Food".
	Name string

	// Description is optional free text.
	Description string

	// CreatedAt is the Unix timestamp when the category was created.
	CreatedAt int64
}
