package models

import "errors"

// Domain error kinds. Validation failures are raised before any persistence
// happens; uniqueness violations surfaced by storage are translated into the
// matching kind and never leaked as raw driver errors.
var (
	ErrInvalidMonth      = errors.New("month must be between 1 and 12")
	ErrInvalidThreshold  = errors.New("threshold must be between 0 and 100")
	ErrDuplicateUser     = errors.New("username or email already taken")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrInvalidGroup      = errors.New("invalid group membership")
	ErrNotAMember        = errors.New("user is not a member of the group")
	ErrSplitMismatch     = errors.New("split amounts do not sum to the expense amount")

	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrBudgetNotFound   = errors.New("budget not found")
)
