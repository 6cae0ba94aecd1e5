package models

// Group is a fixed set of users who share expenses. The creator is always a
// member, and membership does not change after creation.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g. "Roommates").
	Name string

	// Description is optional free text.
	Description string

	// CreatedBy is the user ID of the creator.
	CreatedBy string

	// Members is the full membership, including the creator.
	Members []User

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// MemberIDs returns the member user IDs in stored order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// HasMember reports whether the user belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
