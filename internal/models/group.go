package models

import "time"

// Group represents a set of members who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Flat 4B", "Ski Trip").
	Name string

	// Members lists everyone who can pay for or share an expense.
	Members []Member

	// CreatedAt is when the group was created.
	CreatedAt time.Time

	// CreatedBy is the user ID of the account that created the group.
	// Empty for groups created outside an authenticated session.
	CreatedBy string
}

// Member is one person inside a group.
type Member struct {
	// ID is unique within the owning group. It doubles as the deterministic
	// ordering key for split remainders and settlement tie-breaks.
	ID string

	// Name is the display name.
	Name string
}

// HasMember reports whether memberID belongs to the group.
func (g *Group) HasMember(memberID string) bool {
	for _, m := range g.Members {
		if m.ID == memberID {
			return true
		}
	}
	return false
}

// MemberIDs returns the IDs of all members in stored order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}
