package policy

import "github.com/Venkatesan-2007/innertia/core/user"

// Scope is the row-level visibility predicate for list queries. Repositories
// apply it server-side before any client-supplied filter; the filter narrows
// the scoped set, it never widens it. A row outside the scope is
// indistinguishable from an absent row.
//
// The zero Scope matches nothing: an unrecognized role sees no rows.
type Scope struct {
	// All lifts every restriction (admin).
	All bool
	// StudentID restricts to rows owned by (or, per collection, visible to)
	// this student.
	StudentID string
	// FacultyID restricts to rows reachable from a Course/Session taught by
	// this faculty.
	FacultyID string
}

// ScopeFor derives the scope an actor's list queries run under.
func ScopeFor(actor user.User) Scope {
	switch actor.Role {
	case user.RoleAdmin:
		return Scope{All: true}
	case user.RoleFaculty:
		return Scope{FacultyID: actor.ID}
	case user.RoleStudent:
		return Scope{StudentID: actor.ID}
	}
	return Scope{}
}

// Empty reports whether the scope matches no rows at all.
func (s Scope) Empty() bool {
	return !s.All && s.StudentID == "" && s.FacultyID == ""
}
