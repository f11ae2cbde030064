package access

import "strings"

// Wildcard matches any value in a permission field.
const Wildcard = "*"

// WildcardAll is the permission that matches every other permission.
const WildcardAll = "*:*:*"

// Scope constants for the third permission field.
const (
	ScopeOwn        = "own"
	ScopeDepartment = "department"
	ScopeAll        = "all"
)

// Permission is an atomic resource:action:scope capability token.
type Permission struct {
	Resource string
	Action   string
	Scope    string
}

// ParsePermission parses a colon-delimited permission string. It is total:
// missing trailing parts default the scope to "own", missing resource or
// action default to the empty string. Garbled input from legacy stored data
// degrades rather than erroring, so a bad string can never block checks.
func ParsePermission(s string) Permission {
	parts := strings.SplitN(s, ":", 3)
	p := Permission{Scope: ScopeOwn}
	switch len(parts) {
	case 3:
		p.Scope = parts[2]
		fallthrough
	case 2:
		p.Action = parts[1]
		fallthrough
	case 1:
		p.Resource = parts[0]
	}
	if p.Scope == "" {
		p.Scope = ScopeOwn
	}
	return p
}

// ForResource returns the permission granting every action in every scope
// on the given resource.
func ForResource(resource string) Permission {
	return Permission{Resource: resource, Action: Wildcard, Scope: Wildcard}
}

// String renders the canonical three-field form. For permissions whose
// fields contain no ":" character, ParsePermission(p.String()) == p.
func (p Permission) String() string {
	return p.Resource + ":" + p.Action + ":" + p.Scope
}

// Matches reports whether this granted permission satisfies the required
// one. Matching is directional: a wildcard field on the receiver matches
// anything, a wildcard on the argument does not.
func (p Permission) Matches(required Permission) bool {
	return fieldMatches(p.Resource, required.Resource) &&
		fieldMatches(p.Action, required.Action) &&
		fieldMatches(p.Scope, required.Scope)
}

func fieldMatches(granted, required string) bool {
	return granted == Wildcard || granted == required
}
