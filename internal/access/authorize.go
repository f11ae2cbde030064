package access

import "strings"

// Denial reasons returned by PermissionDeniedReason, most severe first.
const (
	reasonUnauthenticated = "You must be signed in to perform this action."
	reasonSuspended       = "Your account has been suspended. Contact an administrator."
	reasonExpired         = "Your account is no longer active."
	reasonAdminExpired    = "Your administrator access has expired."
	reasonNotAdmin        = "This action requires administrator access."
	reasonMissing         = "You do not have permission to perform this action."
)

// HasPermission reports whether the account may exercise the required
// permission string. The check is total and fail-closed: a nil profile, an
// inactive status, or a garbled permission string all deny. Status is
// enforced before the super-admin short-circuit, so suspending a super
// admin strips every permission immediately.
func (e *Engine) HasPermission(p *Profile, required string) bool {
	if p == nil {
		return false
	}
	if p.EffectiveStatus() != StatusActive {
		return false
	}
	if p.Role == RoleSuperAdmin {
		return true
	}
	req := ParsePermission(required)
	for _, granted := range p.Permissions {
		if ParsePermission(granted).Matches(req) {
			return true
		}
	}
	// Back-compat: legacy code stored raw action strings in roles.
	for _, role := range p.Roles {
		if role == required {
			return true
		}
	}
	resourceWildcard := ForResource(req.Resource).String()
	for _, granted := range p.Permissions {
		if granted == resourceWildcard {
			return true
		}
	}
	for _, role := range p.Roles {
		if role == resourceWildcard {
			return true
		}
	}
	return false
}

// HasAnyPermission short-circuits over the list. An empty list is never
// trivially satisfied.
func (e *Engine) HasAnyPermission(p *Profile, required ...string) bool {
	if p == nil || len(required) == 0 {
		return false
	}
	for _, perm := range required {
		if e.HasPermission(p, perm) {
			return true
		}
	}
	return false
}

// HasAllPermissions requires every listed permission. An empty list denies.
func (e *Engine) HasAllPermissions(p *Profile, required ...string) bool {
	if p == nil || len(required) == 0 {
		return false
	}
	for _, perm := range required {
		if !e.HasPermission(p, perm) {
			return false
		}
	}
	return true
}

// CanPerformAction answers the scope-aware question: may this account run
// actionBase (a "resource:action" pair) against a target owned by
// targetOwnerID in targetDepartment? Scopes are checked broadest first:
// an "all" grant short-circuits before the data-dependent department and
// own scopes are evaluated.
func (e *Engine) CanPerformAction(p *Profile, actionBase, targetOwnerID, targetDepartment string) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleSuperAdmin && p.EffectiveStatus() == StatusActive {
		return true
	}
	if e.HasPermission(p, actionBase+":"+ScopeAll) {
		return true
	}
	if targetDepartment != "" && targetDepartment == p.Department &&
		e.HasPermission(p, actionBase+":"+ScopeDepartment) {
		return true
	}
	if targetOwnerID != "" && targetOwnerID == p.ID &&
		e.HasPermission(p, actionBase+":"+ScopeOwn) {
		return true
	}
	return false
}

// IsSuperAdmin reports whether the account carries the distinguished
// super-admin role.
func (e *Engine) IsSuperAdmin(p *Profile) bool {
	return p != nil && p.Role == RoleSuperAdmin
}

// IsAdmin reports whether the account is any kind of administrator.
func (e *Engine) IsAdmin(p *Profile) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin || p.Role == RoleAdmin || p.Role == RoleSuperAdmin
}

// IsAdminAccessValid is the single gate time-limited admin grants must
// pass: the account is an admin, active, and its grant has not expired.
// Expiry is a function of wall-clock time, so this is re-evaluated on
// every call and never cached.
func (e *Engine) IsAdminAccessValid(p *Profile) bool {
	if !e.IsAdmin(p) {
		return false
	}
	if p.EffectiveStatus() != StatusActive {
		return false
	}
	if p.ExpiresAt != nil && p.ExpiresAt.Before(e.now()) {
		return false
	}
	return true
}

// CanManageAdmins reports whether the account may enter admin-management
// workflows at all: only a super admin whose own access is currently valid.
func (e *Engine) CanManageAdmins(p *Profile) bool {
	return e.IsSuperAdmin(p) && e.IsAdminAccessValid(p)
}

// CanModifyAdmin reports whether actor may edit target through the generic
// admin-management path. Self-modification is refused, only super admins
// may act, and super-admin targets are protected from demotion or edits
// here — a guard against lockout, not an oversight.
func (e *Engine) CanModifyAdmin(actor, target *Profile) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.ID == target.ID {
		return false
	}
	if !e.IsSuperAdmin(actor) {
		return false
	}
	if e.IsSuperAdmin(target) {
		return false
	}
	return true
}

// EffectivePermissions returns the merged, de-duplicated union of all
// permission sources: structured permissions plus any permission-shaped
// legacy role tokens. A super admin reduces to the single all-wildcard
// token.
func (e *Engine) EffectivePermissions(p *Profile) []string {
	if p == nil {
		return nil
	}
	if p.Role == RoleSuperAdmin {
		return []string{WildcardAll}
	}
	merged := append([]string(nil), p.Permissions...)
	for _, role := range p.Roles {
		if strings.Contains(role, ":") {
			merged = append(merged, role)
		}
	}
	return dedupeStrings(merged)
}

// PermissionDeniedReason explains why a check against required failed, in
// priority order: unauthenticated, suspended, expired/revoked, expired
// admin grant, missing admin status for admin-resource permissions, then
// the generic missing-permission message. Callers should use this instead
// of re-deriving reasons from profile internals.
func (e *Engine) PermissionDeniedReason(p *Profile, required string) string {
	if p == nil {
		return reasonUnauthenticated
	}
	switch p.EffectiveStatus() {
	case StatusActive:
	case StatusSuspended:
		return reasonSuspended
	default:
		return reasonExpired
	}
	if e.IsAdmin(p) && p.ExpiresAt != nil && p.ExpiresAt.Before(e.now()) {
		return reasonAdminExpired
	}
	if ParsePermission(required).Resource == "admin" && !e.IsAdmin(p) {
		return reasonNotAdmin
	}
	return reasonMissing
}
