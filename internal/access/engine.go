package access

import (
	"strings"
	"time"
)

// DefaultLegacyAdminRoles is the legacy role set granted to super admins
// during normalization. It keeps pre-RBAC UI code that checks raw role
// strings working and must never be the sole source of truth for new
// checks. Override with WithLegacyAdminRoles when policy changes.
var DefaultLegacyAdminRoles = []string{
	RoleAdmin,
	"create_event",
	"upload_notes",
}

// Engine resolves profiles and answers authorization questions. Every
// method is a pure transform over its inputs; the engine holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	legacyAdminRoles []string
	now              func() time.Time
}

// Option configures Engine behavior.
type Option func(*Engine)

// WithLegacyAdminRoles overrides the legacy role set injected for super
// admins during normalization.
func WithLegacyAdminRoles(roles []string) Option {
	return func(e *Engine) {
		cleaned := dedupeStrings(roles)
		if len(cleaned) > 0 {
			e.legacyAdminRoles = cleaned
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) {
		if fn != nil {
			e.now = fn
		}
	}
}

// NewEngine constructs an Engine with optional configuration.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		legacyAdminRoles: append([]string(nil), DefaultLegacyAdminRoles...),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Normalize propagates super-admin status onto the profile's legacy
// surface. A profile is super when its role is super_admin or its
// structured permissions contain the all-wildcard token; for such profiles
// the admin flag is raised and the configured legacy admin roles are
// unioned into the roles list. Non-super profiles pass through unchanged —
// normalization never removes information, and it is idempotent so it may
// run on every profile load.
func (e *Engine) Normalize(p *Profile) *Profile {
	if p == nil {
		return nil
	}
	hasWildcard := false
	for _, perm := range p.Permissions {
		if perm == WildcardAll {
			hasWildcard = true
			break
		}
	}
	if p.Role != RoleSuperAdmin && !hasWildcard {
		return p
	}
	out := p.Clone()
	out.IsAdmin = true
	out.Roles = dedupeStrings(append(out.Roles, e.legacyAdminRoles...))
	return out
}

// TokenClaims is the untrusted claims payload attached to a refreshed
// identity-provider credential. Roles may arrive as a list, a single
// comma-delimited string, or garbage; extraction degrades to "no roles"
// rather than failing.
type TokenClaims struct {
	Admin bool
	Roles any
}

// ReconcileClaims overlays token claims on an already-resolved profile.
// Claims can only add: the admin flag is boolean-ORed and claim roles are
// unioned in first-seen order. Revocation never happens here — it arrives
// only through a fresh authoritative document load. A nil profile stays
// nil: claims cannot materialize a profile.
func (e *Engine) ReconcileClaims(p *Profile, claims TokenClaims) *Profile {
	if p == nil {
		return nil
	}
	out := p.Clone()
	out.IsAdmin = out.IsAdmin || claims.Admin
	out.Roles = dedupeStrings(append(out.Roles, claimRoles(claims.Roles)...))
	return out
}

// claimRoles extracts role strings from an untyped claims value. Non-string
// entries and blank tokens are dropped; unknown shapes yield nothing.
func claimRoles(v any) []string {
	switch roles := v.(type) {
	case []string:
		return roles
	case []any:
		out := make([]string, 0, len(roles))
		for _, r := range roles {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		parts := strings.Split(roles, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	default:
		return nil
	}
}

// dedupeStrings removes blanks and duplicates preserving first-seen order.
func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
