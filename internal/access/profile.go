package access

import "time"

// Account status values. Any status other than active strips the account of
// every permission regardless of its role fields.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusExpired   = "expired"
	StatusRevoked   = "revoked"
)

// Distinguished role values.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

// Profile is the resolved authorization record for one account. Roles holds
// legacy free-form tokens (which may themselves be permission-shaped
// strings); Permissions holds structured resource:action:scope strings. The
// two lists are a union for every check, never exclusive.
type Profile struct {
	ID          string     `json:"id"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Department  string     `json:"department,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsAdmin     bool       `json:"is_admin"`
	Roles       []string   `json:"roles"`
	Permissions []string   `json:"permissions"`
}

// Clone returns a deep copy so merge operations never alias the caller's
// slices.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	if p.ExpiresAt != nil {
		t := *p.ExpiresAt
		out.ExpiresAt = &t
	}
	out.Roles = append([]string(nil), p.Roles...)
	out.Permissions = append([]string(nil), p.Permissions...)
	return &out
}

// EffectiveStatus treats an unset status as active for backward
// compatibility with documents written before the status field existed.
func (p *Profile) EffectiveStatus() string {
	if p == nil {
		return ""
	}
	if p.Status == "" {
		return StatusActive
	}
	return p.Status
}
