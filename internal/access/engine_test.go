package access

import (
	"reflect"
	"testing"
)

func TestNormalizeSuperAdminRole(t *testing.T) {
	e := NewEngine()
	p := &Profile{
		ID:    "u1",
		Role:  RoleSuperAdmin,
		Roles: []string{"existing"},
	}
	got := e.Normalize(p)
	if !got.IsAdmin {
		t.Fatal("expected IsAdmin to be raised")
	}
	want := append([]string{"existing"}, DefaultLegacyAdminRoles...)
	if !reflect.DeepEqual(got.Roles, want) {
		t.Fatalf("roles = %v, want %v", got.Roles, want)
	}
	if p.IsAdmin {
		t.Fatal("input profile must not be mutated")
	}
}

func TestNormalizeWildcardPermission(t *testing.T) {
	e := NewEngine()
	p := &Profile{ID: "u2", Role: "student", Permissions: []string{"*:*:*"}}
	got := e.Normalize(p)
	if !got.IsAdmin {
		t.Fatal("wildcard permission should imply admin")
	}
}

func TestNormalizeLeavesRegularProfileUntouched(t *testing.T) {
	e := NewEngine()
	p := &Profile{ID: "u3", Role: "student", Roles: []string{"member"}, Permissions: []string{"events:view:all"}}
	got := e.Normalize(p)
	if got != p {
		t.Fatal("non-super profile should pass through unchanged")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	e := NewEngine()
	profiles := []*Profile{
		nil,
		{ID: "a", Role: RoleSuperAdmin},
		{ID: "b", Role: "student", Permissions: []string{"*:*:*"}, Roles: []string{"admin"}},
		{ID: "c", Role: "student"},
	}
	for _, p := range profiles {
		once := e.Normalize(p)
		twice := e.Normalize(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("normalize not idempotent: %+v vs %+v", once, twice)
		}
	}
}

func TestWithLegacyAdminRoles(t *testing.T) {
	e := NewEngine(WithLegacyAdminRoles([]string{"staff", "staff", " ", "publisher"}))
	got := e.Normalize(&Profile{ID: "u4", Role: RoleSuperAdmin})
	want := []string{"staff", "publisher"}
	if !reflect.DeepEqual(got.Roles, want) {
		t.Fatalf("roles = %v, want %v", got.Roles, want)
	}
}

func TestReconcileClaimsRoleShapes(t *testing.T) {
	e := NewEngine()
	base := &Profile{ID: "u5", Roles: []string{"member"}}

	cases := []struct {
		name  string
		roles any
		want  []string
	}{
		{"string list", []string{"mentor", "member"}, []string{"member", "mentor"}},
		{"any list with junk", []any{"mentor", 42, true, "tutor"}, []string{"member", "mentor", "tutor"}},
		{"comma string", " mentor , ,tutor ", []string{"member", "mentor", "tutor"}},
		{"wrong type", map[string]any{"x": 1}, []string{"member"}},
		{"nil", nil, []string{"member"}},
	}
	for _, tc := range cases {
		got := e.ReconcileClaims(base, TokenClaims{Roles: tc.roles})
		if !reflect.DeepEqual(got.Roles, tc.want) {
			t.Fatalf("%s: roles = %v, want %v", tc.name, got.Roles, tc.want)
		}
	}
}

func TestReconcileClaimsIsMonotonic(t *testing.T) {
	e := NewEngine()
	p := &Profile{ID: "u6", IsAdmin: true, Roles: []string{"member", "mentor"}}

	got := e.ReconcileClaims(p, TokenClaims{Admin: false, Roles: []string{"tutor"}})
	if !got.IsAdmin {
		t.Fatal("claims merge must never clear the admin flag")
	}
	for _, role := range p.Roles {
		found := false
		for _, r := range got.Roles {
			if r == role {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("role %q lost during merge: %v", role, got.Roles)
		}
	}

	elevated := e.ReconcileClaims(&Profile{ID: "u7"}, TokenClaims{Admin: true})
	if !elevated.IsAdmin {
		t.Fatal("claims should be able to add admin status")
	}
}

func TestReconcileClaimsNilProfile(t *testing.T) {
	e := NewEngine()
	if got := e.ReconcileClaims(nil, TokenClaims{Admin: true, Roles: []string{"mentor"}}); got != nil {
		t.Fatalf("claims must not materialize a profile, got %+v", got)
	}
}

func TestReconcileClaimsPreservesOtherFields(t *testing.T) {
	e := NewEngine()
	p := &Profile{
		ID:          "u8",
		Role:        "student",
		Status:      StatusActive,
		Department:  "cs",
		Permissions: []string{"events:view:all"},
	}
	got := e.ReconcileClaims(p, TokenClaims{Roles: []string{"mentor"}})
	if got.ID != p.ID || got.Role != p.Role || got.Status != p.Status || got.Department != p.Department {
		t.Fatalf("scalar fields changed: %+v", got)
	}
	if !reflect.DeepEqual(got.Permissions, p.Permissions) {
		t.Fatalf("permissions changed: %v", got.Permissions)
	}
}
