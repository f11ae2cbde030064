package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/access"
)

func memberProfile(id string, perms ...string) *access.Profile {
	return &access.Profile{
		ID:          id,
		Role:        "member",
		Status:      access.StatusActive,
		Permissions: perms,
	}
}

func TestAccessCheckSinglePermission(t *testing.T) {
	store := newStubProfiles(memberProfile("u1", "events:create:own"))
	ta := newTestAPI(t, store)
	token := ta.token("u1", false, nil)

	rr := ta.do(http.MethodPost, "/v1/access/check", token, accessCheckRequest{Permission: "events:create:own"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var resp accessCheckResponse
	decodeBody(t, rr, &resp)
	if !resp.Allowed {
		t.Fatal("granted permission denied")
	}

	rr = ta.do(http.MethodPost, "/v1/access/check", token, accessCheckRequest{Permission: "notes:delete:all"})
	decodeBody(t, rr, &resp)
	if resp.Allowed {
		t.Fatal("ungranted permission allowed")
	}
}

func TestAccessCheckModes(t *testing.T) {
	store := newStubProfiles(memberProfile("u1", "events:create:own"))
	ta := newTestAPI(t, store)
	token := ta.token("u1", false, nil)

	cases := []struct {
		name string
		req  accessCheckRequest
		want bool
	}{
		{
			name: "any with one granted",
			req:  accessCheckRequest{Permissions: []string{"notes:delete:all", "events:create:own"}},
			want: true,
		},
		{
			name: "all with one missing",
			req:  accessCheckRequest{Permissions: []string{"notes:delete:all", "events:create:own"}, Mode: "all"},
			want: false,
		},
		{
			name: "all satisfied",
			req:  accessCheckRequest{Permissions: []string{"events:create:own"}, Mode: "ALL"},
			want: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := ta.do(http.MethodPost, "/v1/access/check", token, tc.req)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			var resp accessCheckResponse
			decodeBody(t, rr, &resp)
			if resp.Allowed != tc.want {
				t.Fatalf("allowed = %v, want %v", resp.Allowed, tc.want)
			}
		})
	}
}

func TestAccessCheckValidation(t *testing.T) {
	store := newStubProfiles(memberProfile("u1"))
	ta := newTestAPI(t, store)
	token := ta.token("u1", false, nil)

	rr := ta.do(http.MethodPost, "/v1/access/check", token, accessCheckRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty request: status = %d, want 400", rr.Code)
	}

	rr = ta.do(http.MethodGet, "/v1/access/check", token, nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET: status = %d, want 405", rr.Code)
	}
	if allow := rr.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", allow)
	}
}

func TestAccessCheckRejectsUnknownFields(t *testing.T) {
	store := newStubProfiles(memberProfile("u1"))
	ta := newTestAPI(t, store)
	token := ta.token("u1", false, nil)

	rr := ta.do(http.MethodPost, "/v1/access/check", token, map[string]any{"permision": "events:create:own"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestAccessDecisionOwnScope(t *testing.T) {
	store := newStubProfiles(memberProfile("u1", "notes:edit:own"))
	ta := newTestAPI(t, store)
	token := ta.token("u1", false, nil)

	rr := ta.do(http.MethodPost, "/v1/access/decision", token, accessDecisionRequest{
		Action:        "notes:edit",
		TargetOwnerID: "u1",
	})
	var resp accessDecisionResponse
	decodeBody(t, rr, &resp)
	if !resp.Allowed {
		t.Fatalf("own-scope edit denied: %+v", resp)
	}

	rr = ta.do(http.MethodPost, "/v1/access/decision", token, accessDecisionRequest{
		Action:        "notes:edit",
		TargetOwnerID: "u2",
	})
	decodeBody(t, rr, &resp)
	if resp.Allowed {
		t.Fatal("edit of someone else's note allowed")
	}
	if resp.Reason == "" {
		t.Fatal("denial carried no reason")
	}
}

func TestAccessDecisionDepartmentScope(t *testing.T) {
	p := memberProfile("head1", "notes:review:department")
	p.Department = "CS"
	store := newStubProfiles(p)
	ta := newTestAPI(t, store)
	token := ta.token("head1", false, nil)

	rr := ta.do(http.MethodPost, "/v1/access/decision", token, accessDecisionRequest{
		Action:           "notes:review",
		TargetOwnerID:    "student1",
		TargetDepartment: "CS",
	})
	var resp accessDecisionResponse
	decodeBody(t, rr, &resp)
	if !resp.Allowed {
		t.Fatalf("same-department review denied: %+v", resp)
	}

	rr = ta.do(http.MethodPost, "/v1/access/decision", token, accessDecisionRequest{
		Action:           "notes:review",
		TargetOwnerID:    "student2",
		TargetDepartment: "EE",
	})
	decodeBody(t, rr, &resp)
	if resp.Allowed {
		t.Fatal("cross-department review allowed")
	}
}

func TestAccessDecisionSuspendedReason(t *testing.T) {
	p := memberProfile("u1", "events:create:own")
	p.Status = access.StatusSuspended
	store := newStubProfiles(p)
	ta := newTestAPI(t, store)
	token := ta.token("u1", false, nil)

	rr := ta.do(http.MethodPost, "/v1/access/decision", token, accessDecisionRequest{Permission: "events:create:own"})
	var resp accessDecisionResponse
	decodeBody(t, rr, &resp)
	if resp.Allowed {
		t.Fatal("suspended account allowed")
	}
	if resp.Reason != "Your account has been suspended. Contact an administrator." {
		t.Fatalf("reason = %q", resp.Reason)
	}
}

func TestEffectivePermissionsEndpoint(t *testing.T) {
	super := &access.Profile{ID: "root", Role: access.RoleSuperAdmin, Status: access.StatusActive}
	member := memberProfile("u1", "events:create:own")
	member.Roles = []string{"moderator", "notes:upload:own"}
	store := newStubProfiles(super, member)
	ta := newTestAPI(t, store)

	rr := ta.do(http.MethodGet, "/v1/access/effective", ta.token("root", true, nil), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body struct {
		AccountID   string   `json:"account_id"`
		Permissions []string `json:"permissions"`
	}
	decodeBody(t, rr, &body)
	if len(body.Permissions) != 1 || body.Permissions[0] != access.WildcardAll {
		t.Fatalf("super admin permissions = %v, want [%s]", body.Permissions, access.WildcardAll)
	}

	rr = ta.do(http.MethodGet, "/v1/access/effective", ta.token("u1", false, nil), nil)
	decodeBody(t, rr, &body)
	if body.AccountID != "u1" {
		t.Fatalf("account_id = %q", body.AccountID)
	}
	want := map[string]bool{"events:create:own": true, "notes:upload:own": true}
	if len(body.Permissions) != len(want) {
		t.Fatalf("permissions = %v", body.Permissions)
	}
	for _, perm := range body.Permissions {
		if !want[perm] {
			t.Fatalf("unexpected permission %q in %v", perm, body.Permissions)
		}
	}
}

func TestAccessDecisionAdminGrantExpiredReason(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	p := &access.Profile{
		ID:        "adm1",
		Role:      access.RoleAdmin,
		Status:    access.StatusActive,
		IsAdmin:   true,
		ExpiresAt: &past,
	}
	store := newStubProfiles(p)
	ta := newTestAPI(t, store)
	token := ta.token("adm1", true, nil)

	rr := ta.do(http.MethodPost, "/v1/access/decision", token, accessDecisionRequest{Permission: "admin:manage:all"})
	var resp accessDecisionResponse
	decodeBody(t, rr, &resp)
	if resp.Allowed {
		t.Fatal("expired admin grant allowed")
	}
	if resp.Reason != "Your administrator access has expired." {
		t.Fatalf("reason = %q", resp.Reason)
	}
}
