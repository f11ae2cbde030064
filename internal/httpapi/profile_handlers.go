package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/access"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/audit"
)

type saveProfileRequest struct {
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Department  string     `json:"department"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsAdmin     bool       `json:"is_admin"`
	Roles       []string   `json:"roles"`
	Permissions []string   `json:"permissions"`
}

func (a *API) handleProfileResource(w http.ResponseWriter, r *http.Request) {
	if a.profiles == nil {
		writeError(w, r, http.StatusServiceUnavailable, "profile store unavailable")
		return
	}
	accountID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/profiles/"), "/")
	if accountID == "" || strings.Contains(accountID, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.handleProfileGet(w, r, accountID)
	case http.MethodPut:
		a.handleProfilePut(w, r, accountID)
	default:
		methodNotAllowed(w, r, "GET, PUT")
	}
}

func (a *API) handleProfileGet(w http.ResponseWriter, r *http.Request, accountID string) {
	actor, ok := access.ProfileFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	// Accounts may read their own profile; everything else requires the
	// admin-management gate.
	if actor.ID != accountID && !a.engine.CanManageAdmins(actor) {
		writeError(w, r, http.StatusForbidden, a.engine.PermissionDeniedReason(actor, "admin:manage:all"))
		return
	}
	profile, err := a.profiles.Load(r.Context(), accountID)
	if err != nil {
		handleAccessError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.engine.Normalize(profile))
}

func (a *API) handleProfilePut(w http.ResponseWriter, r *http.Request, accountID string) {
	actor, ok := access.ProfileFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	if !a.engine.CanManageAdmins(actor) {
		writeError(w, r, http.StatusForbidden, a.engine.PermissionDeniedReason(actor, "admin:manage:all"))
		return
	}

	var req saveProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	target := &access.Profile{
		ID:          accountID,
		Role:        req.Role,
		Status:      req.Status,
		Department:  req.Department,
		ExpiresAt:   req.ExpiresAt,
		IsAdmin:     req.IsAdmin,
		Roles:       req.Roles,
		Permissions: req.Permissions,
	}

	// Writing an admin's document goes through the stricter pairwise gate:
	// no self-edits, no super-admin targets.
	current, err := a.profiles.Load(r.Context(), accountID)
	if err == nil && a.engine.IsAdmin(current) {
		if !a.engine.CanModifyAdmin(actor, current) {
			writeError(w, r, http.StatusForbidden, "administrator accounts cannot be modified through this path")
			return
		}
	}

	normalized := a.engine.Normalize(target)
	if err := a.profiles.Save(r.Context(), normalized); err != nil {
		handleAccessError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "profile.save", map[string]any{
		"account_id": accountID,
		"role":       normalized.Role,
		"status":     normalized.EffectiveStatus(),
	})
	writeJSON(w, http.StatusOK, normalized)
}
