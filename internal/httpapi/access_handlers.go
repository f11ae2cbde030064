package httpapi

import (
	"net/http"
	"strings"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/access"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/audit"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/obs"
)

type accessCheckRequest struct {
	Permission  string   `json:"permission,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Mode        string   `json:"mode,omitempty"` // "any" (default) or "all"
}

type accessCheckResponse struct {
	Allowed bool `json:"allowed"`
}

type accessDecisionRequest struct {
	Action           string `json:"action,omitempty"` // resource:action pair for scope-aware checks
	TargetOwnerID    string `json:"target_owner_id,omitempty"`
	TargetDepartment string `json:"target_department,omitempty"`
	Permission       string `json:"permission,omitempty"`
}

type accessDecisionResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func (a *API) handleAccessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req accessCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile, _ := access.ProfileFromContext(r.Context())

	var allowed bool
	switch {
	case len(req.Permissions) > 0 && strings.EqualFold(req.Mode, "all"):
		allowed = a.engine.HasAllPermissions(profile, req.Permissions...)
	case len(req.Permissions) > 0:
		allowed = a.engine.HasAnyPermission(profile, req.Permissions...)
	case strings.TrimSpace(req.Permission) != "":
		allowed = a.engine.HasPermission(profile, req.Permission)
	default:
		writeError(w, r, http.StatusBadRequest, "permission or permissions is required")
		return
	}

	obs.RecordDecision(allowed)
	if !allowed {
		_ = audit.LogEvent(r.Context(), "access.denied", map[string]any{
			"permission":  req.Permission,
			"permissions": req.Permissions,
			"mode":        req.Mode,
		})
	}
	writeJSON(w, http.StatusOK, accessCheckResponse{Allowed: allowed})
}

func (a *API) handleAccessDecision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req accessDecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile, _ := access.ProfileFromContext(r.Context())

	var (
		allowed  bool
		required string
	)
	switch {
	case strings.TrimSpace(req.Action) != "":
		required = req.Action
		allowed = a.engine.CanPerformAction(profile, req.Action, req.TargetOwnerID, req.TargetDepartment)
	case strings.TrimSpace(req.Permission) != "":
		required = req.Permission
		allowed = a.engine.HasPermission(profile, req.Permission)
	default:
		writeError(w, r, http.StatusBadRequest, "action or permission is required")
		return
	}

	obs.RecordDecision(allowed)
	resp := accessDecisionResponse{Allowed: allowed}
	if !allowed {
		resp.Reason = a.engine.PermissionDeniedReason(profile, required)
		_ = audit.LogEvent(r.Context(), "access.denied", map[string]any{
			"action": required,
			"reason": resp.Reason,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleEffectivePermissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	profile, ok := access.ProfileFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"account_id":  profile.ID,
		"permissions": a.engine.EffectivePermissions(profile),
	})
}
