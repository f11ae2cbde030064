package httpapi

import (
	"net/http"
	"strings"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/access"
)

type similarTemplateRequest struct {
	Permissions []string `json:"permissions"`
}

type similarTemplateResponse struct {
	Template   *access.Template `json:"template,omitempty"`
	Similarity float64          `json:"similarity,omitempty"`
	Found      bool             `json:"found"`
}

// ensureValidAdmin gates the template catalog: it is consulted only during
// admin-provisioning workflows.
func (a *API) ensureValidAdmin(w http.ResponseWriter, r *http.Request) (*access.Profile, bool) {
	profile, ok := access.ProfileFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	if !a.engine.IsAdminAccessValid(profile) {
		writeError(w, r, http.StatusForbidden, a.engine.PermissionDeniedReason(profile, "admin:manage:all"))
		return nil, false
	}
	return profile, true
}

func (a *API) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.ensureValidAdmin(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": a.catalog.All()})
}

func (a *API) handleTemplateResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/templates/"), "/")
	if rest == "" || strings.Contains(rest, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch rest {
	case "grouped":
		a.handleTemplatesGrouped(w, r)
	case "recommended":
		a.handleTemplatesRecommended(w, r)
	case "similar":
		a.handleTemplatesSimilar(w, r)
	default:
		a.handleTemplateByID(w, r, rest)
	}
}

func (a *API) handleTemplatesGrouped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.ensureValidAdmin(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.catalog.Grouped())
}

func (a *API) handleTemplatesRecommended(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.ensureValidAdmin(w, r); !ok {
		return
	}
	hint := r.URL.Query().Get("hint")
	writeJSON(w, http.StatusOK, map[string]any{"templates": a.catalog.Recommended(hint)})
}

func (a *API) handleTemplatesSimilar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := a.ensureValidAdmin(w, r); !ok {
		return
	}
	var req similarTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	tmpl, score, found := a.catalog.FindSimilar(req.Permissions)
	resp := similarTemplateResponse{Found: found}
	if found {
		resp.Template = &tmpl
		resp.Similarity = score
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleTemplateByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.ensureValidAdmin(w, r); !ok {
		return
	}
	tmpl, ok := a.catalog.FindByID(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}
