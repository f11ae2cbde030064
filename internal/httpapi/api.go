package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/access"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/identity"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/obs"
)

const maxRequestBody = 1 << 20 // 1 MiB

// ReadyProbe reports whether downstream dependencies are reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP surface over the access engine.
type API struct {
	mux        *http.ServeMux
	engine     *access.Engine
	catalog    *access.Catalog
	profiles   access.ProfileStore
	verifier   *identity.Verifier
	readyProbe ReadyProbe
	version    string
}

// Config carries the collaborators the API composes.
type Config struct {
	Engine   *access.Engine
	Catalog  *access.Catalog
	Profiles access.ProfileStore
	Verifier *identity.Verifier
	Ready    ReadyProbe
	Version  string
}

// New wires routes onto a fresh mux.
func New(cfg Config) *API {
	a := &API{
		mux:        http.NewServeMux(),
		engine:     cfg.Engine,
		catalog:    cfg.Catalog,
		profiles:   cfg.Profiles,
		verifier:   cfg.Verifier,
		readyProbe: cfg.Ready,
		version:    cfg.Version,
	}
	if a.engine == nil {
		a.engine = access.NewEngine()
	}
	if a.catalog == nil {
		a.catalog = access.NewCatalog()
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/access/check", a.handleAccessCheck)
	a.mux.HandleFunc("/v1/access/decision", a.handleAccessDecision)
	a.mux.HandleFunc("/v1/access/effective", a.handleEffectivePermissions)

	a.mux.HandleFunc("/v1/templates", a.handleTemplates)
	a.mux.HandleFunc("/v1/templates/", a.handleTemplateResource)

	a.mux.HandleFunc("/v1/profiles/", a.handleProfileResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped handler: metrics outermost, then the
// middleware chain, then authentication.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, maxRequestBody)
	h = RateLimit(h, 20, 10)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- service handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "campus-connect-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "campus-connect-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	body := map[string]any{"error": msg}
	if rid := requestIDFromRequest(r); rid != "" {
		body["request_id"] = rid
	}
	writeJSON(w, code, body)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func handleAccessError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, access.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, access.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, access.ErrUnauthorized):
		writeError(w, r, http.StatusForbidden, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "operation failed")
	}
}
