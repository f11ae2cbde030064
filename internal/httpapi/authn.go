package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/access"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/identity"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
	"/v1/info",
	"/",
}

// withAuth authenticates the bearer token, loads the account's profile
// document, normalizes it, overlays the token claims, and attaches the
// result to the request context. This is the single place the resolver
// pipeline runs per request; handlers only consume the resolved profile.
func (a *API) withAuth(next http.Handler) http.Handler {
	if a.verifier == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := a.verifier.ParseAndValidate(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		profile, err := a.loadProfile(r, claims)
		if err != nil {
			switch {
			case errors.Is(err, access.ErrNotFound):
				// Claims alone cannot materialize a profile.
				writeError(w, r, http.StatusUnauthorized, "unknown account")
			default:
				writeError(w, r, http.StatusInternalServerError, "profile load failed")
			}
			return
		}

		ctx := access.ContextWithProfile(r.Context(), profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) loadProfile(r *http.Request, claims *identity.Claims) (*access.Profile, error) {
	if a.profiles == nil {
		return nil, access.ErrNotFound
	}
	doc, err := a.profiles.Load(r.Context(), claims.Subject)
	if err != nil {
		return nil, err
	}
	resolved := a.engine.Normalize(doc)
	return a.engine.ReconcileClaims(resolved, claims.AccessClaims()), nil
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
