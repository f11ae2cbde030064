package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/access"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/identity"
)

const testSecret = "httpapi-test-secret"

// stubProfiles is an in-memory ProfileStore for handler tests.
type stubProfiles struct {
	docs map[string]*access.Profile
}

func newStubProfiles(profiles ...*access.Profile) *stubProfiles {
	s := &stubProfiles{docs: make(map[string]*access.Profile)}
	for _, p := range profiles {
		s.docs[p.ID] = p
	}
	return s
}

func (s *stubProfiles) Load(_ context.Context, accountID string) (*access.Profile, error) {
	p, ok := s.docs[accountID]
	if !ok {
		return nil, access.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *stubProfiles) Save(_ context.Context, profile *access.Profile) error {
	s.docs[profile.ID] = profile.Clone()
	return nil
}

func (s *stubProfiles) Delete(_ context.Context, accountID string) error {
	if _, ok := s.docs[accountID]; !ok {
		return access.ErrNotFound
	}
	delete(s.docs, accountID)
	return nil
}

type testAPI struct {
	t       *testing.T
	api     *API
	handler http.Handler
}

func newTestAPI(t *testing.T, profiles access.ProfileStore) *testAPI {
	t.Helper()
	verifier, err := identity.NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	api := New(Config{
		Engine:   access.NewEngine(),
		Catalog:  access.NewCatalog(),
		Profiles: profiles,
		Verifier: verifier,
		Version:  "test",
	})
	return &testAPI{t: t, api: api, handler: api.Handler()}
}

func (ta *testAPI) token(accountID string, admin bool, roles []string) string {
	ta.t.Helper()
	token, err := ta.api.verifier.GenerateToken(accountID, admin, roles, time.Hour)
	if err != nil {
		ta.t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func (ta *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ta.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			ta.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ta.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}
