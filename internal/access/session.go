package access

import "sync"

// Session serializes the three concurrent sources that mutate an account's
// profile during a sign-in session: the live document subscription, token
// claim refreshes, and optimistic local edits. Every update is a pure merge
// over the current profile. Only a full document load may revoke a
// previously granted capability — it is the authoritative record. Claim
// and local-edit merges are monotonic: they can widen access, never narrow
// it.
type Session struct {
	engine *Engine

	mu      sync.Mutex
	profile *Profile
}

// NewSession starts an empty session bound to the engine.
func NewSession(engine *Engine) *Session {
	return &Session{engine: engine}
}

// Current returns a copy of the session profile, or nil before the first
// document load.
func (s *Session) Current() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// ApplyDocument replaces the session profile with a freshly loaded
// document. The document is authoritative and may set any field, including
// revoking prior grants. It is normalized before use. A nil document signs
// the session out.
func (s *Session) ApplyDocument(doc *Profile) *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc == nil {
		s.profile = nil
		return nil
	}
	s.profile = s.engine.Normalize(doc.Clone())
	return s.profile.Clone()
}

// ApplyClaims merges refreshed token claims into the session profile. A
// no-op before the first document load: claims cannot materialize a
// profile.
func (s *Session) ApplyClaims(claims TokenClaims) *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	s.profile = s.engine.ReconcileClaims(s.profile, claims)
	return s.profile.Clone()
}

// ApplyLocalEdit applies an optimistic local profile edit. The edit may
// change descriptive fields freely, but grants stay monotonic within the
// session: roles and permissions are unioned with the current ones and the
// admin flag never drops. Demotion must arrive through ApplyDocument.
func (s *Session) ApplyLocalEdit(edit func(Profile) Profile) *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil || edit == nil {
		return s.profile.Clone()
	}
	edited := edit(*s.profile.Clone())
	edited.IsAdmin = edited.IsAdmin || s.profile.IsAdmin
	edited.Roles = dedupeStrings(append(append([]string(nil), s.profile.Roles...), edited.Roles...))
	edited.Permissions = dedupeStrings(append(append([]string(nil), s.profile.Permissions...), edited.Permissions...))
	s.profile = s.engine.Normalize(&edited)
	return s.profile.Clone()
}
