package access

import "context"

type profileContextKey struct{}

// ContextWithProfile attaches the resolved profile to the context.
func ContextWithProfile(ctx context.Context, p *Profile) context.Context {
	if p == nil {
		return ctx
	}
	return context.WithValue(ctx, profileContextKey{}, p.Clone())
}

// ProfileFromContext extracts the resolved profile from the context.
func ProfileFromContext(ctx context.Context) (*Profile, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(profileContextKey{}).(*Profile)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}
