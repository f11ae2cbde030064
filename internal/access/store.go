package access

import "context"

// ProfileStore describes the persistence operations the service needs for
// authorization profiles. The engine itself never touches storage; callers
// load a document, run it through Normalize/ReconcileClaims, and persist
// the result if desired.
type ProfileStore interface {
	Load(ctx context.Context, accountID string) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context, accountID string) error
}
