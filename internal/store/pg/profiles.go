package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/access"
)

// Store persists authorization profile documents in Postgres. It is the
// authoritative record: a document loaded from here may legitimately revoke
// grants a session acquired through claims merges.
type Store struct {
	db *sql.DB
}

var _ access.ProfileStore = (*Store)(nil)

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load fetches the profile document for an account.
func (s *Store) Load(ctx context.Context, accountID string) (*access.Profile, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", access.ErrInvalidInput)
	}
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}

	const query = `
		select account_id, role, status, department, expires_at, is_admin, roles, permissions
		from account_profiles
		where account_id = $1`

	var (
		p          access.Profile
		department sql.NullString
		expiresAt  sql.NullTime
		rolesJSON  []byte
		permsJSON  []byte
	)
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&p.ID, &p.Role, &p.Status, &department, &expiresAt, &p.IsAdmin, &rolesJSON, &permsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, access.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if department.Valid {
		p.Department = department.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		p.ExpiresAt = &t
	}
	if err := unmarshalStrings(rolesJSON, &p.Roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	if err := unmarshalStrings(permsJSON, &p.Permissions); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	return &p, nil
}

// Save upserts the profile document.
func (s *Store) Save(ctx context.Context, profile *access.Profile) error {
	if profile == nil || strings.TrimSpace(profile.ID) == "" {
		return fmt.Errorf("%w: profile with account id is required", access.ErrInvalidInput)
	}
	if s.db == nil {
		return errors.New("database connection unavailable")
	}

	rolesJSON, err := json.Marshal(stringsOrEmpty(profile.Roles))
	if err != nil {
		return fmt.Errorf("encode roles: %w", err)
	}
	permsJSON, err := json.Marshal(stringsOrEmpty(profile.Permissions))
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}

	var department sql.NullString
	if profile.Department != "" {
		department = sql.NullString{String: profile.Department, Valid: true}
	}
	var expiresAt sql.NullTime
	if profile.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: profile.ExpiresAt.UTC(), Valid: true}
	}

	const query = `
		insert into account_profiles (account_id, role, status, department, expires_at, is_admin, roles, permissions, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		on conflict (account_id) do update set
			role = excluded.role,
			status = excluded.status,
			department = excluded.department,
			expires_at = excluded.expires_at,
			is_admin = excluded.is_admin,
			roles = excluded.roles,
			permissions = excluded.permissions,
			updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		profile.ID, profile.Role, profile.EffectiveStatus(), department, expiresAt,
		profile.IsAdmin, rolesJSON, permsJSON, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Delete removes the profile document.
func (s *Store) Delete(ctx context.Context, accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return fmt.Errorf("%w: account id is required", access.ErrInvalidInput)
	}
	if s.db == nil {
		return errors.New("database connection unavailable")
	}

	res, err := s.db.ExecContext(ctx, `delete from account_profiles where account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if affected == 0 {
		return access.ErrNotFound
	}
	return nil
}

func unmarshalStrings(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = nil
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
