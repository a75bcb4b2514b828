// Package session owns the durable (token, user) pair and the manager that
// orchestrates authentication against the remote API.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cygnuslabs/cygnusone/internal/client/models"
	"github.com/cygnuslabs/cygnusone/internal/client/repositories/prefs"
	"github.com/cygnuslabs/cygnusone/internal/client/repositories/secrets"
)

const (
	keyToken = "auth_token"

	keyUserID    = "user_id"
	keyUserName  = "user_name"
	keyUserEmail = "user_email"
	keyUserRole  = "user_role"
	keyUserPerms = "user_permissions"
)

// Store persists a session as two independent records: the token in the
// secrets store and the user fields in the preference store. The two writes
// are intentionally not transactional; a crash between them leaves partial
// state, which readers treat as logged-out.
type Store struct {
	secrets secrets.Repository
	prefs   prefs.Repository
}

func NewStore(secrets secrets.Repository, prefs prefs.Repository) *Store {
	return &Store{secrets: secrets, prefs: prefs}
}

// SaveSession writes the token first, then the user fields.
func (s *Store) SaveSession(ctx context.Context, token string, user *models.User) error {
	if token == "" || user == nil {
		return fmt.Errorf("refusing to save empty session")
	}

	if err := s.secrets.Set(ctx, keyToken, []byte(token)); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fields := map[string]string{
		keyUserID:    string(user.ID),
		keyUserName:  user.Name,
		keyUserEmail: user.Email,
		keyUserRole:  user.Role,
	}
	if user.Permissions != nil {
		encoded, err := json.Marshal(user.Permissions)
		if err != nil {
			return fmt.Errorf("encoding permissions: %w", err)
		}
		fields[keyUserPerms] = string(encoded)
	}

	// The user record is written as one unit so a failure mid-way cannot
	// leave, say, a new id next to a stale role.
	if err := s.prefs.SetMany(ctx, fields); err != nil {
		return fmt.Errorf("saving user fields: %w", err)
	}

	if user.Permissions == nil {
		if err := s.prefs.Delete(ctx, keyUserPerms); err != nil {
			return fmt.Errorf("clearing permissions: %w", err)
		}
	}

	return nil
}

// Token returns the persisted bearer token, or "" when absent.
func (s *Store) Token(ctx context.Context) (string, error) {
	value, err := s.secrets.Get(ctx, keyToken)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// User reconstructs the persisted user record. It returns (nil, nil) when no
// user id is stored; a missing id means no session regardless of the other
// keys.
func (s *Store) User(ctx context.Context) (*models.User, error) {
	ok, err := s.prefs.Has(ctx, keyUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	user := &models.User{}
	id, err := s.prefs.Get(ctx, keyUserID)
	if err != nil {
		return nil, err
	}
	user.ID = models.UserID(id)

	if user.Name, err = s.prefs.Get(ctx, keyUserName); err != nil {
		return nil, err
	}
	if user.Email, err = s.prefs.Get(ctx, keyUserEmail); err != nil {
		return nil, err
	}
	if user.Role, err = s.prefs.Get(ctx, keyUserRole); err != nil {
		return nil, err
	}

	encoded, err := s.prefs.Get(ctx, keyUserPerms)
	if err != nil {
		return nil, err
	}
	if encoded != "" {
		var tree models.PermissionTree
		if err := json.Unmarshal([]byte(encoded), &tree); err != nil {
			return nil, fmt.Errorf("decoding stored permissions: %w", err)
		}
		user.Permissions = tree
	}

	return user, nil
}

// Clear removes both records.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.secrets.Delete(ctx, keyToken); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	if err := s.prefs.Clear(ctx); err != nil {
		return fmt.Errorf("clearing user fields: %w", err)
	}
	return nil
}
